// Package idgen hands out snowflake ids: bridge reference numbers and the
// order keys of synchronous checkouts.
package idgen

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

// DefaultNode is the node every bridge id comes from unless a caller names another.
const DefaultNode = "default"

var nodes sync.Map // name -> *snowflake.Node

// InitNode registers a node under name; nodeID must be unique per running instance.
func InitNode(name string, nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return fmt.Errorf("snowflake node %q (%d): %w", name, nodeID, err)
	}
	nodes.Store(name, n)
	return nil
}

// NewStringFrom panics when name was never initialized; that is a boot error.
func NewStringFrom(name string) string {
	n, ok := nodes.Load(name)
	if !ok {
		panic(fmt.Sprintf("idgen: node %q not initialized", name))
	}
	return n.(*snowflake.Node).Generate().String()
}

// NewString returns a decimal id from DefaultNode.
func NewString() string {
	return NewStringFrom(DefaultNode)
}

// CheckSystemClock stops the process when the wall clock moves backward,
// which snowflake does not guard against.
func CheckSystemClock() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	last := time.Now()
	for now := range ticker.C {
		if now.Before(last) {
			log.Fatalf("[IDGEN] clock moved backward: last=%s now=%s", last.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
		}
		last = now
	}
}
