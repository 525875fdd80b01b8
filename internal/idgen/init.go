package idgen

import "log"

// Init sets up DefaultNode from order.snowflakeNode.
func Init(nodeID int64) {
	if err := InitNode(DefaultNode, nodeID); err != nil {
		log.Fatalf("[IDGEN] %v", err)
	}
	log.Printf("[IDGEN] node %d ready", nodeID)
}
