package shard

import (
	"fmt"
	"log"
	"time"
)

// ShardEngine 分表路由器, 表名形如 base_YYYYMM_pN
type ShardEngine struct {
	BaseTable  string
	ShardCount uint32
	Strategy   ShardStrategy
}

func NewShardEngine(base string, count uint32) *ShardEngine {
	if count == 0 {
		count = 1
	}
	return &ShardEngine{
		BaseTable:  base,
		ShardCount: count,
		Strategy:   NewCRC32Strategy(count),
	}
}

// GetTable 根据 id 和时间获取分表名
func (e *ShardEngine) GetTable(id uint64, t time.Time) string {
	if t.IsZero() || t.Year() < 2000 {
		log.Printf("[ShardEngine] 非法时间: %v，使用当前时间", t)
		t = time.Now()
	}
	return fmt.Sprintf("%s_%s_p%d", e.BaseTable, t.Format("200601"), e.Strategy.GetShard(id))
}

// Tables lists every shard table of the month containing t.
func (e *ShardEngine) Tables(t time.Time) []string {
	month := t.Format("200601")
	out := make([]string, 0, e.ShardCount)
	for i := uint32(0); i < e.ShardCount; i++ {
		out = append(out, fmt.Sprintf("%s_%s_p%d", e.BaseTable, month, i))
	}
	return out
}
