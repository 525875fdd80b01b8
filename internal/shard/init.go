package shard

// OrderEventShard routes order.status events to pg_order_event_YYYYMM_pN.
var OrderEventShard *ShardEngine

func InitShardEngines(eventLogShards int) {
	if eventLogShards <= 0 {
		eventLogShards = 4
	}
	OrderEventShard = NewShardEngine("pg_order_event", uint32(eventLogShards))
}
