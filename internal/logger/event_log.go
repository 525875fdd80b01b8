package logger

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"gorm.io/gorm"

	"pg-bridge-api/internal/event"
	ordermodel "pg-bridge-api/internal/model/order"
	"pg-bridge-api/internal/shard"
)

// EventLogWriter persists order.status events into the monthly shard tables.
type EventLogWriter struct {
	DB       *gorm.DB
	Shard    *shard.ShardEngine
	migrated sync.Map // table name -> struct{}
}

func NewEventLogWriter(db *gorm.DB, engine *shard.ShardEngine) *EventLogWriter {
	return &EventLogWriter{DB: db, Shard: engine}
}

func (w *EventLogWriter) Write(ctx context.Context, e event.OrderStatusEvent) error {
	id, err := strconv.ParseUint(e.ReferenceNo, 10, 64)
	if err != nil {
		return fmt.Errorf("[EventLog] reference %q is not numeric: %w", e.ReferenceNo, err)
	}
	table := w.Shard.GetTable(id, e.OccurredAt)
	if err := w.ensureTable(table); err != nil {
		return err
	}
	entry := ordermodel.OrderEventLog{
		ReferenceNo:  e.ReferenceNo,
		OrderID:      e.OrderID,
		MallID:       e.MallID,
		Flow:         e.Flow,
		FromStatus:   e.FromStatus,
		ToStatus:     e.ToStatus,
		RefundStatus: e.RefundStatus,
		Version:      e.Version,
		TraceID:      e.TraceID,
		OccurredAt:   e.OccurredAt,
	}
	if err := w.DB.WithContext(ctx).Table(table).Create(&entry).Error; err != nil {
		return fmt.Errorf("[EventLog] write %s failed: %w", table, err)
	}
	return nil
}

// History returns the events of one reference in the month of the given event time.
func (w *EventLogWriter) History(ctx context.Context, e event.OrderStatusEvent) ([]ordermodel.OrderEventLog, error) {
	id, err := strconv.ParseUint(e.ReferenceNo, 10, 64)
	if err != nil {
		return nil, err
	}
	table := w.Shard.GetTable(id, e.OccurredAt)
	var out []ordermodel.OrderEventLog
	err = w.DB.WithContext(ctx).Table(table).Where("reference_no = ?", e.ReferenceNo).Order("version ASC").Find(&out).Error
	return out, err
}

func (w *EventLogWriter) ensureTable(table string) error {
	if _, ok := w.migrated.Load(table); ok {
		return nil
	}
	if err := w.DB.Table(table).AutoMigrate(&ordermodel.OrderEventLog{}); err != nil {
		return fmt.Errorf("[EventLog] migrate %s failed: %w", table, err)
	}
	w.migrated.Store(table, struct{}{})
	return nil
}
