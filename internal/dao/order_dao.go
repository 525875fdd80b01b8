package dao

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"pg-bridge-api/internal/dal"
	ordermodel "pg-bridge-api/internal/model/order"
)

type OrderDao struct {
	DB *gorm.DB
}

// 工厂方法：默认使用 dal.OrderDB
func NewOrderDao() *OrderDao {
	if dal.OrderDB == nil {
		log.Panic("[FATAL] dal.OrderDB is nil - database not initialized")
	}
	return &OrderDao{DB: dal.OrderDB}
}

// 支持传入自定义 DB（比如测试用 sqlite）
func NewOrderDaoWithDB(db *gorm.DB) *OrderDao {
	if db == nil {
		log.Panic("[FATAL] db cannot be nil")
	}
	return &OrderDao{DB: db}
}

func (r *OrderDao) checkDB() error {
	if r == nil {
		return errors.New("OrderDao is nil")
	}
	if r.DB == nil {
		return errors.New("DB connection is nil")
	}
	return nil
}

func (r *OrderDao) Insert(ctx context.Context, o *ordermodel.Order) error {
	if err := r.checkDB(); err != nil {
		return fmt.Errorf("insert order failed: %w", err)
	}
	return r.DB.WithContext(ctx).Create(o).Error
}

// GetByReference returns (nil, nil) when no row matches.
func (r *OrderDao) GetByReference(ctx context.Context, referenceNo string) (*ordermodel.Order, error) {
	return r.first(ctx, "reference_no = ?", referenceNo)
}

func (r *OrderDao) GetByOrderID(ctx context.Context, mallID, orderID string) (*ordermodel.Order, error) {
	return r.first(ctx, "mall_id = ? AND order_id = ?", mallID, orderID)
}

func (r *OrderDao) GetByOrderKey(ctx context.Context, orderKey string) (*ordermodel.Order, error) {
	return r.first(ctx, "order_key = ?", orderKey)
}

func (r *OrderDao) first(ctx context.Context, query string, args ...interface{}) (*ordermodel.Order, error) {
	if err := r.checkDB(); err != nil {
		return nil, fmt.Errorf("get order failed: %w", err)
	}
	var m ordermodel.Order
	err := r.DB.WithContext(ctx).Where(query, args...).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &m, nil
}

// CompareAndSwap applies updates only if the row still carries version and bumps it.
// It reports whether this call won.
func (r *OrderDao) CompareAndSwap(ctx context.Context, referenceNo string, version int64, updates map[string]interface{}) (bool, error) {
	if err := r.checkDB(); err != nil {
		return false, fmt.Errorf("cas order failed: %w", err)
	}
	updates["version"] = version + 1
	res := r.DB.WithContext(ctx).Model(&ordermodel.Order{}).
		Where("reference_no = ? AND version = ?", referenceNo, version).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("cas update failed: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
