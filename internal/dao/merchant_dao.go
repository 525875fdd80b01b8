package dao

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"pg-bridge-api/internal/dal"
	mainmodel "pg-bridge-api/internal/model/main"
)

type MerchantDao struct {
	DB *gorm.DB
}

func NewMerchantDao() *MerchantDao {
	if dal.MainDB == nil {
		log.Panic("[FATAL] dal.MainDB is nil - database not initialized")
	}
	return &MerchantDao{DB: dal.MainDB}
}

func NewMerchantDaoWithDB(db *gorm.DB) *MerchantDao {
	if db == nil {
		log.Panic("[FATAL] db cannot be nil")
	}
	return &MerchantDao{DB: db}
}

// GetMerchant loads the merchant with its shops ordered by shop_index, (nil, nil) if absent.
func (r *MerchantDao) GetMerchant(ctx context.Context, mallID string) (*mainmodel.Merchant, error) {
	var m mainmodel.Merchant
	err := r.DB.WithContext(ctx).
		Preload("Shops", func(db *gorm.DB) *gorm.DB { return db.Order("shop_index ASC") }).
		Where("mall_id = ?", mallID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query merchant failed: %w", err)
	}
	return &m, nil
}

// SaveMerchant writes the merchant and all its shops in one transaction.
func (r *MerchantDao) SaveMerchant(ctx context.Context, m *mainmodel.Merchant) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Shops").Save(m).Error; err != nil {
			return fmt.Errorf("save merchant failed: %w", err)
		}
		for i := range m.Shops {
			m.Shops[i].MallID = m.MallID
			if err := tx.Save(&m.Shops[i]).Error; err != nil {
				return fmt.Errorf("save shop %d failed: %w", m.Shops[i].ShopNo, err)
			}
		}
		return nil
	})
}
