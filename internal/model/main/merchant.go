package mainmodel

import "time"

// Merchant is one mall's gateway settings (pg_merchant).
type Merchant struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	MallID      string    `gorm:"column:mall_id;type:varchar(64);uniqueIndex;not null"`
	MallName    string    `gorm:"column:mall_name;type:varchar(128)"`
	PgConnected bool      `gorm:"column:pg_connected;not null;default:false"`
	PublicKey   *string   `gorm:"column:public_key;type:varchar(255)"`
	SecretKey   *string   `gorm:"column:secret_key;type:varchar(255)"`
	Shops       []Shop    `gorm:"foreignKey:MallID;references:MallID"`
	CreateTime  time.Time `gorm:"column:create_time;autoCreateTime"`
	UpdateTime  time.Time `gorm:"column:update_time;autoUpdateTime"`
}

func (Merchant) TableName() string { return "pg_merchant" }

// ShopAt returns the shop stored under index, or nil.
func (m *Merchant) ShopAt(index int) *Shop {
	for i := range m.Shops {
		if m.Shops[i].ShopIndex == index {
			return &m.Shops[i]
		}
	}
	return nil
}

// ShopByNo returns the shop with the Mall shop number, or nil.
func (m *Merchant) ShopByNo(shopNo int) *Shop {
	for i := range m.Shops {
		if m.Shops[i].ShopNo == shopNo {
			return &m.Shops[i]
		}
	}
	return nil
}

func (m *Merchant) Keys() (publicKey, secretKey string) {
	if m.PublicKey != nil {
		publicKey = *m.PublicKey
	}
	if m.SecretKey != nil {
		secretKey = *m.SecretKey
	}
	return
}

// Shop is one storefront of a mall (pg_merchant_shop), ordered by shop_index.
type Shop struct {
	ID                       uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	MallID                   string    `gorm:"column:mall_id;type:varchar(64);not null;uniqueIndex:uk_mall_shop"`
	ShopIndex                int       `gorm:"column:shop_index;not null;uniqueIndex:uk_mall_shop"`
	ShopNo                   int       `gorm:"column:shop_no;not null"`
	ShopName                 string    `gorm:"column:shop_name;type:varchar(128)"`
	CurrencyCode             string    `gorm:"column:currency_code;type:char(3)"`
	PgEnabled                bool      `gorm:"column:pg_enabled;not null;default:false"`
	ExternalCheckoutScriptID *string   `gorm:"column:external_checkout_script_id;type:varchar(64)"`
	ExternalCheckoutEnabled  bool      `gorm:"column:external_checkout_enabled;not null;default:false"`
	UpdateTime               time.Time `gorm:"column:update_time;autoUpdateTime"`
}

func (Shop) TableName() string { return "pg_merchant_shop" }
