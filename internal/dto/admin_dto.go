package dto

// ShopReq 商城店铺信息, 由安装流程同步
type ShopReq struct {
	ShopNo       int    `json:"shop_no" binding:"required"`
	ShopName     string `json:"shop_name"`
	CurrencyCode string `json:"currency_code" binding:"required,len=3"`
}

// LinkReq 绑定 PG 密钥
type LinkReq struct {
	MallID    string    `json:"mall_id" binding:"required"`
	MallName  string    `json:"mall_name"`
	PublicKey string    `json:"public_key" binding:"required"`
	SecretKey string    `json:"secret_key" binding:"required"`
	Shops     []ShopReq `json:"shops" binding:"omitempty,dive"`
}

type UnlinkReq struct {
	MallID string `json:"mall_id" binding:"required"`
}

// ToggleShopReq 店铺开关支付
type ToggleShopReq struct {
	MallID string `json:"mall_id" binding:"required"`
	ShopNo int    `json:"shop_no" binding:"required"`
	Action string `json:"action" binding:"required,oneof=enable disable"`
}

type ShopView struct {
	ShopIndex               int    `json:"shop_index"`
	ShopNo                  int    `json:"shop_no"`
	ShopName                string `json:"shop_name"`
	CurrencyCode            string `json:"currency_code"`
	PgEnabled               bool   `json:"pg_enabled"`
	ExternalCheckoutEnabled bool   `json:"external_checkout_enabled"`
}

// SettingsView 商户配置, secret 打码
type SettingsView struct {
	MallID      string     `json:"mall_id"`
	MallName    string     `json:"mall_name"`
	PgConnected bool       `json:"pg_connected"`
	PublicKey   string     `json:"public_key"`
	SecretKey   string     `json:"secret_key"`
	Shops       []ShopView `json:"shops"`
}
