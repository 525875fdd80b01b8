package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/sirupsen/logrus"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/dto"
	"pg-bridge-api/internal/gateway"
	"pg-bridge-api/internal/mall"
	mainmodel "pg-bridge-api/internal/model/main"
	"pg-bridge-api/internal/partner"
)

const (
	ToggleEnable  = "enable"
	ToggleDisable = "disable"

	validationOrderRef = "VALIDATION-ORDER"
)

// AdminService 商户后台: 绑定/解绑 PG 密钥, 店铺开关, 配置查看
type AdminService struct {
	Deps
}

func NewAdminService(d Deps) *AdminService {
	return &AdminService{Deps: d}
}

// Link stores the PG key pair after the PG accepted it. Any answer other than
// 401 to the probe lookup counts as valid credentials.
func (s *AdminService) Link(ctx context.Context, req dto.LinkReq) (dto.SettingsView, error) {
	creds := gateway.Credentials{PublicKey: req.PublicKey, SecretKey: req.SecretKey}
	if _, err := s.Gateway.GetOrder(ctx, creds, gateway.ModeSyncCheckout, validationOrderRef); err != nil &&
		constant.CodeOf(err) == constant.CodeGatewayInvalidCredentials {
		s.Log.WithField("mall_id", req.MallID).Warn("[ADMIN] pg rejected credentials")
		return dto.SettingsView{}, err
	}

	apply := func(m *mainmodel.Merchant) error {
		pub, sec := req.PublicKey, req.SecretKey
		m.PublicKey, m.SecretKey = &pub, &sec
		m.PgConnected = true
		if req.MallName != "" {
			m.MallName = req.MallName
		}
		mergeShops(m, req.Shops)
		return nil
	}

	m, err := s.Merchants.Update(ctx, req.MallID, apply)
	if errors.Is(err, constant.NewError(constant.CodeMerchantNotFound)) {
		m = &mainmodel.Merchant{MallID: req.MallID}
		_ = apply(m)
		err = s.Merchants.Create(ctx, m)
	}
	if err != nil {
		return dto.SettingsView{}, err
	}
	s.Log.WithField("mall_id", req.MallID).Info("[ADMIN] pg linked")
	return settingsView(m)
}

// Unlink turns the gateway off on every enabled shop, then drops the keys.
func (s *AdminService) Unlink(ctx context.Context, mallID string) (dto.SettingsView, error) {
	m, err := s.Merchants.Get(ctx, mallID)
	if err != nil {
		return dto.SettingsView{}, err
	}
	for _, shop := range m.Shops {
		if !shop.PgEnabled {
			continue
		}
		if err := tolerateMall(s.Mall.DisablePaymentGateway(ctx, mallID, shop.ShopNo)); err != nil {
			return dto.SettingsView{}, err
		}
	}
	m, err = s.Merchants.Update(ctx, mallID, func(m *mainmodel.Merchant) error {
		for i := range m.Shops {
			m.Shops[i].PgEnabled = false
			m.Shops[i].ExternalCheckoutEnabled = false
		}
		m.PublicKey, m.SecretKey = nil, nil
		m.PgConnected = false
		return nil
	})
	if err != nil {
		return dto.SettingsView{}, err
	}
	s.Log.WithField("mall_id", mallID).Info("[ADMIN] pg unlinked")
	return settingsView(m)
}

// ToggleShop registers or removes the gateway on one shop at the Mall and
// records the result.
func (s *AdminService) ToggleShop(ctx context.Context, req dto.ToggleShopReq) (dto.SettingsView, error) {
	if req.Action != ToggleEnable && req.Action != ToggleDisable {
		return dto.SettingsView{}, constant.NewErrorf(constant.CodeToggleActionInvalid, "action %q", req.Action)
	}
	enable := req.Action == ToggleEnable
	m, err := s.Merchants.Get(ctx, req.MallID)
	if err != nil {
		return dto.SettingsView{}, err
	}
	shop := m.ShopByNo(req.ShopNo)
	if shop == nil {
		return dto.SettingsView{}, constant.NewErrorf(constant.CodeShopNotFound, "mall %s has no shop %d", req.MallID, req.ShopNo)
	}
	entry := s.Log.WithFields(logrus.Fields{"mall_id": req.MallID, "shop_no": req.ShopNo, "action": req.Action})

	if enable {
		if !m.PgConnected {
			return dto.SettingsView{}, constant.NewErrorf(constant.CodeShopEnableRequiresPG, "mall %s is not linked", req.MallID)
		}
		if !constant.IsSupportedCurrency(shop.CurrencyCode) {
			return dto.SettingsView{}, constant.NewErrorf(constant.CodeCurrencyNotSupported, "shop currency %s", shop.CurrencyCode)
		}
		pub, _ := m.Keys()
		err = s.Mall.EnablePaymentGateway(ctx, req.MallID, shop.ShopNo, partner.Encode(m.MallID, shop.ShopIndex, pub))
	} else {
		err = s.Mall.DisablePaymentGateway(ctx, req.MallID, shop.ShopNo)
	}
	if err := tolerateMall(err); err != nil {
		entry.WithError(err).Error("[ADMIN] mall gateway toggle failed")
		return dto.SettingsView{}, err
	}

	m, err = s.Merchants.Update(ctx, req.MallID, func(m *mainmodel.Merchant) error {
		sh := m.ShopByNo(req.ShopNo)
		if sh == nil {
			return constant.NewErrorf(constant.CodeShopNotFound, "mall %s has no shop %d", req.MallID, req.ShopNo)
		}
		sh.PgEnabled = enable
		sh.ExternalCheckoutEnabled = enable
		return nil
	})
	if err != nil {
		return dto.SettingsView{}, err
	}
	entry.Info("[ADMIN] shop toggled")
	return settingsView(m)
}

func (s *AdminService) Settings(ctx context.Context, mallID string) (dto.SettingsView, error) {
	m, err := s.Merchants.Get(ctx, mallID)
	if err != nil {
		return dto.SettingsView{}, err
	}
	return settingsView(m)
}

// tolerateMall treats "not registered" and "already registered" answers from
// the Mall as done.
func tolerateMall(err error) error {
	if err == nil {
		return nil
	}
	switch mall.StatusOf(err) {
	case http.StatusNotFound, http.StatusUnprocessableEntity:
		return nil
	}
	return err
}

func mergeShops(m *mainmodel.Merchant, shops []dto.ShopReq) {
	next := 0
	for _, sh := range m.Shops {
		if sh.ShopIndex >= next {
			next = sh.ShopIndex + 1
		}
	}
	for _, in := range shops {
		if sh := m.ShopByNo(in.ShopNo); sh != nil {
			sh.CurrencyCode = strings.ToUpper(in.CurrencyCode)
			if in.ShopName != "" {
				sh.ShopName = in.ShopName
			}
			continue
		}
		m.Shops = append(m.Shops, mainmodel.Shop{
			MallID:       m.MallID,
			ShopIndex:    next,
			ShopNo:       in.ShopNo,
			ShopName:     in.ShopName,
			CurrencyCode: strings.ToUpper(in.CurrencyCode),
		})
		next++
	}
}

func settingsView(m *mainmodel.Merchant) (dto.SettingsView, error) {
	pub, sec := m.Keys()
	view := dto.SettingsView{
		MallID:      m.MallID,
		MallName:    m.MallName,
		PgConnected: m.PgConnected,
		PublicKey:   pub,
		SecretKey:   mask(sec),
		Shops:       []dto.ShopView{},
	}
	if err := copier.Copy(&view.Shops, &m.Shops); err != nil {
		return dto.SettingsView{}, constant.Wrap(constant.CodeSystemError, err)
	}
	return view, nil
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
