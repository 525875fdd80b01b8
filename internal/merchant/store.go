package merchant

import (
	"context"
	"strings"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/dao"
	mainmodel "pg-bridge-api/internal/model/main"
)

// Store reads and writes merchant settings. Every write enforces the key pair
// and shop enable invariants.
type Store interface {
	Get(ctx context.Context, mallID string) (*mainmodel.Merchant, error)
	Create(ctx context.Context, m *mainmodel.Merchant) error
	// Update applies fn to the stored merchant and saves it when fn returns nil.
	Update(ctx context.Context, mallID string, fn func(m *mainmodel.Merchant) error) (*mainmodel.Merchant, error)
}

type GormStore struct {
	merchants *dao.MerchantDao
}

func NewGormStore(merchants *dao.MerchantDao) *GormStore {
	return &GormStore{merchants: merchants}
}

func (s *GormStore) Get(ctx context.Context, mallID string) (*mainmodel.Merchant, error) {
	if strings.TrimSpace(mallID) == "" {
		return nil, constant.NewErrorf(constant.CodeInvalidRequest, "mall_id is required")
	}
	m, err := s.merchants.GetMerchant(ctx, mallID)
	if err != nil {
		return nil, constant.Wrap(constant.CodeDatabaseError, err)
	}
	if m == nil {
		return nil, constant.NewErrorf(constant.CodeMerchantNotFound, "mall %s does not exist", mallID)
	}
	return m, nil
}

func (s *GormStore) Create(ctx context.Context, m *mainmodel.Merchant) error {
	if strings.TrimSpace(m.MallID) == "" {
		return constant.NewErrorf(constant.CodeInvalidRequest, "mall_id is required")
	}
	existing, err := s.merchants.GetMerchant(ctx, m.MallID)
	if err != nil {
		return constant.Wrap(constant.CodeDatabaseError, err)
	}
	if existing != nil {
		return constant.NewErrorf(constant.CodeMerchantAlreadyExist, "mall %s already exists", m.MallID)
	}
	if err := Validate(m); err != nil {
		return err
	}
	if err := s.merchants.SaveMerchant(ctx, m); err != nil {
		return constant.Wrap(constant.CodeDatabaseError, err)
	}
	return nil
}

func (s *GormStore) Update(ctx context.Context, mallID string, fn func(m *mainmodel.Merchant) error) (*mainmodel.Merchant, error) {
	m, err := s.Get(ctx, mallID)
	if err != nil {
		return nil, err
	}
	if err := fn(m); err != nil {
		return nil, err
	}
	m.MallID = mallID
	if err := Validate(m); err != nil {
		return nil, err
	}
	if err := s.merchants.SaveMerchant(ctx, m); err != nil {
		return nil, constant.Wrap(constant.CodeDatabaseError, err)
	}
	return m, nil
}

// Validate checks the invariants shared by every write.
func Validate(m *mainmodel.Merchant) error {
	pub, sec := m.Keys()
	if (pub == "") != (sec == "") {
		return constant.NewErrorf(constant.CodeMerchantKeyPairBroken, "mall %s: public and secret key must be set together", m.MallID)
	}
	if m.PgConnected && pub == "" {
		return constant.NewErrorf(constant.CodeMerchantKeyPairBroken, "mall %s: connected without keys", m.MallID)
	}
	for _, shop := range m.Shops {
		if shop.PgEnabled && !m.PgConnected {
			return constant.NewErrorf(constant.CodeShopEnableRequiresPG, "mall %s shop %d: gateway enabled on a disconnected mall", m.MallID, shop.ShopNo)
		}
	}
	return nil
}

// Connected returns the merchant only when its PG credentials are linked.
func Connected(ctx context.Context, s Store, mallID string) (*mainmodel.Merchant, error) {
	m, err := s.Get(ctx, mallID)
	if err != nil {
		return nil, err
	}
	if !m.PgConnected {
		return nil, constant.NewErrorf(constant.CodeMerchantNotFound, "mall %s is not connected to the PG", mallID)
	}
	return m, nil
}
