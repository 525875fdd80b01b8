package service

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"pg-bridge-api/internal/dao"
	"pg-bridge-api/internal/gateway"
	"pg-bridge-api/internal/idgen"
	"pg-bridge-api/internal/ledger"
	"pg-bridge-api/internal/logger"
	"pg-bridge-api/internal/mall"
	"pg-bridge-api/internal/merchant"
	mainmodel "pg-bridge-api/internal/model/main"
	"pg-bridge-api/internal/notify"
	"pg-bridge-api/internal/signature"
	"pg-bridge-api/internal/testkit"
)

func TestMain(m *testing.M) {
	if err := idgen.InitNode("default", 7); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const (
	demoPartnerID = "demo:0:" + gateway.DemoPublicKey
	mallReturnURL = "https://demo.cafe24shop.com/Pay/Recv/openpg/PayReceiveRtn.php"
	mallNotyURL   = "https://demo.cafe24shop.com/Pay/Recv/openpg/PayNotyRtn.php"
)

type recordingNotifier struct {
	mu      sync.Mutex
	targets []string
	notices []notify.Notice
	err     error
}

func (n *recordingNotifier) Notify(_ context.Context, target string, notice notify.Notice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = append(n.targets, target)
	n.notices = append(n.notices, notice)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notices)
}

type harness struct {
	deps     Deps
	pg       *gateway.DemoClient
	notifier *recordingNotifier
	mall     *mall.DemoAPI
	signer   *signature.Engine
}

func newHarness(t *testing.T) *harness {
	db := testkit.NewDB(t)
	h := &harness{
		pg:       gateway.NewDemoClient(),
		notifier: &recordingNotifier{},
		mall:     mall.NewDemoAPI(),
		signer:   signature.NewEngine("test-service-key", "test-client-service", "test-client-id"),
	}
	store := merchant.NewGormStore(dao.NewMerchantDaoWithDB(db))
	h.deps = Deps{
		Ledger:    ledger.New(dao.NewOrderDaoWithDB(db), nil, logger.Discard()),
		Merchants: store,
		Gateway:   h.pg,
		Signer:    h.signer,
		Notifier:  h.notifier,
		Mall:      h.mall,
		AppURL:    "https://bridge.example.com",
		Log:       logger.Discard(),
	}

	pub, sec := gateway.DemoPublicKey, gateway.DemoSecretKey
	require.NoError(t, store.Create(context.Background(), &mainmodel.Merchant{
		MallID:      "demo",
		MallName:    "demo",
		PgConnected: true,
		PublicKey:   &pub,
		SecretKey:   &sec,
		Shops: []mainmodel.Shop{
			{MallID: "demo", ShopIndex: 0, ShopNo: 1, ShopName: "Demo PH", CurrencyCode: "PHP", PgEnabled: true},
			{MallID: "demo", ShopIndex: 1, ShopNo: 2, ShopName: "Demo KR", CurrencyCode: "KRW"},
		},
	}))
	return h
}
