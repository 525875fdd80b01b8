package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"pg-bridge-api/internal/config"
	"pg-bridge-api/internal/dal"
	"pg-bridge-api/internal/dao"
	"pg-bridge-api/internal/event"
	"pg-bridge-api/internal/gateway"
	"pg-bridge-api/internal/handler"
	"pg-bridge-api/internal/health"
	"pg-bridge-api/internal/idgen"
	"pg-bridge-api/internal/ledger"
	"pg-bridge-api/internal/logger"
	"pg-bridge-api/internal/mall"
	"pg-bridge-api/internal/merchant"
	mainmodel "pg-bridge-api/internal/model/main"
	ordermodel "pg-bridge-api/internal/model/order"
	"pg-bridge-api/internal/mq"
	"pg-bridge-api/internal/notify"
	"pg-bridge-api/internal/rediskey"
	"pg-bridge-api/internal/router"
	"pg-bridge-api/internal/service"
	"pg-bridge-api/internal/shard"
	"pg-bridge-api/internal/signature"
)

func main() {
	// load config env
	config.Init()
	cfg := config.C
	logger.Init(cfg.Log.Dir, cfg.Log.Level)
	rediskey.SetPrefix(cfg.App.Name)

	// init infra
	dal.InitMainDB()
	dal.InitOrderDB()
	dal.InitRedis()
	dal.InitRabbitMQ()
	defer dal.CloseRabbitMQ()
	shard.InitShardEngines(cfg.Order.EventLogShards)

	if err := dal.MainDB.AutoMigrate(&mainmodel.Merchant{}, &mainmodel.Shop{}); err != nil {
		log.Fatalf("migrate main db failed: %v", err)
	}
	if err := dal.OrderDB.AutoMigrate(&ordermodel.Order{}); err != nil {
		log.Fatalf("migrate order db failed: %v", err)
	}

	// idgen
	idgen.Init(cfg.Order.SnowflakeNode)
	go idgen.CheckSystemClock()

	// order.status events: ledger -> rabbitmq -> sharded event log
	var pub event.Publisher = event.NopPublisher{}
	if dal.RabbitCh != nil {
		pub = mq.NewDefaultPublisher(cfg.RabbitMQ.Exchange)
	}
	go mq.StartConsumers(logger.NewEventLogWriter(dal.OrderDB, shard.OrderEventShard))

	appLog := logger.NewLogger("app")
	signer := signature.NewEngineFromConfig(cfg.Security)

	var pg gateway.Client
	var mallAPI mall.API
	if cfg.Upstream.Mode == "demo" {
		log.Println("[BOOT] upstream mode demo: in-memory PG and Mall")
		pg = gateway.NewDemoClient()
		mallAPI = mall.NewDemoAPI()
	} else {
		pg = gateway.NewHTTPClient(cfg.Upstream, logger.NewLogger("upstream"))
		mallAPI = mall.NewClient(cfg.Mall, cfg.Security.ClientID, mall.NewRedisTokenStore(dal.RedisClient), logger.NewLogger("mall"))
	}

	deps := service.Deps{
		Ledger: ledger.New(dao.NewOrderDao(), pub, logger.NewLogger("ledger")),
		Merchants: merchant.NewCachedStore(
			merchant.NewGormStore(dao.NewMerchantDao()),
			dal.RedisClient,
			time.Duration(cfg.Redis.CacheTTLSec)*time.Second,
			appLog,
		),
		Gateway:  pg,
		Signer:   signer,
		Notifier: notify.NewDispatcher(signer, cfg.Notify, notify.NewTelegramAlerter(cfg.Notify, appLog), logger.NewLogger("notify")).
			WithHealth(health.NewTracker(
				health.NewRedisStore(dal.RedisClient),
				health.StrategyByName(cfg.Notify.HealthStrategy),
				cfg.Notify.HealthThreshold,
				time.Duration(cfg.Notify.HealthTTLSec)*time.Second,
			)),
		Mall:     mallAPI,
		AppURL:   cfg.App.BaseURL,
		Log:      appLog,
	}

	// http server
	if cfg.Server.Mode != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := router.New(router.Handlers{
		Checkout: handler.NewCheckoutHandler(service.NewSyncCheckoutService(deps), service.NewAsyncCheckoutService(deps)),
		External: handler.NewExternalCheckoutHandler(service.NewExternalCheckoutService(deps)),
		Refund:   handler.NewRefundHandler(service.NewSyncRefundService(deps), service.NewAsyncRefundService(deps)),
		Admin:    handler.NewAdminHandler(service.NewAdminService(deps)),
	}, router.Options{
		AdminSecret:    cfg.Security.HMACSecret,
		AdminWindow:    time.Duration(cfg.Security.AdminWindowSec) * time.Second,
		TrustedProxies: []string{"127.0.0.1", "192.168.0.0/16"},
		AccessLog:      logger.NewLogger("info"),
		ErrorLog:       logger.NewLogger("error"),
		AuditLog:       logger.NewLogger("audit"),
	})

	addr := ":" + cfg.Server.Port
	log.Printf("listening %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
