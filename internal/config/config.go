package config

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerCfg struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type AppCfg struct {
	Name    string `mapstructure:"name"`
	BaseURL string `mapstructure:"baseUrl"`
}

type MysqlCfg struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Database     string `mapstructure:"database"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Charset      string `mapstructure:"charset"`
	MaxIdleConns int    `mapstructure:"maxIdleConns"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
}

type RabbitCfg struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type RedisCfg struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// settings cache ttl
	CacheTTLSec int `mapstructure:"cacheTtlSec"`
}

// SecurityCfg holds the pre-shared secrets. ServiceKey signs Mall-facing messages,
// ClientServiceKey signs status queries, ClientID keys the button-checkout reservation hmac.
type SecurityCfg struct {
	ServiceKey       string `mapstructure:"serviceKey"`
	ClientServiceKey string `mapstructure:"clientServiceKey"`
	ClientID         string `mapstructure:"clientId"`
	HMACSecret       string `mapstructure:"hmacSecret"`
	// admin request timestamp window
	AdminWindowSec int `mapstructure:"adminWindowSec"`
}

type UpstreamCfg struct {
	Mode            string `mapstructure:"mode"` // demo | http
	ApiUrl          string `mapstructure:"apiUrl"`
	TimeoutSec      int    `mapstructure:"timeoutSec"`
	MaxRetries      int    `mapstructure:"maxRetries"`
	RetryIntervalMs int    `mapstructure:"retryIntervalMs"`
}

type MallCfg struct {
	// e.g. https://%s.cafe24api.com/api/v2
	ApiUrlPattern string `mapstructure:"apiUrlPattern"`
	ApiVersion    string `mapstructure:"apiVersion"`
	TimeoutSec    int    `mapstructure:"timeoutSec"`
}

type NotifyCfg struct {
	TimeoutSec      int    `mapstructure:"timeoutSec"`
	MaxRetries      int    `mapstructure:"maxRetries"`
	RetryIntervalMs int    `mapstructure:"retryIntervalMs"`
	TelegramChatID  string `mapstructure:"telegramChatId"`
	AlertTimeZone   string `mapstructure:"alertTimeZone"`
	// per-host delivery health: ewma | decay | sliding
	HealthStrategy  string  `mapstructure:"healthStrategy"`
	HealthThreshold float64 `mapstructure:"healthThreshold"`
	HealthTTLSec    int     `mapstructure:"healthTtlSec"`
}

type OrderCfg struct {
	EventLogShards int   `mapstructure:"eventLogShards"`
	SnowflakeNode  int64 `mapstructure:"snowflakeNode"`
}

type LogCfg struct {
	Dir   string `mapstructure:"dir"`
	Level string `mapstructure:"level"`
}

type Root struct {
	Server     ServerCfg   `mapstructure:"server"`
	App        AppCfg      `mapstructure:"app"`
	MysqlMain  MysqlCfg    `mapstructure:"mysql_main"`
	MysqlOrder MysqlCfg    `mapstructure:"mysql_order"`
	RabbitMQ   RabbitCfg   `mapstructure:"rabbitmq"`
	Redis      RedisCfg    `mapstructure:"redis"`
	Security   SecurityCfg `mapstructure:"security"`
	Upstream   UpstreamCfg `mapstructure:"upstream"`
	Mall       MallCfg     `mapstructure:"mall"`
	Notify     NotifyCfg   `mapstructure:"notify"`
	Order      OrderCfg    `mapstructure:"order"`
	Log        LogCfg      `mapstructure:"log"`
}

var C Root

// env vars carried over from the .env file of the deployment
var envBindings = map[string]string{
	"security.serviceKey":       "APP_SERVICE_KEY",
	"security.clientServiceKey": "APP_CLIENT_SERVICE",
	"security.clientId":         "APP_CLIENT_ID",
	"security.hmacSecret":       "ADMIN_HMAC_SECRET",
	"app.baseUrl":               "APP_URL",
	"mall.apiVersion":           "CAFE24_API_VERSION",
}

func Init() {
	env := flag.String("env", "dev", "config env: dev|prod")
	flag.Parse()

	root, err := Load("config/config." + *env + ".yaml")
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	C = *root
}

// Load reads one yaml file, overlays the environment and applies defaults.
func Load(path string) (*Root, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file failed: %w", err)
	}
	for key, envName := range envBindings {
		if err := v.BindEnv(key, envName); err != nil {
			return nil, fmt.Errorf("bind env %s failed: %w", envName, err)
		}
	}

	var root Root
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	applyDefaults(&root)
	return &root, nil
}

func applyDefaults(r *Root) {
	if strings.TrimSpace(r.Server.Port) == "" {
		r.Server.Port = "8080"
	}
	if r.App.Name == "" {
		r.App.Name = "pg-bridge"
	}
	r.App.BaseURL = strings.TrimRight(r.App.BaseURL, "/")
	if r.RabbitMQ.Exchange == "" {
		r.RabbitMQ.Exchange = "order_events"
	}
	if r.Redis.CacheTTLSec <= 0 {
		r.Redis.CacheTTLSec = 300
	}
	if r.Upstream.Mode == "" {
		r.Upstream.Mode = "demo"
	}
	if r.Upstream.TimeoutSec <= 0 {
		r.Upstream.TimeoutSec = 10
	}
	if r.Upstream.MaxRetries <= 0 {
		r.Upstream.MaxRetries = 1
	}
	if r.Upstream.RetryIntervalMs <= 0 {
		r.Upstream.RetryIntervalMs = 500
	}
	if r.Mall.ApiUrlPattern == "" {
		r.Mall.ApiUrlPattern = "https://%s.cafe24api.com/api/v2"
	}
	if r.Mall.TimeoutSec <= 0 {
		r.Mall.TimeoutSec = 10
	}
	if r.Notify.TimeoutSec <= 0 {
		r.Notify.TimeoutSec = 8
	}
	if r.Notify.MaxRetries <= 0 {
		r.Notify.MaxRetries = 3
	}
	if r.Notify.RetryIntervalMs <= 0 {
		r.Notify.RetryIntervalMs = 1000
	}
	if r.Notify.AlertTimeZone == "" {
		r.Notify.AlertTimeZone = "Asia/Seoul"
	}
	if r.Notify.HealthThreshold <= 0 {
		r.Notify.HealthThreshold = 60
	}
	if r.Notify.HealthTTLSec <= 0 {
		r.Notify.HealthTTLSec = 600
	}
	if r.Security.AdminWindowSec <= 0 {
		r.Security.AdminWindowSec = 300
	}
	if r.Order.EventLogShards <= 0 {
		r.Order.EventLogShards = 4
	}
	if r.Order.SnowflakeNode <= 0 {
		r.Order.SnowflakeNode = 1
	}
	if r.Log.Dir == "" {
		r.Log.Dir = "./logs"
	}
	if r.Log.Level == "" {
		r.Log.Level = "info"
	}
}
