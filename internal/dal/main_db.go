package dal

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pg-bridge-api/internal/config"
)

// MainDB holds merchant settings (pg_merchant, pg_merchant_shop).
var MainDB *gorm.DB

func InitMainDB() {
	c := config.C.MysqlMain
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond, // 慢 SQL 阈值
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  config.C.Server.Mode != "release",
		},
	)
	db, err := gorm.Open(mysql.Open(dsn(c)), &gorm.Config{Logger: newLogger})
	if err != nil {
		log.Fatalf("connect main db failed: %v", err)
	}
	pool(db, c)
	MainDB = db
}

func dsn(c config.MysqlCfg) string {
	charset := c.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database, charset)
}

func pool(db *gorm.DB, c config.MysqlCfg) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(2 * time.Hour)
}
