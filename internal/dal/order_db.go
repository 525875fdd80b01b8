package dal

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"pg-bridge-api/internal/config"
)

// OrderDB holds the ledger (pg_order) and the sharded event log.
var OrderDB *gorm.DB

func InitOrderDB() {
	c := config.C.MysqlOrder
	db, err := gorm.Open(mysql.Open(dsn(c)), &gorm.Config{})
	if err != nil {
		log.Fatalf("connect order db failed: %v", err)
	}
	pool(db, c)
	OrderDB = db
}
