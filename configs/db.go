package configs

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

func ConnectionDB(source string) {
	database, err := gorm.Open(sqlite.Open(source), &gorm.Config{TranslateError: true})
	if err != nil {
		panic("failed to connect database")
	}
	db = database
}

func SetupDatabase() {
	db.AutoMigrate(
		&entity.Business{},
		&entity.OrderSession{},
		&entity.Order{}, &entity.OrderItem{},
		&entity.InboundMessage{},
	)
}
