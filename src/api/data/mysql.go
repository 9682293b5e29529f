package data

import (
	"log"

	"github.com/stake-plus/polkadot-gov-forum/src/api/types"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func MustMySQL(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	return db
}

var allModels = []interface{}{
	&types.Network{}, &types.User{},
	&types.EditorialPost{}, &types.PostTag{},
	&types.SpamReport{}, &types.Reaction{},
	&types.Comment{}, &types.Subscription{},
	&types.Setting{},
}

func Migrate(db *gorm.DB) {
	if err := db.AutoMigrate(allModels...); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}
