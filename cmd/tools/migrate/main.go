package main

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/config"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/payments"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := payments.AutoMigrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	log.Println("migration complete")
}
