package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/config"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/gateway"
	apphttp "github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/http"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/locker"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/mailer"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/payments"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/receipts"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	locks := locker.NewRedisLocker(rdb)
	locks.SetLogger(logger)

	gw := gateway.NewClient(cfg.Gateway.Secret, cfg.Gateway.PayURL)

	settle := payments.NewSettlementService(db, gw, locks, cfg.SettleLockTTL)
	settle.SetLogger(logger)
	settle.SetReceipts(receipts.NewService(
		mailer.NewSMTPMailer(cfg.SMTP),
		cfg.SMTP.From,
		cfg.SMTP.FromName,
	))

	r := apphttp.NewRouter(logger, settle, cfg.Gateway.ResultURL)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("http server stopped: %v", err)
	}
}
