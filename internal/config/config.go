package config

import (
	"flag"
	"os"
	"strconv"

	handlerConfig "github.com/iurnickita/checkout/internal/handler/config"
	loggerConfig "github.com/iurnickita/checkout/internal/logger/config"
	paymentConfig "github.com/iurnickita/checkout/internal/payment/config"
	serviceConfig "github.com/iurnickita/checkout/internal/service/config"
)

type Config struct {
	Handler handlerConfig.Config
	Service serviceConfig.Config
	Payment paymentConfig.Config
	Logger  loggerConfig.Config
}

func GetConfig() Config {
	cfg := Config{}

	flag.StringVar(&cfg.Handler.ServerAddr, "a", "localhost:8080", "server address")
	flag.StringVar(&cfg.Logger.LogLevel, "l", "info", "log level")
	flag.Float64Var(&cfg.Payment.SuccessRate, "r", 0.97, "payment success rate")
	flag.Int64Var(&cfg.Payment.Seed, "s", 0, "payment simulation seed (0 = random)")
	flag.StringVar(&cfg.Payment.GatewayAddr, "g", "", "external payment gateway address")
	flag.IntVar(&cfg.Service.LowStockThreshold, "t", 3, "low stock threshold")
	flag.Parse()

	// переменные окружения приоритетнее флагов
	if addr := os.Getenv("RUN_ADDRESS"); addr != "" {
		cfg.Handler.ServerAddr = addr
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		cfg.Logger.LogLevel = lvl
	}
	if rate := os.Getenv("PAYMENT_SUCCESS_RATE"); rate != "" {
		if v, err := strconv.ParseFloat(rate, 64); err == nil {
			cfg.Payment.SuccessRate = v
		}
	}
	if addr := os.Getenv("PAYMENT_GATEWAY_ADDRESS"); addr != "" {
		cfg.Payment.GatewayAddr = addr
	}
	if threshold := os.Getenv("LOW_STOCK_THRESHOLD"); threshold != "" {
		if v, err := strconv.Atoi(threshold); err == nil {
			cfg.Service.LowStockThreshold = v
		}
	}

	return cfg
}
