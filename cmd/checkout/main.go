package main

import (
	"log"

	"github.com/iurnickita/checkout/internal/auth"
	"github.com/iurnickita/checkout/internal/cart"
	"github.com/iurnickita/checkout/internal/config"
	"github.com/iurnickita/checkout/internal/handler"
	"github.com/iurnickita/checkout/internal/inventory"
	"github.com/iurnickita/checkout/internal/logger"
	"github.com/iurnickita/checkout/internal/payment"
	"github.com/iurnickita/checkout/internal/payment/gatewayclient"
	"github.com/iurnickita/checkout/internal/service"
	"github.com/iurnickita/checkout/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.GetConfig()

	zaplog, err := logger.NewZapLog(cfg.Logger)
	if err != nil {
		return err
	}

	store := store.NewStore()
	ledger := inventory.NewLedger()

	coupons := cart.NewCouponBook()
	coupons.Add(&cart.Coupon{
		Code:          "EVERY10",
		Description:   "10% off",
		DiscountType:  cart.DiscountPercentage,
		DiscountValue: 10,
	})
	coupons.Add(&cart.Coupon{
		Code:          "BOOK50",
		Description:   "50 off books",
		DiscountType:  cart.DiscountFixed,
		DiscountValue: 5000,
		Categories:    []string{"Books"},
	})

	var processor payment.Processor
	if cfg.Payment.GatewayAddr != "" {
		processor = gatewayclient.New(cfg.Payment.GatewayAddr)
	} else {
		processor = payment.NewSimulator(cfg.Payment)
	}

	auth := auth.NewAuth(store)
	service := service.NewService(cfg.Service, store, ledger, processor, zaplog)

	return handler.Serve(cfg.Handler, auth, service, coupons, zaplog)
}
