package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iurnickita/checkout/internal/cart"
	"github.com/iurnickita/checkout/internal/inventory"
	"github.com/iurnickita/checkout/internal/model"
	"github.com/iurnickita/checkout/internal/payment"
	"github.com/iurnickita/checkout/internal/service/config"
	"github.com/iurnickita/checkout/internal/store"
)

type Service interface {
	SubmitOrder(ctx context.Context, c *cart.Cart, details payment.Details) (model.Order, error)
	CancelOrder(ctx context.Context, number string) error
	GetOrder(ctx context.Context, number string) (model.Order, error)
	GetOrders(ctx context.Context, customer string) ([]model.Order, error)
	AddProduct(ctx context.Context, p model.Product)
	RemoveProduct(ctx context.Context, id string)
	ProductInfo(ctx context.Context, id string) (model.ProductInfo, bool)
	InventoryStatus(ctx context.Context) []model.ProductInfo
	LowStock(ctx context.Context, threshold int) []model.ProductInfo
}

var (
	ErrInsufficientData      = errors.New("insufficient data")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrOutOfStock            = errors.New("out of stock")
	ErrPaymentDeclined       = errors.New("payment declined")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderAlreadyCancelled = errors.New("order already cancelled")
)

type service struct {
	cfg       config.Config
	store     store.Store
	ledger    *inventory.Ledger
	processor payment.Processor
	zaplog    *zap.Logger
}

func NewService(cfg config.Config, store store.Store, ledger *inventory.Ledger, processor payment.Processor, zaplog *zap.Logger) Service {
	return &service{
		cfg:       cfg,
		store:     store,
		ledger:    ledger,
		processor: processor,
		zaplog:    zaplog,
	}
}

// SubmitOrder проводит покупку: резерв всех строк, оплата, запись заказа.
// При любой ошибке уже сделанные резервы возвращаются на склад до выхода,
// вызывающей стороне ничего подчищать не нужно
func (service *service) SubmitOrder(ctx context.Context, c *cart.Cart, details payment.Details) (model.Order, error) {
	if c == nil || c.Customer == "" {
		return model.Order{}, ErrInsufficientData
	}
	if c.IsEmpty() {
		return model.Order{}, ErrEmptyCart
	}

	lines := c.Lines()
	for _, line := range lines {
		if line.Quantity <= 0 {
			return model.Order{}, ErrInsufficientData
		}
	}

	// Резерв в порядке возрастания ID товара: общий порядок захвата
	// исключает взаимную блокировку двух параллельных покупок
	sorted := make([]cart.Line, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	var reserved []cart.Line
	for _, line := range sorted {
		if err := service.ledger.Reserve(line.ProductID, line.Quantity); err != nil {
			service.releaseReserved(reserved)
			service.zaplog.Info("order rejected: out of stock",
				zap.String("customer", c.Customer),
				zap.String("product", line.ProductID))
			return model.Order{}, ErrOutOfStock
		}
		reserved = append(reserved, line)
	}

	// Оплата. Блокировки склада к этому моменту отпущены:
	// медленный шлюз не задерживает чужие заказы
	ref, err := service.processor.Charge(ctx, c.Customer, c.Total(), details)
	if err != nil {
		service.releaseReserved(reserved)
		service.zaplog.Info("order rejected: payment declined",
			zap.String("customer", c.Customer),
			zap.Error(err))
		return model.Order{}, ErrPaymentDeclined
	}

	// Точка фиксации: после записи заказа резервы принадлежат заказу
	// и по отдельности больше не возвращаются
	order := model.Order{
		Number:     uuid.NewString(),
		Customer:   c.Customer,
		Lines:      orderLines(lines),
		Coupons:    c.CouponCodes(),
		Subtotal:   c.Subtotal(),
		Total:      c.Total(),
		PaymentRef: ref,
		Status:     model.OrderStatusPlaced,
		CreatedAt:  time.Now().UTC(),
	}
	if err := service.store.OrderPut(ctx, order); err != nil {
		return model.Order{}, err
	}

	service.zaplog.Info("order placed",
		zap.String("order", order.Number),
		zap.String("customer", order.Customer),
		zap.Int64("total", order.Total))

	return order, nil
}

// возврат резервов в обратном порядке захвата
func (service *service) releaseReserved(reserved []cart.Line) {
	for i := len(reserved) - 1; i >= 0; i-- {
		service.ledger.Release(reserved[i].ProductID, reserved[i].Quantity)
	}
}

// CancelOrder отменяет заказ: перевод статуса, безусловный возврат
// остатков, затем возврат платежа. Ошибка возврата платежа только
// логируется - отмену и возврат остатков она не откатывает
func (service *service) CancelOrder(ctx context.Context, number string) error {
	order, err := service.store.OrderCancel(ctx, number)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrOrderNotFound):
			return ErrOrderNotFound
		case errors.Is(err, store.ErrOrderAlreadyCancelled):
			return ErrOrderAlreadyCancelled
		default:
			return err
		}
	}

	for _, line := range order.Lines {
		service.ledger.Release(line.ProductID, line.Quantity)
	}

	if order.PaymentRef != "" {
		if err := service.processor.Refund(ctx, order.PaymentRef, order.Total); err != nil {
			service.zaplog.Warn("refund failed",
				zap.String("order", order.Number),
				zap.String("payment_ref", order.PaymentRef),
				zap.Error(err))
		}
	}

	service.zaplog.Info("order cancelled", zap.String("order", order.Number))

	return nil
}

func (service *service) GetOrder(ctx context.Context, number string) (model.Order, error) {
	order, err := service.store.OrderGet(ctx, number)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			return model.Order{}, ErrOrderNotFound
		}
		return model.Order{}, err
	}
	return order, nil
}

func (service *service) GetOrders(ctx context.Context, customer string) ([]model.Order, error) {
	if customer == "" {
		return nil, ErrInsufficientData
	}
	return service.store.OrdersForCustomer(ctx, customer)
}

func (service *service) AddProduct(ctx context.Context, p model.Product) {
	service.ledger.AddProduct(p)
}

func (service *service) RemoveProduct(ctx context.Context, id string) {
	service.ledger.RemoveProduct(id)
}

func (service *service) ProductInfo(ctx context.Context, id string) (model.ProductInfo, bool) {
	return service.ledger.ProductInfo(id)
}

func (service *service) InventoryStatus(ctx context.Context) []model.ProductInfo {
	return service.ledger.Status()
}

// LowStock: threshold <= 0 берется из конфигурации
func (service *service) LowStock(ctx context.Context, threshold int) []model.ProductInfo {
	if threshold <= 0 {
		threshold = service.cfg.LowStockThreshold
	}
	return service.ledger.LowStock(threshold)
}

func orderLines(lines []cart.Line) []model.OrderLine {
	out := make([]model.OrderLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, model.OrderLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return out
}
