package model

import "time"

// Каталог

type Product struct {
	ID       string
	Name     string
	Price    int64 // копейки/центы
	Stock    int
	Category string
}

// ProductInfo - проекция товара только для чтения:
// отчеты и денормализация строк заказа
type ProductInfo struct {
	ID        string
	Name      string
	Price     int64
	Available int
	Category  string
}

// Заказы

type Order struct {
	Number     string
	Customer   string
	Lines      []OrderLine
	Coupons    []string
	Subtotal   int64
	Total      int64
	PaymentRef string
	Status     string
	CreatedAt  time.Time
}

type OrderLine struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice int64
}

const (
	OrderStatusPlaced    = "PLACED"
	OrderStatusCancelled = "CANCELLED"
)
