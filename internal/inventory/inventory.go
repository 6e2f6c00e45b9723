package inventory

import (
	"errors"
	"sort"
	"sync"

	"github.com/iurnickita/checkout/internal/model"
)

var (
	ErrOutOfStock      = errors.New("out of stock")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// Ledger - учет остатков по товарам. Количество товара меняется только
// через Reserve/Release. Блокировка на уровне товара: проверка и списание
// выполняются атомарно, разные товары не мешают друг другу
type Ledger struct {
	mu    sync.RWMutex // защищает состав карты items
	items map[string]*item
}

type item struct {
	mu        sync.Mutex
	name      string
	price     int64
	category  string
	available int
}

func NewLedger() *Ledger {
	return &Ledger{
		items: make(map[string]*item),
	}
}

// AddProduct добавляет или заменяет товар в каталоге.
// Не входит в транзакционный контур
func (l *Ledger) AddProduct(p model.Product) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items[p.ID] = &item{
		name:      p.Name,
		price:     p.Price,
		category:  p.Category,
		available: p.Stock,
	}
}

func (l *Ledger) RemoveProduct(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.items, id)
}

func (l *Ledger) getItem(id string) (*item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	it, ok := l.items[id]
	return it, ok
}

// IsInStock - снимок на момент вызова. Решение о резервировании
// принимает только Reserve, повторной проверкой под блокировкой
func (l *Ledger) IsInStock(id string, quantity int) bool {
	it, ok := l.getItem(id)
	if !ok {
		return false
	}

	it.mu.Lock()
	defer it.mu.Unlock()
	return it.available >= quantity
}

// Reserve списывает quantity со склада, если остатка хватает.
// Иначе возвращает ErrOutOfStock и остаток не меняется
func (l *Ledger) Reserve(id string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	it, ok := l.getItem(id)
	if !ok {
		return ErrOutOfStock
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	if it.available < quantity {
		return ErrOutOfStock
	}
	it.available -= quantity

	return nil
}

// Release возвращает quantity на склад. Верхней границы нет:
// возвращаемое количество ограничено предыдущим резервом вызывающей стороны
func (l *Ledger) Release(id string, quantity int) {
	if quantity <= 0 {
		return
	}

	it, ok := l.getItem(id)
	if !ok {
		return
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	it.available += quantity
}

// ProductInfo - проекция товара для строк заказа и отчетов
func (l *Ledger) ProductInfo(id string) (model.ProductInfo, bool) {
	it, ok := l.getItem(id)
	if !ok {
		return model.ProductInfo{}, false
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	return model.ProductInfo{
		ID:        id,
		Name:      it.name,
		Price:     it.price,
		Available: it.available,
		Category:  it.category,
	}, true
}

// Status - снимок остатков по всем товарам, отсортированный по ID
func (l *Ledger) Status() []model.ProductInfo {
	l.mu.RLock()
	ids := make([]string, 0, len(l.items))
	for id := range l.items {
		ids = append(ids, id)
	}
	l.mu.RUnlock()

	sort.Strings(ids)

	infos := make([]model.ProductInfo, 0, len(ids))
	for _, id := range ids {
		if info, ok := l.ProductInfo(id); ok {
			infos = append(infos, info)
		}
	}

	return infos
}

// LowStock - товары с остатком не выше порога
func (l *Ledger) LowStock(threshold int) []model.ProductInfo {
	var low []model.ProductInfo
	for _, info := range l.Status() {
		if info.Available <= threshold {
			low = append(low, info)
		}
	}

	return low
}
