package store

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/iurnickita/checkout/internal/model"
)

type Store interface {
	AuthRegister(ctx context.Context, login string, password string) (string, error)
	AuthLogin(ctx context.Context, login string, password string) (string, error)
	OrderPut(ctx context.Context, order model.Order) error
	OrderGet(ctx context.Context, number string) (model.Order, error)
	OrdersForCustomer(ctx context.Context, customer string) ([]model.Order, error)
	OrderCancel(ctx context.Context, number string) (model.Order, error)
}

var (
	ErrNoRows                = errors.New("no rows")
	ErrAlreadyExists         = errors.New("already exists")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderAlreadyCancelled = errors.New("order already cancelled")
)

// Хранилище в памяти. Состояние процесса - единственный источник истины,
// долговечность между перезапусками не требуется
type store struct {
	mu       sync.RWMutex
	users    map[string]user
	nextUser int
	orders   map[string]*model.Order
	orderLog []string // порядок создания заказов
}

type user struct {
	uuid     string
	password string
}

func NewStore() Store {
	return &store{
		users:  make(map[string]user),
		orders: make(map[string]*model.Order),
	}
}

func (store *store) AuthRegister(ctx context.Context, login string, password string) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	// проверка: уже существует
	if _, ok := store.users[login]; ok {
		return "", ErrAlreadyExists
	}

	store.nextUser++
	u := user{
		uuid:     strconv.Itoa(store.nextUser),
		password: password,
	}
	store.users[login] = u

	return u.uuid, nil
}

func (store *store) AuthLogin(ctx context.Context, login string, password string) (string, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	u, ok := store.users[login]
	if !ok {
		return "", ErrNoRows
	}
	if u.password != password {
		return "", ErrNoRows
	}

	return u.uuid, nil
}

// OrderPut записывает новый заказ. Журнал заказов только пополняется:
// отмена меняет статус, записи не удаляются
func (store *store) OrderPut(ctx context.Context, order model.Order) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.orders[order.Number]; ok {
		return ErrAlreadyExists
	}

	store.orders[order.Number] = &order
	store.orderLog = append(store.orderLog, order.Number)

	return nil
}

func (store *store) OrderGet(ctx context.Context, number string) (model.Order, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	order, ok := store.orders[number]
	if !ok {
		return model.Order{}, ErrOrderNotFound
	}

	return *order, nil
}

func (store *store) OrdersForCustomer(ctx context.Context, customer string) ([]model.Order, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	var orders []model.Order
	for _, number := range store.orderLog {
		order := store.orders[number]
		if order.Customer == customer {
			orders = append(orders, *order)
		}
	}

	return orders, nil
}

// OrderCancel атомарно переводит заказ PLACED -> CANCELLED.
// Повторная отмена возвращает ErrOrderAlreadyCancelled: проверка и переход
// выполняются под одной блокировкой, двойной отмены не бывает
func (store *store) OrderCancel(ctx context.Context, number string) (model.Order, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	order, ok := store.orders[number]
	if !ok {
		return model.Order{}, ErrOrderNotFound
	}
	if order.Status == model.OrderStatusCancelled {
		return model.Order{}, ErrOrderAlreadyCancelled
	}

	order.Status = model.OrderStatusCancelled

	return *order, nil
}
