package inventory

import (
	"sync"
	"testing"

	"github.com/iurnickita/checkout/internal/model"
	"github.com/stretchr/testify/require"
)

func newTestLedger(stock int) *Ledger {
	ledger := NewLedger()
	ledger.AddProduct(model.Product{
		ID:       "laptop",
		Name:     "Laptop",
		Price:    5000000,
		Stock:    stock,
		Category: "Electronics",
	})
	return ledger
}

func TestReserveRelease(t *testing.T) {
	ledger := newTestLedger(5)

	// резерв в пределах остатка
	err := ledger.Reserve("laptop", 3)
	require.NoError(t, err)

	info, ok := ledger.ProductInfo("laptop")
	require.True(t, ok)
	require.Equal(t, 2, info.Available)

	// резерв сверх остатка не меняет состояние
	err = ledger.Reserve("laptop", 3)
	require.ErrorIs(t, err, ErrOutOfStock)

	info, _ = ledger.ProductInfo("laptop")
	require.Equal(t, 2, info.Available)

	// возврат
	ledger.Release("laptop", 3)
	info, _ = ledger.ProductInfo("laptop")
	require.Equal(t, 5, info.Available)
}

func TestReserveInvalidQuantity(t *testing.T) {
	ledger := newTestLedger(5)

	require.ErrorIs(t, ledger.Reserve("laptop", 0), ErrInvalidQuantity)
	require.ErrorIs(t, ledger.Reserve("laptop", -1), ErrInvalidQuantity)

	info, _ := ledger.ProductInfo("laptop")
	require.Equal(t, 5, info.Available)
}

func TestReserveUnknownProduct(t *testing.T) {
	ledger := NewLedger()

	require.ErrorIs(t, ledger.Reserve("ghost", 1), ErrOutOfStock)
	require.False(t, ledger.IsInStock("ghost", 1))

	// возврат по несуществующему товару - no-op
	ledger.Release("ghost", 1)
}

// Нет перепродажи: из N конкурентных резервов успешны ровно столько,
// сколько позволяет начальный остаток
func TestConcurrentReserveNoOversell(t *testing.T) {
	const (
		stock   = 7
		workers = 50
	)

	ledger := newTestLedger(stock)

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- ledger.Reserve("laptop", 1)
		}()
	}
	wg.Wait()
	close(results)

	var succeeded int
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrOutOfStock)
		}
	}

	require.Equal(t, stock, succeeded)
	info, _ := ledger.ProductInfo("laptop")
	require.Equal(t, 0, info.Available)
}

// Сохранение количества: после равного числа резервов и возвратов
// остаток совпадает с начальным
func TestConcurrentReserveReleaseConservation(t *testing.T) {
	const (
		stock  = 100
		rounds = 200
	)

	ledger := newTestLedger(stock)

	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ledger.Reserve("laptop", 2); err == nil {
				ledger.Release("laptop", 2)
			}
		}()
	}
	wg.Wait()

	info, _ := ledger.ProductInfo("laptop")
	require.Equal(t, stock, info.Available)
}

func TestStatusAndLowStock(t *testing.T) {
	ledger := newTestLedger(5)
	ledger.AddProduct(model.Product{ID: "book", Name: "Book", Price: 50000, Stock: 2, Category: "Books"})
	ledger.AddProduct(model.Product{ID: "pen", Name: "Pen", Price: 1000, Stock: 0, Category: "Stationery"})

	status := ledger.Status()
	require.Len(t, status, 3)
	// отсортировано по ID
	require.Equal(t, "book", status[0].ID)
	require.Equal(t, "laptop", status[1].ID)
	require.Equal(t, "pen", status[2].ID)

	low := ledger.LowStock(2)
	require.Len(t, low, 2)
	require.Equal(t, "book", low[0].ID)
	require.Equal(t, "pen", low[1].ID)

	ledger.RemoveProduct("pen")
	require.Len(t, ledger.Status(), 2)
}
