package cart

import (
	"testing"
	"time"

	"github.com/iurnickita/checkout/internal/model"
	"github.com/stretchr/testify/require"
)

var (
	laptop = model.ProductInfo{ID: "laptop", Name: "Laptop", Price: 5000000, Category: "Electronics"}
	book   = model.ProductInfo{ID: "book", Name: "Book", Price: 50000, Category: "Books"}
)

func TestCartItems(t *testing.T) {
	c := New("100001")
	require.True(t, c.IsEmpty())

	require.NoError(t, c.AddItem(laptop, 1))
	require.NoError(t, c.AddItem(book, 2))
	require.ErrorIs(t, c.AddItem(book, 0), ErrInvalidQuantity)

	// повторное добавление увеличивает количество
	require.NoError(t, c.AddItem(book, 1))

	lines := c.Lines()
	require.Len(t, lines, 2)
	require.Equal(t, "laptop", lines[0].ProductID)
	require.Equal(t, 3, lines[1].Quantity)

	require.Equal(t, int64(5000000+3*50000), c.Subtotal())

	c.UpdateQuantity("book", 1)
	require.Equal(t, int64(5000000+50000), c.Subtotal())

	// ноль удаляет строку
	c.UpdateQuantity("laptop", 0)
	require.Len(t, c.Lines(), 1)

	c.Clear()
	require.True(t, c.IsEmpty())
}

func TestCouponFixed(t *testing.T) {
	c := New("100001")
	require.NoError(t, c.AddItem(book, 2))

	coupon := &Coupon{
		Code:          "BOOK50",
		DiscountType:  DiscountFixed,
		DiscountValue: 50000,
		Categories:    []string{"Books"},
	}
	require.NoError(t, c.ApplyCoupon(coupon))
	require.ErrorIs(t, c.ApplyCoupon(coupon), ErrCouponAlreadyApplied)

	require.Equal(t, int64(100000), c.Subtotal())
	require.Equal(t, int64(50000), c.Discount())
	require.Equal(t, int64(50000), c.Total())
	require.Equal(t, []string{"BOOK50"}, c.CouponCodes())
}

func TestCouponPercentage(t *testing.T) {
	c := New("100001")
	require.NoError(t, c.AddItem(laptop, 1))

	coupon := &Coupon{
		Code:          "EVERY10",
		DiscountType:  DiscountPercentage,
		DiscountValue: 10,
	}
	require.NoError(t, c.ApplyCoupon(coupon))
	require.Equal(t, int64(4500000), c.Total())
}

func TestCouponNotApplicable(t *testing.T) {
	c := New("100001")
	require.NoError(t, c.AddItem(book, 1))

	// не достигнут минимальный чек
	minOrder := &Coupon{Code: "BIG", DiscountType: DiscountFixed, DiscountValue: 10000, MinOrderValue: 100000}
	require.ErrorIs(t, c.ApplyCoupon(minOrder), ErrCouponNotApplicable)

	// просрочен
	expired := &Coupon{Code: "OLD", DiscountType: DiscountFixed, DiscountValue: 10000,
		ValidUntil: time.Now().Add(-time.Hour)}
	require.ErrorIs(t, c.ApplyCoupon(expired), ErrCouponNotApplicable)

	// нет подходящей категории
	wrongCategory := &Coupon{Code: "TECH", DiscountType: DiscountFixed, DiscountValue: 10000,
		Categories: []string{"Electronics"}}
	require.ErrorIs(t, c.ApplyCoupon(wrongCategory), ErrCouponNotApplicable)

	// исчерпан лимит использований
	used := &Coupon{Code: "ONCE", DiscountType: DiscountFixed, DiscountValue: 10000, MaxUses: 1}
	used.IncrementUsage()
	require.ErrorIs(t, c.ApplyCoupon(used), ErrCouponNotApplicable)

	require.Equal(t, c.Subtotal(), c.Total())
}

// скидка не уводит итог в минус
func TestDiscountCap(t *testing.T) {
	c := New("100001")
	require.NoError(t, c.AddItem(book, 1))

	coupon := &Coupon{Code: "MEGA", DiscountType: DiscountFixed, DiscountValue: 99999999}
	require.NoError(t, c.ApplyCoupon(coupon))
	require.Equal(t, int64(0), c.Total())
}

func TestCouponBook(t *testing.T) {
	registry := NewCouponBook()
	registry.Add(&Coupon{Code: "EVERY10", DiscountType: DiscountPercentage, DiscountValue: 10})

	coupon, err := registry.Get("EVERY10")
	require.NoError(t, err)
	require.Equal(t, "EVERY10", coupon.Code)

	_, err = registry.Get("NOPE")
	require.ErrorIs(t, err, ErrCouponNotFound)
}
