package cart

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrCouponNotFound       = errors.New("coupon not found")
	ErrCouponNotApplicable  = errors.New("coupon not applicable")
	ErrCouponAlreadyApplied = errors.New("coupon already applied")
)

const (
	DiscountFixed      = "fixed"
	DiscountPercentage = "percentage"
)

type Coupon struct {
	Code          string
	Description   string
	DiscountType  string
	DiscountValue int64 // копейки для fixed, проценты для percentage
	MinOrderValue int64
	ValidFrom     time.Time // нулевое время = без ограничения
	ValidUntil    time.Time
	Categories    []string // пусто = любые категории
	MaxUses       int      // 0 = без лимита
	usageCount    int
	Inactive      bool
}

func (c *Coupon) validate(cart *Cart) error {
	now := time.Now()

	if c.Inactive {
		return ErrCouponNotApplicable
	}
	if !c.ValidFrom.IsZero() && now.Before(c.ValidFrom) {
		return ErrCouponNotApplicable
	}
	if !c.ValidUntil.IsZero() && now.After(c.ValidUntil) {
		return ErrCouponNotApplicable
	}
	if c.MaxUses > 0 && c.usageCount >= c.MaxUses {
		return ErrCouponNotApplicable
	}
	if cart.Subtotal() < c.MinOrderValue {
		return ErrCouponNotApplicable
	}
	if len(c.Categories) > 0 && !cart.hasCategory(c.Categories) {
		return ErrCouponNotApplicable
	}
	return nil
}

func (c *Coupon) discount(cart *Cart) int64 {
	if err := c.validate(cart); err != nil {
		return 0
	}
	subtotal := cart.Subtotal()
	switch c.DiscountType {
	case DiscountFixed:
		if c.DiscountValue > subtotal {
			return subtotal
		}
		return c.DiscountValue
	case DiscountPercentage:
		return subtotal * c.DiscountValue / 100
	default:
		return 0
	}
}

func (c *Coupon) IncrementUsage() {
	c.usageCount++
}

// CouponBook - реестр действующих купонов
type CouponBook struct {
	mu      sync.RWMutex
	coupons map[string]*Coupon
}

func NewCouponBook() *CouponBook {
	return &CouponBook{coupons: make(map[string]*Coupon)}
}

func (b *CouponBook) Add(coupon *Coupon) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.coupons[coupon.Code] = coupon
}

func (b *CouponBook) Get(code string) (*Coupon, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	coupon, ok := b.coupons[code]
	if !ok {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}
