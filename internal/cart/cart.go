package cart

import (
	"errors"

	"github.com/iurnickita/checkout/internal/model"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Cart - корзина одного запроса. Принадлежит одной покупке,
// конкурентного доступа нет
type Cart struct {
	Customer string
	lines    []Line
	coupons  []*Coupon
}

type Line struct {
	ProductID string
	Name      string
	Category  string
	UnitPrice int64
	Quantity  int
}

func New(customer string) *Cart {
	return &Cart{Customer: customer}
}

// AddItem добавляет товар; если товар уже в корзине, увеличивает количество
func (c *Cart) AddItem(p model.ProductInfo, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity += quantity
			return nil
		}
	}

	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		UnitPrice: p.Price,
		Quantity:  quantity,
	})

	return nil
}

func (c *Cart) RemoveItem(productID string) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity меняет количество; ноль и меньше удаляет строку
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Clear() {
	c.lines = nil
	c.coupons = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines возвращает копию строк в порядке добавления
func (c *Cart) Lines() []Line {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *Cart) Subtotal() int64 {
	var subtotal int64
	for _, line := range c.lines {
		subtotal += line.UnitPrice * int64(line.Quantity)
	}
	return subtotal
}

// Discount - суммарная скидка примененных купонов, не больше Subtotal
func (c *Cart) Discount() int64 {
	var discount int64
	for _, coupon := range c.coupons {
		discount += coupon.discount(c)
	}
	if subtotal := c.Subtotal(); discount > subtotal {
		discount = subtotal
	}
	return discount
}

func (c *Cart) Total() int64 {
	return c.Subtotal() - c.Discount()
}

// ApplyCoupon проверяет купон и прикрепляет его к корзине
func (c *Cart) ApplyCoupon(coupon *Coupon) error {
	if err := coupon.validate(c); err != nil {
		return err
	}
	for _, applied := range c.coupons {
		if applied.Code == coupon.Code {
			return ErrCouponAlreadyApplied
		}
	}
	c.coupons = append(c.coupons, coupon)
	return nil
}

// CouponCodes - коды примененных купонов для записи в заказ
func (c *Cart) CouponCodes() []string {
	codes := make([]string, 0, len(c.coupons))
	for _, coupon := range c.coupons {
		codes = append(codes, coupon.Code)
	}
	return codes
}

func (c *Cart) hasCategory(categories []string) bool {
	for _, line := range c.lines {
		for _, category := range categories {
			if line.Category == category {
				return true
			}
		}
	}
	return false
}
