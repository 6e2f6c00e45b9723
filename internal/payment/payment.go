package payment

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/theplant/luhn"

	"github.com/iurnickita/checkout/internal/payment/config"
)

// Обязательные поля платежных данных
const (
	FieldMethod     = "method"
	FieldCardNumber = "card_number"
	FieldCVV        = "cvv"
)

const MethodCard = "card"

type Details map[string]string

var (
	ErrInvalidDetails = errors.New("invalid payment details")
	ErrDeclined       = errors.New("payment declined")
	ErrRefundFailed   = errors.New("refund failed")
)

// Processor - внешний платежный шлюз. Charge возвращает ссылку на платеж
// или ошибку; Refund выполняется по ссылке и может сам завершиться ошибкой
type Processor interface {
	Charge(ctx context.Context, customer string, amount int64, details Details) (string, error)
	Refund(ctx context.Context, ref string, amount int64) error
}

// Simulator имитирует платежный шлюз: исход определяет Decide.
// По умолчанию - генератор с зерном из конфигурации, в тестах
// подменяется детерминированной функцией
type Simulator struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	rate   float64
	Decide func() bool
}

func NewSimulator(cfg config.Config) *Simulator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rate := cfg.SuccessRate
	if rate <= 0 || rate > 1 {
		rate = 0.97
	}

	s := &Simulator{
		rnd:  rand.New(rand.NewSource(seed)),
		rate: rate,
	}
	s.Decide = s.roll

	return s
}

func (s *Simulator) roll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64() < s.rate
}

func (s *Simulator) Charge(ctx context.Context, customer string, amount int64, details Details) (string, error) {
	if err := ValidateDetails(details); err != nil {
		return "", err
	}
	if amount <= 0 {
		return "", ErrInvalidDetails
	}

	if !s.Decide() {
		return "", ErrDeclined
	}

	return "PAY-" + uuid.NewString(), nil
}

func (s *Simulator) Refund(ctx context.Context, ref string, amount int64) error {
	if ref == "" {
		return ErrRefundFailed
	}
	if !s.Decide() {
		return ErrRefundFailed
	}
	return nil
}

// ValidateDetails проверяет форму платежных данных: обязательные поля
// и контрольную цифру номера карты
func ValidateDetails(details Details) error {
	for _, field := range []string{FieldMethod, FieldCardNumber, FieldCVV} {
		if details[field] == "" {
			return ErrInvalidDetails
		}
	}

	if details[FieldMethod] == MethodCard {
		number, err := strconv.Atoi(details[FieldCardNumber])
		if err != nil || !luhn.Valid(number) {
			return ErrInvalidDetails
		}
	}

	return nil
}
