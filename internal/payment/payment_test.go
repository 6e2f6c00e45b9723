package payment

import (
	"context"
	"strings"
	"testing"

	"github.com/iurnickita/checkout/internal/payment/config"
	"github.com/stretchr/testify/require"
)

// 4242424242424242 проходит проверку Луна
func validDetails() Details {
	return Details{
		FieldMethod:     MethodCard,
		FieldCardNumber: "4242424242424242",
		FieldCVV:        "123",
	}
}

func TestValidateDetails(t *testing.T) {
	require.NoError(t, ValidateDetails(validDetails()))

	// отсутствует обязательное поле
	for _, field := range []string{FieldMethod, FieldCardNumber, FieldCVV} {
		details := validDetails()
		delete(details, field)
		require.ErrorIs(t, ValidateDetails(details), ErrInvalidDetails)
	}

	// номер карты не проходит проверку Луна
	details := validDetails()
	details[FieldCardNumber] = "4242424242424241"
	require.ErrorIs(t, ValidateDetails(details), ErrInvalidDetails)

	// номер карты не число
	details[FieldCardNumber] = "4242-4242"
	require.ErrorIs(t, ValidateDetails(details), ErrInvalidDetails)

	// для некарточных методов номер не проверяется по Луну
	details = validDetails()
	details[FieldMethod] = "wallet"
	details[FieldCardNumber] = "wallet-account-1"
	require.NoError(t, ValidateDetails(details))
}

func TestChargeSuccess(t *testing.T) {
	sim := NewSimulator(config.Config{})
	sim.Decide = func() bool { return true }

	ref, err := sim.Charge(context.Background(), "100001", 50000, validDetails())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, "PAY-"))
}

func TestChargeDeclined(t *testing.T) {
	sim := NewSimulator(config.Config{})
	sim.Decide = func() bool { return false }

	_, err := sim.Charge(context.Background(), "100001", 50000, validDetails())
	require.ErrorIs(t, err, ErrDeclined)
}

func TestChargeInvalid(t *testing.T) {
	sim := NewSimulator(config.Config{})
	sim.Decide = func() bool { return true }

	// неполные данные отклоняются до обращения к шлюзу
	_, err := sim.Charge(context.Background(), "100001", 50000, Details{FieldMethod: MethodCard})
	require.ErrorIs(t, err, ErrInvalidDetails)

	// нулевая сумма
	_, err = sim.Charge(context.Background(), "100001", 0, validDetails())
	require.ErrorIs(t, err, ErrInvalidDetails)
}

func TestRefund(t *testing.T) {
	sim := NewSimulator(config.Config{})
	sim.Decide = func() bool { return true }

	require.NoError(t, sim.Refund(context.Background(), "PAY-1", 50000))

	// пустая ссылка
	require.ErrorIs(t, sim.Refund(context.Background(), "", 50000), ErrRefundFailed)

	sim.Decide = func() bool { return false }
	require.ErrorIs(t, sim.Refund(context.Background(), "PAY-1", 50000), ErrRefundFailed)
}

// детерминированность при фиксированном зерне
func TestSeededOutcome(t *testing.T) {
	run := func() []bool {
		sim := NewSimulator(config.Config{SuccessRate: 0.5, Seed: 42})
		outcomes := make([]bool, 20)
		for i := range outcomes {
			_, err := sim.Charge(context.Background(), "100001", 100, validDetails())
			outcomes[i] = err == nil
		}
		return outcomes
	}

	require.Equal(t, run(), run())
}
