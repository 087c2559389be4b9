package services

import (
	"context"
	"testing"

	"github.com/poslugy/marketplace/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayFromBalance(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: "u1", Balance: decimal.NewFromInt(500)})
	svc := NewBalanceService(users)

	result, err := svc.PayFromBalance(context.Background(), "u1", 300)
	require.NoError(t, err)
	assert.True(t, result.Paid)

	user, _ := users.FindByID(context.Background(), "u1")
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(200)))

	// The remaining 200 does not cover another 300.
	result, err = svc.PayFromBalance(context.Background(), "u1", 300)
	require.NoError(t, err)
	assert.False(t, result.Paid)
	assert.Equal(t, "на балансі недостатньо коштів", result.Reason)

	user, _ = users.FindByID(context.Background(), "u1")
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(200)), "failed debit must not touch the balance")
}

func TestPayFromBalanceExactAmount(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: "u1", Balance: decimal.NewFromInt(300)})
	svc := NewBalanceService(users)

	result, err := svc.PayFromBalance(context.Background(), "u1", 300)
	require.NoError(t, err)
	assert.True(t, result.Paid, "a balance exactly equal to the price must cover it")

	user, _ := users.FindByID(context.Background(), "u1")
	assert.True(t, user.Balance.IsZero())
}

func TestPayFromBalanceNegativePrice(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: "u1", Balance: decimal.NewFromInt(300)})
	svc := NewBalanceService(users)

	result, err := svc.PayFromBalance(context.Background(), "u1", -50)
	require.NoError(t, err)
	assert.False(t, result.Paid)

	user, _ := users.FindByID(context.Background(), "u1")
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(300)))
}

func TestCredit(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: "u1", Balance: decimal.NewFromInt(100)})
	svc := NewBalanceService(users)

	require.NoError(t, svc.Credit(context.Background(), "u1", decimal.NewFromInt(250)))

	user, _ := users.FindByID(context.Background(), "u1")
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(350)))
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: "u1", Balance: decimal.NewFromInt(100)})
	svc := NewBalanceService(users)

	assert.Error(t, svc.Credit(context.Background(), "u1", decimal.Zero))
	assert.Error(t, svc.Credit(context.Background(), "u1", decimal.NewFromInt(-10)))

	user, _ := users.FindByID(context.Background(), "u1")
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(100)))
}
