package services

import (
	"context"
	"testing"

	"github.com/poslugy/marketplace/app/models"
	"github.com/poslugy/marketplace/app/utils/sessions"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderServiceFixture(t *testing.T, customerBalance int64) (*OrderService, *fakeOrderRepo, *fakeActionRepo, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo(
		&models.User{ID: "customer", Balance: decimal.NewFromInt(customerBalance)},
		&models.User{ID: "provider", Balance: decimal.Zero},
	)
	orders := newFakeOrderRepo()
	actions := &fakeActionRepo{}
	svc := NewOrderService(orders, actions, NewBalanceService(users))
	return svc, orders, actions, users
}

func testService() *models.Service {
	return &models.Service{
		ID:         "svc-1",
		ProviderID: "provider",
		Title:      "Прибирання квартири",
		Price:      400,
		IsActive:   true,
	}
}

func TestCreateForServiceDebitsAndSnapshotsPrice(t *testing.T) {
	svc, orders, actions, users := newOrderServiceFixture(t, 1000)
	service := testService()

	order, payment, err := svc.CreateForService(context.Background(), "customer", service, "коментар")
	require.NoError(t, err)
	require.True(t, payment.Paid)
	require.NotNil(t, order)

	assert.Equal(t, models.OrderStatusCreated, order.Status)
	assert.Equal(t, 400, order.Price)
	assert.Equal(t, "customer", order.CustomerID)
	assert.Equal(t, "provider", order.ProviderID)
	assert.Equal(t, service.Ref(), order.Item)

	customer, _ := users.FindByID(context.Background(), "customer")
	assert.True(t, customer.Balance.Equal(decimal.NewFromInt(600)), "balance should drop by the price, got %s", customer.Balance)

	// The price stays snapshotted even if the listing changes later.
	service.Price = 9999
	stored, _ := orders.GetByID(context.Background(), order.ID)
	assert.Equal(t, 400, stored.Price)

	assert.Contains(t, actions.verbs(), models.ActionPlaceOrder)
	assert.Contains(t, actions.verbs(), models.ActionReceiveOrder)
}

func TestCreateForServiceInsufficientFunds(t *testing.T) {
	svc, orders, actions, users := newOrderServiceFixture(t, 100)

	order, payment, err := svc.CreateForService(context.Background(), "customer", testService(), "")
	require.NoError(t, err)

	assert.False(t, payment.Paid)
	assert.Equal(t, "на балансі недостатньо коштів", payment.Reason)
	assert.Nil(t, order)
	assert.Empty(t, orders.orders, "rejected payment must not create an order")
	assert.Empty(t, actions.actions, "rejected payment must not log actions")

	customer, _ := users.FindByID(context.Background(), "customer")
	assert.True(t, customer.Balance.Equal(decimal.NewFromInt(100)), "balance must stay untouched")
}

func TestSetStatusHappyPath(t *testing.T) {
	svc, orders, actions, _ := newOrderServiceFixture(t, 1000)
	order := &models.Order{ID: "order-1", CustomerID: "customer", ProviderID: "provider", Status: models.OrderStatusCreated}
	require.NoError(t, orders.Create(context.Background(), order))

	steps := []struct {
		actor string
		to    models.OrderStatus
	}{
		{"provider", models.OrderStatusInProgress},
		{"provider", models.OrderStatusSubmittedByProvider},
		{"customer", models.OrderStatusReturnedByCustomer},
		{"provider", models.OrderStatusSubmittedByProvider},
		{"customer", models.OrderStatusAcceptedByCustomer},
		{"customer", models.OrderStatusPaid},
		{"provider", models.OrderStatusCompleted},
	}
	for _, step := range steps {
		result, err := svc.SetStatus(context.Background(), "order-1", step.to, step.actor)
		require.NoError(t, err)
		require.True(t, result.Applied, "transition to %s by %s should apply: %s", step.to, step.actor, result.Reason)
	}

	final, _ := orders.GetByID(context.Background(), "order-1")
	assert.Equal(t, models.OrderStatusCompleted, final.Status)
	assert.True(t, final.IsCompleted)
	assert.True(t, final.IsPaid)
	assert.False(t, final.IsCancelled)

	assert.Equal(t, []string{
		models.ActionAcceptOrder,
		models.ActionSubmitOrder,
		models.ActionReturnOrder,
		models.ActionSubmitOrder,
		models.ActionReceiveResult,
		models.ActionPayOrder,
		models.ActionCompleteOrder,
	}, actions.verbs())
}

func TestSetStatusIllegalTransitionIsRejectedNotError(t *testing.T) {
	svc, orders, _, _ := newOrderServiceFixture(t, 1000)
	order := &models.Order{ID: "order-1", CustomerID: "customer", ProviderID: "provider", Status: models.OrderStatusCreated}
	require.NoError(t, orders.Create(context.Background(), order))

	// Customer tries the provider's move.
	result, err := svc.SetStatus(context.Background(), "order-1", models.OrderStatusInProgress, "customer")
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.NotEmpty(t, result.Reason)

	// Status skipping.
	result, err = svc.SetStatus(context.Background(), "order-1", models.OrderStatusCompleted, "provider")
	require.NoError(t, err)
	assert.False(t, result.Applied)

	stored, _ := orders.GetByID(context.Background(), "order-1")
	assert.Equal(t, models.OrderStatusCreated, stored.Status, "rejected transitions must not move the order")
}

func TestSetStatusOutsiderAndMissingOrder(t *testing.T) {
	svc, orders, _, _ := newOrderServiceFixture(t, 1000)
	order := &models.Order{ID: "order-1", CustomerID: "customer", ProviderID: "provider", Status: models.OrderStatusCreated}
	require.NoError(t, orders.Create(context.Background(), order))

	_, err := svc.SetStatus(context.Background(), "order-1", models.OrderStatusCancelledByCustomer, "stranger")
	assert.ErrorIs(t, err, ErrNotOrderActor)

	_, err = svc.SetStatus(context.Background(), "missing", models.OrderStatusCancelledByCustomer, "customer")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSetStatusLostGuardReadsAsRejection(t *testing.T) {
	svc, orders, _, _ := newOrderServiceFixture(t, 1000)
	order := &models.Order{ID: "order-1", CustomerID: "customer", ProviderID: "provider", Status: models.OrderStatusCreated}
	require.NoError(t, orders.Create(context.Background(), order))

	// A concurrent actor moves the order between our read and update.
	loaded, err := svc.GetForActor(context.Background(), "order-1", "customer")
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCreated, loaded.Status)

	applied, err := orders.UpdateStatusGuarded(context.Background(), "order-1", models.OrderStatusCreated, models.OrderStatusRejectedByProvider)
	require.NoError(t, err)
	require.True(t, applied)

	result, err := svc.SetStatus(context.Background(), "order-1", models.OrderStatusCancelledByCustomer, "customer")
	require.NoError(t, err)
	assert.False(t, result.Applied, "transition from a stale status must lose the guard")
}

func TestListForUserRespectsMode(t *testing.T) {
	svc, orders, _, _ := newOrderServiceFixture(t, 1000)
	require.NoError(t, orders.Create(context.Background(), &models.Order{ID: "o1", CustomerID: "customer", ProviderID: "provider"}))
	require.NoError(t, orders.Create(context.Background(), &models.Order{ID: "o2", CustomerID: "provider", ProviderID: "customer"}))

	asBuyer, err := svc.ListForUser(context.Background(), "customer", sessions.ModeBuyer)
	require.NoError(t, err)
	require.Len(t, asBuyer, 1)
	assert.Equal(t, "o1", asBuyer[0].ID)

	asProvider, err := svc.ListForUser(context.Background(), "customer", sessions.ModeProvider)
	require.NoError(t, err)
	require.Len(t, asProvider, 1)
	assert.Equal(t, "o2", asProvider[0].ID)
}
