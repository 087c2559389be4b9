package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTransitionAllowed(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		role OrderRole
		want bool
	}{
		{"provider accepts new order", OrderStatusCreated, OrderStatusInProgress, OrderRoleProvider, true},
		{"provider rejects new order", OrderStatusCreated, OrderStatusRejectedByProvider, OrderRoleProvider, true},
		{"customer cancels new order", OrderStatusCreated, OrderStatusCancelledByCustomer, OrderRoleCustomer, true},
		{"customer cannot accept for provider", OrderStatusCreated, OrderStatusInProgress, OrderRoleCustomer, false},
		{"provider submits work", OrderStatusInProgress, OrderStatusSubmittedByProvider, OrderRoleProvider, true},
		{"provider rejects mid-work", OrderStatusInProgress, OrderStatusRejectedByProvider, OrderRoleProvider, true},
		{"customer cancels mid-work", OrderStatusInProgress, OrderStatusCancelledByCustomer, OrderRoleCustomer, true},
		{"customer accepts result", OrderStatusSubmittedByProvider, OrderStatusAcceptedByCustomer, OrderRoleCustomer, true},
		{"customer returns result", OrderStatusSubmittedByProvider, OrderStatusReturnedByCustomer, OrderRoleCustomer, true},
		{"provider cannot approve own work", OrderStatusSubmittedByProvider, OrderStatusAcceptedByCustomer, OrderRoleProvider, false},
		{"provider resubmits after return", OrderStatusReturnedByCustomer, OrderStatusSubmittedByProvider, OrderRoleProvider, true},
		{"provider gives up after return", OrderStatusReturnedByCustomer, OrderStatusRejectedByProvider, OrderRoleProvider, true},
		{"customer pays accepted order", OrderStatusAcceptedByCustomer, OrderStatusPaid, OrderRoleCustomer, true},
		{"provider completes paid order", OrderStatusPaid, OrderStatusCompleted, OrderRoleProvider, true},
		{"no skipping straight to paid", OrderStatusCreated, OrderStatusPaid, OrderRoleCustomer, false},
		{"no leaving completed", OrderStatusCompleted, OrderStatusInProgress, OrderRoleProvider, false},
		{"no leaving cancelled", OrderStatusCancelledByCustomer, OrderStatusCreated, OrderRoleCustomer, false},
		{"no leaving rejected", OrderStatusRejectedByProvider, OrderStatusInProgress, OrderRoleProvider, false},
		{"outsider role matches nothing", OrderStatusCreated, OrderStatusInProgress, OrderRole(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OrderTransitionAllowed(tt.from, tt.to, tt.role))
		})
	}
}

func TestAllowedOrderTransitionsTerminalStatuses(t *testing.T) {
	terminal := []OrderStatus{
		OrderStatusCompleted,
		OrderStatusCancelledByCustomer,
		OrderStatusRejectedByProvider,
	}
	for _, status := range terminal {
		assert.Empty(t, AllowedOrderTransitions(status, OrderRoleCustomer), "customer should have no moves from %s", status)
		assert.Empty(t, AllowedOrderTransitions(status, OrderRoleProvider), "provider should have no moves from %s", status)
	}
}

func TestEveryTransitionHasAVerb(t *testing.T) {
	for key, targets := range orderTransitions {
		for _, to := range targets {
			assert.NotEmpty(t, OrderTransitionVerb(to),
				"transition %s -> %s has no audit verb", key.From, to)
		}
	}
}

func TestDerivedFlags(t *testing.T) {
	tests := []struct {
		status      OrderStatus
		isCompleted bool
		isPaid      bool
		isCancelled bool
	}{
		{OrderStatusCreated, false, false, false},
		{OrderStatusInProgress, false, false, false},
		{OrderStatusSubmittedByProvider, false, false, false},
		{OrderStatusReturnedByCustomer, false, false, false},
		{OrderStatusAcceptedByCustomer, false, false, false},
		{OrderStatusPaid, false, true, false},
		{OrderStatusCompleted, true, true, false},
		{OrderStatusCancelledByCustomer, false, false, true},
		{OrderStatusRejectedByProvider, false, false, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			isCompleted, isPaid, isCancelled := DerivedFlags(tt.status)
			assert.Equal(t, tt.isCompleted, isCompleted, "is_completed")
			assert.Equal(t, tt.isPaid, isPaid, "is_paid")
			assert.Equal(t, tt.isCancelled, isCancelled, "is_cancelled")
		})
	}
}

func TestOrderRoleOf(t *testing.T) {
	order := &Order{CustomerID: "c1", ProviderID: "p1"}

	require.Equal(t, OrderRoleCustomer, order.RoleOf("c1"))
	require.Equal(t, OrderRoleProvider, order.RoleOf("p1"))
	require.Equal(t, OrderRole(""), order.RoleOf("someone-else"))
}
