package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusCreated             OrderStatus = "created"
	OrderStatusInProgress          OrderStatus = "in_progress"
	OrderStatusCancelledByCustomer OrderStatus = "cancelled_by_customer"
	OrderStatusRejectedByProvider  OrderStatus = "rejected_by_provider"
	OrderStatusSubmittedByProvider OrderStatus = "submitted_by_provider"
	OrderStatusReturnedByCustomer  OrderStatus = "returned_by_customer"
	OrderStatusAcceptedByCustomer  OrderStatus = "accepted_by_customer"
	OrderStatusPaid                OrderStatus = "paid"
	OrderStatusCompleted           OrderStatus = "completed"
)

// OrderRole is the actor's relationship to an order. Only the order's
// customer and provider may drive its state machine.
type OrderRole string

const (
	OrderRoleCustomer OrderRole = "customer"
	OrderRoleProvider OrderRole = "provider"
)

type transitionKey struct {
	From OrderStatus
	Role OrderRole
}

// orderTransitions is the closed enumeration of legal transitions.
// Anything absent from this table is rejected.
var orderTransitions = map[transitionKey][]OrderStatus{
	{OrderStatusCreated, OrderRoleProvider}:             {OrderStatusInProgress, OrderStatusRejectedByProvider},
	{OrderStatusCreated, OrderRoleCustomer}:             {OrderStatusCancelledByCustomer},
	{OrderStatusInProgress, OrderRoleProvider}:          {OrderStatusSubmittedByProvider, OrderStatusRejectedByProvider},
	{OrderStatusInProgress, OrderRoleCustomer}:          {OrderStatusCancelledByCustomer},
	{OrderStatusSubmittedByProvider, OrderRoleCustomer}: {OrderStatusAcceptedByCustomer, OrderStatusReturnedByCustomer},
	{OrderStatusReturnedByCustomer, OrderRoleProvider}:  {OrderStatusSubmittedByProvider, OrderStatusRejectedByProvider},
	{OrderStatusAcceptedByCustomer, OrderRoleCustomer}:  {OrderStatusPaid},
	{OrderStatusPaid, OrderRoleProvider}:                {OrderStatusCompleted},
}

// OrderTransitionAllowed reports whether role may move an order from
// one status to another.
func OrderTransitionAllowed(from, to OrderStatus, role OrderRole) bool {
	for _, allowed := range orderTransitions[transitionKey{from, role}] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedOrderTransitions lists the statuses role may move an order to
// from its current status. Empty for terminal statuses.
func AllowedOrderTransitions(from OrderStatus, role OrderRole) []OrderStatus {
	return orderTransitions[transitionKey{from, role}]
}

// OrderTransitionVerb maps an applied transition to the Action verb
// recorded for the actor.
func OrderTransitionVerb(to OrderStatus) string {
	switch to {
	case OrderStatusInProgress:
		return ActionAcceptOrder
	case OrderStatusCancelledByCustomer:
		return ActionCancelOrder
	case OrderStatusRejectedByProvider:
		return ActionRejectOrder
	case OrderStatusSubmittedByProvider:
		return ActionSubmitOrder
	case OrderStatusReturnedByCustomer:
		return ActionReturnOrder
	case OrderStatusAcceptedByCustomer:
		return ActionReceiveResult
	case OrderStatusPaid:
		return ActionPayOrder
	case OrderStatusCompleted:
		return ActionCompleteOrder
	default:
		return ""
	}
}

// Order is a purchase of an item (a service today, any EntityRef kind
// tomorrow). Price is snapshotted from the item at creation time and
// never follows later price changes.
type Order struct {
	ID         string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	CustomerID string `gorm:"size:36;not null;index" json:"customer_id"`
	Customer   User   `gorm:"foreignKey:CustomerID" json:"customer"`
	ProviderID string `gorm:"size:36;not null;index" json:"provider_id"`
	Provider   User   `gorm:"foreignKey:ProviderID" json:"provider"`

	Item EntityRef `gorm:"embedded;embeddedPrefix:item_" json:"item"`

	Price   int         `gorm:"not null" json:"price"`
	Status  OrderStatus `gorm:"size:32;default:'created';index" json:"status"`
	Comment string      `gorm:"type:text" json:"comment"`

	// Derived from Status on every applied transition; never set directly.
	IsCompleted bool `gorm:"default:false" json:"is_completed"`
	IsPaid      bool `gorm:"default:false" json:"is_paid"`
	IsCancelled bool `gorm:"default:false" json:"is_cancelled"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}

func (o *Order) Ref() EntityRef {
	return EntityRef{Kind: EntityKindOrder, ID: o.ID}
}

// RoleOf returns the actor's role on this order, or "" for outsiders.
func (o *Order) RoleOf(userID string) OrderRole {
	switch userID {
	case o.CustomerID:
		return OrderRoleCustomer
	case o.ProviderID:
		return OrderRoleProvider
	default:
		return ""
	}
}

// DerivedFlags computes the boolean columns that must stay consistent
// with a status.
func DerivedFlags(status OrderStatus) (isCompleted, isPaid, isCancelled bool) {
	isCompleted = status == OrderStatusCompleted
	isPaid = status == OrderStatusPaid || status == OrderStatusCompleted
	isCancelled = status == OrderStatusCancelledByCustomer || status == OrderStatusRejectedByProvider
	return
}
