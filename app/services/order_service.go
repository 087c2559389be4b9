package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/poslugy/marketplace/app/models"
	"github.com/poslugy/marketplace/app/repositories"
	"github.com/poslugy/marketplace/app/utils/sessions"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrNotOrderActor = errors.New("only the order's customer or provider may change its status")
)

// TransitionResult is the explicit outcome of a status change request.
// A rejected transition leaves the order untouched and carries a
// human-readable reason.
type TransitionResult struct {
	Applied bool
	Reason  string
}

type OrderService struct {
	orderRepo  repositories.OrderRepository
	actionRepo repositories.ActionRepositoryImpl
	balance    *BalanceService
}

func NewOrderService(orderRepo repositories.OrderRepository, actionRepo repositories.ActionRepositoryImpl, balance *BalanceService) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		actionRepo: actionRepo,
		balance:    balance,
	}
}

// CreateForService places an order for a service. Payment is debited
// here, once; the service price is snapshotted onto the order and never
// follows later price changes on the service.
func (s *OrderService) CreateForService(ctx context.Context, customerID string, service *models.Service, comment string) (*models.Order, PaymentResult, error) {
	payment, err := s.balance.PayFromBalance(ctx, customerID, service.Price)
	if err != nil {
		return nil, PaymentResult{}, err
	}
	if !payment.Paid {
		return nil, payment, nil
	}

	order := &models.Order{
		CustomerID: customerID,
		ProviderID: service.ProviderID,
		Item:       service.Ref(),
		Price:      service.Price,
		Comment:    comment,
	}
	order.Status = models.OrderStatusCreated

	if err := s.orderRepo.Create(ctx, order); err != nil {
		// The debit already landed; surface the failure loudly so the
		// operator can reconcile.
		return nil, payment, fmt.Errorf("failed to create order after debiting balance for user %s: %w", customerID, err)
	}

	s.recordAction(ctx, customerID, models.ActionPlaceOrder, order.Ref())
	s.recordAction(ctx, service.ProviderID, models.ActionReceiveOrder, order.Ref())

	return order, payment, nil
}

// SetStatus applies a transition from the order's current status,
// validated against the transition table for the actor's role. The
// status UPDATE is guarded by the expected current status, so two
// concurrent transitions cannot both win.
func (s *OrderService) SetStatus(ctx context.Context, orderID string, newStatus models.OrderStatus, actorID string) (TransitionResult, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return TransitionResult{}, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}
	if order == nil {
		return TransitionResult{}, ErrOrderNotFound
	}

	role := order.RoleOf(actorID)
	if role == "" {
		return TransitionResult{}, ErrNotOrderActor
	}

	if !models.OrderTransitionAllowed(order.Status, newStatus, role) {
		return TransitionResult{
			Reason: fmt.Sprintf("перехід зі статусу %q до %q недоступний для ролі %q", order.Status, newStatus, role),
		}, nil
	}

	applied, err := s.orderRepo.UpdateStatusGuarded(ctx, order.ID, order.Status, newStatus)
	if err != nil {
		return TransitionResult{}, err
	}
	if !applied {
		return TransitionResult{Reason: "статус замовлення щойно змінився, спробуйте ще раз"}, nil
	}

	if verb := models.OrderTransitionVerb(newStatus); verb != "" {
		s.recordAction(ctx, actorID, verb, order.Ref())
	}

	return TransitionResult{Applied: true}, nil
}

// ListForUser returns the user's orders for an explicit browsing mode:
// buyer mode lists orders placed, anything else lists orders received.
func (s *OrderService) ListForUser(ctx context.Context, userID, mode string) ([]models.Order, error) {
	if mode == sessions.ModeBuyer {
		return s.orderRepo.ListAsCustomer(ctx, userID)
	}
	return s.orderRepo.ListAsProvider(ctx, userID)
}

func (s *OrderService) GetForActor(ctx context.Context, orderID, actorID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.RoleOf(actorID) == "" {
		return nil, ErrNotOrderActor
	}
	return order, nil
}

func (s *OrderService) recordAction(ctx context.Context, userID, verb string, target models.EntityRef) {
	action := &models.Action{UserID: userID, Verb: verb, Target: target}
	if err := s.actionRepo.Create(ctx, action); err != nil {
		log.Printf("OrderService: failed to record action %q for user %s: %v", verb, userID, err)
	}
}
