package services

import (
	"context"
	"fmt"
	"log"

	"github.com/poslugy/marketplace/app/repositories"
	"github.com/shopspring/decimal"
)

// PaymentResult reports the outcome of a balance debit. Insufficient
// funds is an expected outcome, not an error.
type PaymentResult struct {
	Paid   bool
	Reason string
}

type BalanceService struct {
	userRepo repositories.UserRepositoryImpl
}

func NewBalanceService(userRepo repositories.UserRepositoryImpl) *BalanceService {
	return &BalanceService{userRepo: userRepo}
}

// PayFromBalance debits price hryvnias from the user's balance if it
// covers the amount. The check and the decrement happen in one
// conditional UPDATE, so concurrent debits cannot overdraw.
func (s *BalanceService) PayFromBalance(ctx context.Context, userID string, price int) (PaymentResult, error) {
	if price < 0 {
		return PaymentResult{Reason: "вартість не може бути від'ємною"}, nil
	}

	amount := decimal.NewFromInt(int64(price))
	debited, err := s.userRepo.DebitBalanceIfSufficient(ctx, userID, amount)
	if err != nil {
		return PaymentResult{}, fmt.Errorf("failed to pay from balance: %w", err)
	}
	if !debited {
		return PaymentResult{Reason: "на балансі недостатньо коштів"}, nil
	}
	return PaymentResult{Paid: true}, nil
}

// Credit adds amount to the user's balance. Called by the top-up worker;
// must stay idempotent-friendly (a plain increment, retried by the task
// queue on failure).
func (s *BalanceService) Credit(ctx context.Context, userID string, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("top-up amount must be positive, got %s", amount)
	}
	if err := s.userRepo.CreditBalance(ctx, userID, amount); err != nil {
		return err
	}
	log.Printf("BalanceService: credited %s to user %s", amount, userID)
	return nil
}
