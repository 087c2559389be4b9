package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/poslugy/marketplace/app/services"
	"github.com/shopspring/decimal"
)

// Worker consumes balance top-up tasks. Delivery is at-least-once: the
// handler returns an error to trigger asynq's retry with backoff, so
// the credit must be safe to re-attempt only after a failed UPDATE.
type Worker struct {
	server  *asynq.Server
	balance *services.BalanceService
}

func NewWorker(redisAddr string, balance *services.BalanceService) *Worker {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				QueueBalance: 1,
			},
		},
	)
	return &Worker{server: server, balance: balance}
}

func (w *Worker) Run() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBalanceTopUp, w.handleBalanceTopUp)

	log.Println("tasks: worker started")
	return w.server.Run(mux)
}

func (w *Worker) handleBalanceTopUp(ctx context.Context, task *asynq.Task) error {
	var payload BalanceTopUpPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to decode top-up payload: %v: %w", err, asynq.SkipRetry)
	}

	// The card charge itself is stubbed; only the ledger credit is real.
	amount := decimal.NewFromInt(int64(payload.Amount))
	if err := w.balance.Credit(ctx, payload.UserID, amount); err != nil {
		return fmt.Errorf("top-up credit failed for user %s: %w", payload.UserID, err)
	}

	log.Printf("tasks: topped up user %s by %d (card %s)", payload.UserID, payload.Amount, maskCard(payload.CardNumber))
	return nil
}

func maskCard(cardNumber string) string {
	if len(cardNumber) <= 4 {
		return "****"
	}
	return "****" + cardNumber[len(cardNumber)-4:]
}
