package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeBalanceTopUp = "balance:topup"

const QueueBalance = "balance"

// BalanceTopUpPayload carries a requested balance credit. The card
// charge is stubbed: the card number is recorded only for the operation
// log.
type BalanceTopUpPayload struct {
	UserID     string    `json:"user_id"`
	Amount     int       `json:"amount"`
	CardNumber string    `json:"card_number"`
	Requested  time.Time `json:"requested"`
}

func NewBalanceTopUpTask(userID string, amount int, cardNumber string) (*asynq.Task, error) {
	payload, err := json.Marshal(BalanceTopUpPayload{
		UserID:     userID,
		Amount:     amount,
		CardNumber: cardNumber,
		Requested:  time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBalanceTopUp, payload, asynq.Queue(QueueBalance), asynq.MaxRetry(5)), nil
}
