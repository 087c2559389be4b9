package tasks

import (
	"context"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
)

// Client enqueues background jobs. Satisfies services.TopUpEnqueuer.
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr string) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
	}
}

func (c *Client) EnqueueTopUp(ctx context.Context, userID string, amount int, cardNumber string) error {
	task, err := NewBalanceTopUpTask(userID, amount, cardNumber)
	if err != nil {
		return fmt.Errorf("failed to build top-up task: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue top-up for user %s: %w", userID, err)
	}
	log.Printf("tasks: enqueued top-up %s for user %s (amount %d)", info.ID, userID, amount)
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
