// File: services/wallet/tasks.go
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"servilink/models"
	"servilink/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeProcessEarning is the queue task that settles a completed session.
const TypeProcessEarning = "earnings:process"

// EarningPayload is the task body for TypeProcessEarning.
type EarningPayload struct {
	SessionID  string  `json:"sessionId"`
	ProviderID string  `json:"providerId"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
}

// AsynqPublisher enqueues settlement tasks on session completion. The task ID
// is derived from the session so a double-publish collapses into one task.
type AsynqPublisher struct {
	Client *asynq.Client
}

// NewAsynqPublisher constructs a publisher over an asynq client.
func NewAsynqPublisher(client *asynq.Client) *AsynqPublisher {
	return &AsynqPublisher{Client: client}
}

// PublishSessionCompleted enqueues the earnings settlement for the session.
func (p *AsynqPublisher) PublishSessionCompleted(ctx context.Context, session *models.Session) error {
	payload, err := json.Marshal(EarningPayload{
		SessionID:  session.ID,
		ProviderID: session.ProviderID,
		Amount:     session.TotalAmount,
		Currency:   session.Currency,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal earning payload: %w", err)
	}

	task := asynq.NewTask(TypeProcessEarning, payload)
	info, err := p.Client.EnqueueContext(ctx, task,
		asynq.TaskID("earning:"+session.ID),
		asynq.MaxRetry(10),
		asynq.Queue("default"),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			utils.GetLogger().Info("settlement task already enqueued",
				zap.String("sessionID", session.ID))
			return nil
		}
		return fmt.Errorf("failed to enqueue settlement task: %w", err)
	}

	utils.GetLogger().Info("settlement task enqueued",
		zap.String("sessionID", session.ID),
		zap.String("taskID", info.ID))
	return nil
}

// EarningsTaskHandler consumes TypeProcessEarning tasks.
type EarningsTaskHandler struct {
	Processor EarningsProcessor
}

// HandleProcessEarning settles the session. Already-settled sessions return
// nil so asynq does not retry them.
func (h *EarningsTaskHandler) HandleProcessEarning(ctx context.Context, t *asynq.Task) error {
	var payload EarningPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid earning payload: %v: %w", err, asynq.SkipRetry)
	}
	return h.Processor.ProcessSessionEarning(ctx, payload.SessionID, payload.ProviderID, payload.Amount, payload.Currency)
}

// RegisterTasks mounts the wallet handlers on an asynq mux.
func (h *EarningsTaskHandler) RegisterTasks(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeProcessEarning, h.HandleProcessEarning)
}
