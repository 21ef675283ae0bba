package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hibiken/asynq"

	"github.com/NanamiNakano/apnoxide/internal/apns"
	"github.com/NanamiNakano/apnoxide/internal/db"
	"github.com/NanamiNakano/apnoxide/internal/queue"
)

// unrecoverableReasons are APNs rejections that no retry can fix. The push
// is marked failed and, for dead tokens, the device row is dropped.
var unrecoverableReasons = map[string]bool{
	"BadDeviceToken":         true,
	"Unregistered":           true,
	"DeviceTokenNotForTopic": true,
	"TopicDisallowed":        true,
	"PayloadTooLarge":        true,
	"BadCollapseId":          true,
	"BadMessageId":           true,
	"BadPriority":            true,
	"BadTopic":               true,
	"MissingTopic":           true,
}

// deadTokenReasons additionally mean the token itself is gone.
var deadTokenReasons = map[string]bool{
	"BadDeviceToken": true,
	"Unregistered":   true,
}

type Worker struct {
	server *asynq.Server
	client *apns.Client
	topic  string

	// The APNs client mutates its token cache on every push, so access
	// has to be serialized across the handler goroutines.
	mu sync.Mutex
}

func NewWorker(redisAddr string, client *apns.Client, topic string) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr: redisAddr,
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				queue.QueuePushDelivery: 10,
			},
		},
	)

	return &Worker{
		server: server,
		client: client,
		topic:  topic,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(queue.QueuePushDelivery, w.handlePushDelivery)

	slog.Info("Starting worker",
		"queues", []string{queue.QueuePushDelivery},
		"concurrency", 10)

	if err := w.server.Start(mux); err != nil {
		return err
	}

	slog.Info("Worker started successfully")

	<-ctx.Done()

	w.server.Stop()
	slog.Info("Worker stopped")
	return nil
}

func (w *Worker) handlePushDelivery(ctx context.Context, t *asynq.Task) error {
	var payload queue.PushDeliveryPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal task payload: %w: %w", err, asynq.SkipRetry)
	}

	body, err := payload.Spec.BuildPayload()
	if err != nil {
		// The handler already built this once, so a failure
		// here means the task body was corrupted in transit.
		if dbErr := db.MarkPushFailed(ctx, payload.PushID, "InvalidPayload"); dbErr != nil {
			slog.Error("Failed to record push failure", "error", dbErr, "push_id", payload.PushID)
		}
		return fmt.Errorf("build payload: %w: %w", err, asynq.SkipRetry)
	}

	receipt, err := w.push(ctx, body, payload.DeviceToken, payload.PushID)
	if err == nil {
		if err := db.MarkPushDelivered(ctx, payload.PushID, receipt.ID, receipt.UniqueID); err != nil {
			slog.Error("Failed to record delivery", "error", err, "push_id", payload.PushID)
			return err
		}
		slog.Info("Push delivered",
			"push_id", payload.PushID,
			"apns_id", receipt.ID,
			"user_id", payload.UserID)
		return nil
	}

	var svcErr *apns.ServiceError
	if errors.As(err, &svcErr) {
		slog.Warn("Push rejected by APNs",
			"push_id", payload.PushID,
			"status", svcErr.StatusCode,
			"reason", svcErr.Reason)

		if unrecoverableReasons[svcErr.Reason] {
			if dbErr := db.MarkPushFailed(ctx, payload.PushID, svcErr.Reason); dbErr != nil {
				slog.Error("Failed to record push failure", "error", dbErr, "push_id", payload.PushID)
			}
			if deadTokenReasons[svcErr.Reason] {
				if dbErr := db.DeleteDeviceByToken(ctx, payload.DeviceToken); dbErr != nil {
					slog.Error("Failed to drop dead device token", "error", dbErr, "push_id", payload.PushID)
				}
			}
			return fmt.Errorf("apns rejected push: %s: %w", svcErr.Reason, asynq.SkipRetry)
		}
		// Server-side throttling or internal errors: let asynq retry.
		return err
	}

	var trErr *apns.TransportError
	if errors.As(err, &trErr) {
		slog.Warn("Push transport failure, will retry", "push_id", payload.PushID, "error", err)
		return err
	}

	// Signing, clock or response-shape failures are not transient.
	if dbErr := db.MarkPushFailed(ctx, payload.PushID, "InternalError"); dbErr != nil {
		slog.Error("Failed to record push failure", "error", dbErr, "push_id", payload.PushID)
	}
	return fmt.Errorf("push delivery: %w: %w", err, asynq.SkipRetry)
}

// push serializes access to the shared APNs client; its token cache is not
// safe for concurrent use.
func (w *Worker) push(ctx context.Context, body *apns.Payload, deviceToken, pushID string) (*apns.Receipt, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.client.Push(ctx, body, deviceToken, apns.PushOptions{
		PushType: "alert",
		ID:       pushID,
		Topic:    w.topic,
	})
}
