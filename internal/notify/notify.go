// Package notify provides notification functionality for the tracker.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"fxtracker/internal/config"
	"fxtracker/internal/models"
	"fxtracker/pkg/utils"
)

// Notifier defines the interface for sending notifications.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
	SendTrade(ctx context.Context, trade *models.Trade) error
	SendPlanCompleted(ctx context.Context, plan *models.GrowthPlan) error
	SendError(ctx context.Context, err error, context string) error
}

// NotificationChannel defines the interface for a notification channel.
type NotificationChannel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
	IsEnabled() bool
}

// Notification represents a notification message.
type Notification struct {
	Type      NotificationType
	Title     string
	Message   string
	Data      map[string]interface{}
	Timestamp time.Time
}

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationTrade NotificationType = "trade"
	NotificationPlan  NotificationType = "plan"
	NotificationError NotificationType = "error"
	NotificationInfo  NotificationType = "info"
)

// NotificationLevel represents the notification level filter.
type NotificationLevel string

const (
	LevelAll        NotificationLevel = "all"
	LevelTradesOnly NotificationLevel = "trades_only"
	LevelErrorsOnly NotificationLevel = "errors_only"
)

// MultiNotifier sends notifications to multiple channels.
type MultiNotifier struct {
	channels []NotificationChannel
	level    NotificationLevel
	mu       sync.RWMutex
}

// NewMultiNotifier creates a new MultiNotifier with the given configuration.
func NewMultiNotifier(cfg *config.NotificationConfig) *MultiNotifier {
	mn := &MultiNotifier{
		channels: make([]NotificationChannel, 0),
		level:    NotificationLevel(cfg.Level),
	}

	if mn.level == "" {
		mn.level = LevelAll
	}

	if cfg.Webhook.Enabled {
		mn.channels = append(mn.channels, NewWebhookNotifier(cfg.Webhook))
	}

	return mn
}

// AddChannel adds a notification channel.
func (mn *MultiNotifier) AddChannel(ch NotificationChannel) {
	mn.mu.Lock()
	defer mn.mu.Unlock()
	mn.channels = append(mn.channels, ch)
}

// shouldSend checks if a notification should be sent based on the level filter.
func (mn *MultiNotifier) shouldSend(notifType NotificationType) bool {
	switch mn.level {
	case LevelTradesOnly:
		return notifType == NotificationTrade
	case LevelErrorsOnly:
		return notifType == NotificationError
	default:
		return true
	}
}

// Send sends a notification to all enabled channels.
func (mn *MultiNotifier) Send(ctx context.Context, n Notification) error {
	if !mn.shouldSend(n.Type) {
		return nil
	}

	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	mn.mu.RLock()
	channels := mn.channels
	mn.mu.RUnlock()

	var firstErr error
	for _, ch := range channels {
		if !ch.IsEnabled() {
			continue
		}
		if err := ch.Send(ctx, n); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("channel %s: %w", ch.Name(), err)
		}
	}
	return firstErr
}

// SendTrade sends a settled-trade notification.
func (mn *MultiNotifier) SendTrade(ctx context.Context, trade *models.Trade) error {
	title := fmt.Sprintf("Trade settled: %s %s", trade.Pair, trade.Outcome)
	msg := fmt.Sprintf("%s %.2f lots, P&L %+.2f", trade.Pair, trade.LotSize, trade.ProfitLoss)
	return mn.Send(ctx, Notification{
		Type:    NotificationTrade,
		Title:   title,
		Message: msg,
		Data: map[string]interface{}{
			"accountId": trade.AccountID,
			"pair":      trade.Pair,
			"outcome":   string(trade.Outcome),
			"pnl":       trade.ProfitLoss,
		},
	})
}

// SendPlanCompleted sends a growth-plan completion notification.
func (mn *MultiNotifier) SendPlanCompleted(ctx context.Context, plan *models.GrowthPlan) error {
	return mn.Send(ctx, Notification{
		Type:    NotificationPlan,
		Title:   "Growth plan completed",
		Message: fmt.Sprintf("Plan reached its target after %d trades", plan.TotalTradesCompleted),
		Data: map[string]interface{}{
			"accountId":    plan.AccountID,
			"planId":       plan.ID,
			"targetAmount": plan.TargetAmount,
			"trades":       plan.TotalTradesCompleted,
		},
	})
}

// SendError sends an error notification.
func (mn *MultiNotifier) SendError(ctx context.Context, err error, context string) error {
	return mn.Send(ctx, Notification{
		Type:    NotificationError,
		Title:   "Error: " + context,
		Message: err.Error(),
	})
}

// WebhookNotifier sends notifications to an HTTP webhook. Transient
// failures are retried with exponential backoff.
type WebhookNotifier struct {
	cfg    config.WebhookConfig
	client *http.Client
	retry  utils.RetryConfig
}

// NewWebhookNotifier creates a new webhook notifier.
func NewWebhookNotifier(cfg config.WebhookConfig) *WebhookNotifier {
	return &WebhookNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		retry:  utils.DefaultRetryConfig(),
	}
}

// Name returns the channel name.
func (w *WebhookNotifier) Name() string { return "webhook" }

// IsEnabled reports whether the channel is configured and enabled.
func (w *WebhookNotifier) IsEnabled() bool { return w.cfg.Enabled && w.cfg.URL != "" }

// Send posts the notification as JSON to the configured URL.
func (w *WebhookNotifier) Send(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(map[string]interface{}{
		"type":      n.Type,
		"title":     n.Title,
		"message":   n.Message,
		"data":      n.Data,
		"timestamp": n.Timestamp.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	return utils.Retry(ctx, w.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("creating webhook request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := w.client.Do(req)
		if err != nil {
			return fmt.Errorf("sending webhook: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return fmt.Errorf("webhook returned status %d", resp.StatusCode)
		}
		return nil
	})
}

// NoOpNotifier discards all notifications.
type NoOpNotifier struct{}

// Send discards the notification.
func (NoOpNotifier) Send(ctx context.Context, n Notification) error { return nil }

// SendTrade discards the notification.
func (NoOpNotifier) SendTrade(ctx context.Context, trade *models.Trade) error { return nil }

// SendPlanCompleted discards the notification.
func (NoOpNotifier) SendPlanCompleted(ctx context.Context, plan *models.GrowthPlan) error { return nil }

// SendError discards the notification.
func (NoOpNotifier) SendError(ctx context.Context, err error, context string) error { return nil }
