// Package notify delivers fire events to downstream webhook consumers.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/sawpanic/courtside/internal/engine"
)

// Notifier receives fire events as they happen. Implementations must be
// safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, event *engine.FireEvent) error
}

// WebhookConfig holds webhook delivery settings.
type WebhookConfig struct {
	URL     string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// DefaultWebhookConfig returns sane delivery defaults.
func DefaultWebhookConfig(url string) WebhookConfig {
	return WebhookConfig{
		URL:     url,
		Timeout: 5 * time.Second,
		RPS:     5,
		Burst:   10,
	}
}

// WebhookNotifier POSTs fire events to a configured endpoint. Delivery is
// rate limited and guarded by a circuit breaker so a dead consumer cannot
// stall the evaluation path.
type WebhookNotifier struct {
	config  WebhookConfig
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewWebhookNotifier creates a notifier for the given endpoint.
func NewWebhookNotifier(config WebhookConfig) *WebhookNotifier {
	settings := gobreaker.Settings{
		Name:        "signal-webhook",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("webhook breaker state change")
		},
	}

	return &WebhookNotifier{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		limiter: rate.NewLimiter(rate.Limit(config.RPS), config.Burst),
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Notify delivers one fire event. Errors are returned for observability
// but callers should treat delivery as best-effort.
func (n *WebhookNotifier) Notify(ctx context.Context, event *engine.FireEvent) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("webhook rate limit: %w", err)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode fire event: %w", err)
	}

	_, err = n.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.config.URL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("webhook returned %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("deliver fire event %s: %w", event.TriggerID, err)
	}
	return nil
}

// LogNotifier writes fire events to the structured log. Used when no
// webhook endpoint is configured.
type LogNotifier struct{}

// Notify logs the event.
func (LogNotifier) Notify(_ context.Context, event *engine.FireEvent) error {
	log.Info().
		Str("strategy", event.StrategyName).
		Str("trigger", event.TriggerName).
		Str("kind", string(event.Kind)).
		Str("game", event.GameID).
		Time("fired_at", event.FiredAt).
		Msg("trigger fired")
	return nil
}
