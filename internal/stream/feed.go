// Package stream consumes the live score provider's WebSocket feed and
// turns its messages into game deltas.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/sawpanic/courtside/internal/domain"
)

// FeedConfig holds feed client settings.
type FeedConfig struct {
	URL              string
	HandshakeTimeout time.Duration
	PingInterval     time.Duration
	ReconnectMin     time.Duration
	ReconnectMax     time.Duration
}

// DefaultFeedConfig returns feed defaults for the given endpoint.
func DefaultFeedConfig(feedURL string) FeedConfig {
	return FeedConfig{
		URL:              feedURL,
		HandshakeTimeout: 30 * time.Second,
		PingInterval:     20 * time.Second,
		ReconnectMin:     time.Second,
		ReconnectMax:     30 * time.Second,
	}
}

// FeedClient maintains a WebSocket connection to the score provider and
// emits decoded deltas on Deltas(). It reconnects with exponential
// backoff until the context is cancelled.
type FeedClient struct {
	config FeedConfig
	deltas chan domain.GameDelta

	mu          sync.Mutex
	conn        *websocket.Conn
	isConnected bool
}

// NewFeedClient creates a feed client. Run must be called to start it.
func NewFeedClient(config FeedConfig) (*FeedClient, error) {
	if _, err := url.Parse(config.URL); err != nil {
		return nil, fmt.Errorf("invalid feed URL: %w", err)
	}
	return &FeedClient{
		config: config,
		deltas: make(chan domain.GameDelta, 256),
	}, nil
}

// Deltas returns the channel of decoded game deltas. It is closed when
// Run returns.
func (f *FeedClient) Deltas() <-chan domain.GameDelta {
	return f.deltas
}

// Run connects and consumes the feed until ctx is cancelled.
func (f *FeedClient) Run(ctx context.Context) error {
	defer close(f.deltas)

	backoff := f.config.ReconnectMin
	for {
		if err := f.connect(ctx); err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("feed connect failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > f.config.ReconnectMax {
				backoff = f.config.ReconnectMax
			}
			continue
		}
		backoff = f.config.ReconnectMin

		err := f.consume(ctx)
		f.disconnect()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("feed disconnected, reconnecting")
	}
}

func (f *FeedClient) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: f.config.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, f.config.URL, nil)
	if err != nil {
		return fmt.Errorf("dial feed: %w", err)
	}

	f.mu.Lock()
	f.conn = conn
	f.isConnected = true
	f.mu.Unlock()

	log.Info().Str("url", f.config.URL).Msg("score feed connected")
	go f.pingLoop(ctx, conn)
	return nil
}

func (f *FeedClient) disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn != nil {
		f.conn.Close()
		f.conn = nil
	}
	f.isConnected = false
}

// consume reads feed messages until the connection drops.
func (f *FeedClient) consume(ctx context.Context) error {
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read feed message: %w", err)
		}

		var delta domain.GameDelta
		if err := json.Unmarshal(raw, &delta); err != nil {
			log.Warn().Err(err).Msg("malformed feed message skipped")
			continue
		}
		if delta.GameID == "" {
			log.Warn().Msg("feed message without game_id skipped")
			continue
		}
		if delta.ReceivedAt.IsZero() {
			delta.ReceivedAt = time.Now().UTC()
		}

		select {
		case f.deltas <- delta:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// pingLoop keeps the connection alive. On cancellation it closes the
// connection, which unblocks the consume loop's blocking read.
func (f *FeedClient) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(f.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.Close()
			return
		case <-ticker.C:
			deadline := time.Now().Add(5 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}
