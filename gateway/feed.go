// Package gateway connects the runner to the simulated exchange's tick feed.
package gateway

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mstrvictor/prosperity3/market"
)

// Handler consumes decoded tick snapshots in arrival order.
type Handler interface {
	OnTick(state *market.TickState)
}

// FeedClient reads tick snapshots from a websocket feed and hands them to a
// handler. On read or dial errors it reconnects with growing backoff until
// the context is cancelled.
type FeedClient struct {
	URL    string
	Dialer *websocket.Dialer
	Log    *zap.Logger
}

func NewFeedClient(url string, log *zap.Logger) *FeedClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &FeedClient{URL: url, Dialer: websocket.DefaultDialer, Log: log}
}

func (c *FeedClient) Run(ctx context.Context, handler Handler) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.readLoop(ctx, handler); err != nil {
			c.Log.Warn("feed disconnected", zap.String("url", c.URL), zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (c *FeedClient) readLoop(ctx context.Context, handler Handler) error {
	conn, _, err := c.Dialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	c.Log.Info("feed connected", zap.String("url", c.URL))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		state, err := ParseTick(raw)
		if err != nil {
			// Skip unusable frames; the feed keeps running.
			c.Log.Warn("drop tick frame", zap.Error(err))
			continue
		}
		handler.OnTick(state)
	}
}
