// Package stream consumes the entries feed over WebSocket and hands decoded
// batches to the scan pipeline.
package stream

import (
	"context"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"solana-snipe-engine/internal/domain"
	"solana-snipe-engine/internal/observability"
)

// ReconnectDelay is the fixed wait between connection attempts. The feed
// replays nothing, so aggressive backoff only widens the gap in coverage.
const ReconnectDelay = 5 * time.Second

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
)

// Handler receives each decoded entry batch. It is called on the stream
// goroutine; long work belongs elsewhere.
type Handler func(ctx context.Context, batch domain.EntryBatch)

// Client maintains a subscription to the entries feed, reconnecting forever
// until its context is cancelled.
type Client struct {
	endpoint string
	metrics  *observability.Metrics
	log      *log.Logger
}

// NewClient returns a stream client for endpoint.
func NewClient(endpoint string, metrics *observability.Metrics, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(log.Writer(), "[stream] ", log.LstdFlags)
	}
	return &Client{endpoint: endpoint, metrics: metrics, log: logger}
}

// Run connects, subscribes, and dispatches batches to handle until ctx is
// cancelled. Every failure tears the connection down and retries after
// ReconnectDelay.
func (c *Client) Run(ctx context.Context, handle Handler) error {
	for {
		if err := c.runOnce(ctx, handle); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Printf("stream disconnected: %v", err)
		}

		c.log.Printf("reconnecting in %s", ReconnectDelay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ReconnectDelay):
			c.metrics.StreamReconnects.Inc()
		}
	}
}

func (c *Client) runOnce(ctx context.Context, handle Handler) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Tear the connection down when the context ends so ReadMessage
	// unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	if err := c.subscribe(conn); err != nil {
		return err
	}
	c.log.Printf("subscribed to entries at %s", c.endpoint)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		batch, ok, err := parseNotification(raw)
		if err != nil {
			return err
		}
		if !ok {
			// Subscription confirmations and unrelated frames.
			continue
		}
		handle(ctx, batch)
	}
}

func (c *Client) subscribe(conn *websocket.Conn) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(wireRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "subscribeEntries",
	})
}
