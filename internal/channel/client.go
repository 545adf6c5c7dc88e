// Package channel maintains the single persistent push connection to the
// backend. It owns the connection lifecycle: dial, serialized dispatch of
// inbound envelopes into the state store, and an unconditional fixed-delay
// reconnect that only teardown suppresses.
package channel

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"github.com/mailpilot/console/internal/models"
	"github.com/mailpilot/console/internal/state"
)

// ErrNotConnected is returned by Send while the channel is down. Commands
// fail fast rather than queueing.
var ErrNotConnected = errors.New("live channel not connected")

// readLimit bounds one inbound frame. initial_state carries every queue
// at once, so this is well above the nhooyr default.
const readLimit = 8 << 20

// Options configures a live channel client
type Options struct {
	// URL is the websocket endpoint (ws:// or wss://)
	URL string

	// ReconnectDelay is the fixed wait before the single scheduled
	// reconnect attempt after an abnormal close. Defaults to 3s.
	ReconnectDelay time.Duration
}

// Client is the reconnecting push-message client. At most one connection
// attempt is active at any time; a single reader goroutine applies
// messages in arrival order.
type Client struct {
	url            string
	reconnectDelay time.Duration
	store          *state.Store
	logger         *log.Logger // Optional - for debug logging

	mu      sync.Mutex
	conn    *websocket.Conn
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewClient creates a live channel client dispatching into store
func NewClient(opts Options, store *state.Store) *Client {
	delay := opts.ReconnectDelay
	if delay <= 0 {
		delay = 3 * time.Second
	}
	return &Client{
		url:            opts.URL,
		reconnectDelay: delay,
		store:          store,
	}
}

// SetLogger sets the logger for debug output
func (c *Client) SetLogger(logger *log.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
}

// Start begins the connect/reconnect loop in a background goroutine. It
// returns immediately; connection state is surfaced through the store's
// agent status. Calling Start on a running client is an error.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return errors.New("live channel already started")
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.started = true
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(runCtx)
	return nil
}

// Close tears the channel down: the socket is closed and any scheduled
// reconnect is suppressed. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = false
	cancel := c.cancel
	conn := c.conn
	done := c.done
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "client teardown")
	}
	if done != nil {
		<-done
	}
	return nil
}

// Connected reports whether a socket is currently open
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Send writes one outbound command envelope. It fails fast with
// ErrNotConnected while the channel is down.
func (c *Client) Send(ctx context.Context, env models.Envelope) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

// RequestSmartReplies asks the backend for reply suggestions for one email
func (c *Client) RequestSmartReplies(ctx context.Context, emailID string) error {
	env, err := models.NewEnvelope(models.TypeGetSmartReplies, models.SmartReplyRequest{EmailID: emailID})
	if err != nil {
		return err
	}
	return c.Send(ctx, env)
}

// run is the connect/reconnect loop. Reconnection is unconditional and
// indefinite; only ctx cancellation (teardown) stops it.
func (c *Client) run(ctx context.Context) {
	defer close(c.done)
	for {
		if ctx.Err() != nil {
			return
		}
		c.store.SetStatus(ctx, models.StatusConnecting)

		conn, _, err := websocket.Dial(ctx, c.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.debugf("channel: dial failed: %v", err)
			c.store.SetStatus(ctx, models.StatusDisconnected)
			if !c.sleep(ctx) {
				return
			}
			continue
		}
		conn.SetReadLimit(readLimit)

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()

		// The server pushes initial_state unsolicited on connect; nothing
		// further to request here.
		c.store.SetStatus(ctx, models.StatusConnected)
		err = c.readLoop(ctx, conn)

		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()

		if ctx.Err() != nil {
			return
		}

		if err != nil && websocket.CloseStatus(err) == -1 {
			// Transport error rather than a close frame: surface Error,
			// force-close, then take the normal reconnect path.
			c.debugf("channel: transport error: %v", err)
			c.store.SetStatus(ctx, models.StatusError)
			_ = conn.Close(websocket.StatusInternalError, "transport error")
		} else {
			c.debugf("channel: connection closed: %v", err)
		}

		c.store.SetStatus(ctx, models.StatusDisconnected)
		if !c.sleep(ctx) {
			return
		}
	}
}

// readLoop applies inbound messages strictly in arrival order. Malformed
// frames are skipped; only connection failure ends the loop.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		var env models.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.debugf("channel: dropping malformed frame: %v", err)
			continue
		}
		c.store.Apply(ctx, env)
	}
}

// sleep waits out the fixed reconnect delay. Returns false if teardown
// happened first, in which case no reconnect attempt is made.
func (c *Client) sleep(ctx context.Context) bool {
	timer := time.NewTimer(c.reconnectDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (c *Client) debugf(format string, args ...interface{}) {
	c.mu.Lock()
	logger := c.logger
	c.mu.Unlock()
	if logger != nil {
		logger.Printf(format, args...)
	}
}
