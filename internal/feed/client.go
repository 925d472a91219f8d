package feed

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"portwatch/internal/logging"
)

// State is the session state of a Client. Transitions happen only at loop
// boundaries, so cancellation never interrupts message handling.
type State int

const (
	StateConnecting State = iota
	StateSubscribed
	StateAwaitingMessage
	StateReconnecting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateAwaitingMessage:
		return "awaiting_message"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

const (
	handshakeTimeout      = 10 * time.Second
	writeWait             = 10 * time.Second
	initialReconnectDelay = time.Second
	maxReconnectDelay     = 32 * time.Second
)

// Handler consumes one raw feed message. A returned error aborts the run;
// recoverable conditions (parse failures, incomplete reports) must be
// swallowed by the handler itself.
type Handler func(ctx context.Context, raw []byte) error

// Client maintains a subscription to the position feed. It reconnects on
// transport errors with exponential backoff and re-sends the subscription
// when the stream goes quiet, since feeds pause without disconnecting.
type Client struct {
	url         string
	sub         Subscription
	quietPeriod time.Duration
	dialer      *websocket.Dialer
	state       State
}

func NewClient(url string, sub Subscription, quietPeriod time.Duration) *Client {
	return &Client{
		url:         url,
		sub:         sub,
		quietPeriod: quietPeriod,
		dialer:      &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		state:       StateConnecting,
	}
}

// State reports the session state as of the last transition.
func (c *Client) State() State { return c.state }

type readResult struct {
	data []byte
	err  error
}

// Run drives the session until the context expires (clean return) or the
// handler reports a fatal error. Messages are handled one at a time; nothing
// is read ahead of the handler.
func (c *Client) Run(ctx context.Context, handle Handler) error {
	reconnectDelay := initialReconnectDelay

	defer func() { c.state = StateClosed }()

	for {
		if ctx.Err() != nil {
			return nil
		}

		c.state = StateConnecting
		conn, err := c.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logging.Warn().Err(err).Dur("retry_in", reconnectDelay).Msg("feed connect failed")
			if !c.backoff(ctx, &reconnectDelay) {
				return nil
			}
			continue
		}
		c.state = StateSubscribed

		delivered := false
		fatal, err := c.consume(ctx, conn, func(ctx context.Context, raw []byte) error {
			delivered = true
			return handle(ctx, raw)
		})
		if fatal {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		if delivered {
			reconnectDelay = initialReconnectDelay
		}
		logging.Warn().Err(err).Dur("retry_in", reconnectDelay).Msg("feed connection lost, reconnecting")
		if !c.backoff(ctx, &reconnectDelay) {
			return nil
		}
	}
}

// backoff waits out the current reconnect delay and doubles it up to the cap.
// It returns false when the context expired while waiting.
func (c *Client) backoff(ctx context.Context, delay *time.Duration) bool {
	c.state = StateReconnecting
	select {
	case <-ctx.Done():
		return false
	case <-time.After(*delay):
	}
	*delay *= 2
	if *delay > maxReconnectDelay {
		*delay = maxReconnectDelay
	}
	return true
}

func (c *Client) connect(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := c.dialer.DialContext(ctx, c.url, nil)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	if err := c.sendSubscription(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func (c *Client) sendSubscription(conn *websocket.Conn) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(c.sub)
}

// consume runs the subscribed session on one connection. It returns
// fatal=true only for handler errors; transport failures return fatal=false
// so Run can reconnect.
func (c *Client) consume(ctx context.Context, conn *websocket.Conn, handle Handler) (bool, error) {
	done := make(chan struct{})
	defer func() {
		close(done)
		conn.Close()
	}()

	reads := make(chan readResult)
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			select {
			case reads <- readResult{data: data, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	quiet := time.NewTimer(c.quietPeriod)
	defer quiet.Stop()

	for {
		c.state = StateAwaitingMessage
		select {
		case <-ctx.Done():
			return false, nil

		case res := <-reads:
			if res.err != nil {
				return false, res.err
			}
			if err := handle(ctx, res.data); err != nil {
				return true, err
			}
			if !quiet.Stop() {
				select {
				case <-quiet.C:
				default:
				}
			}
			quiet.Reset(c.quietPeriod)

		case <-quiet.C:
			// Quiet period expired: nudge the stream by re-sending the
			// subscription instead of treating silence as failure.
			c.state = StateSubscribed
			logging.Debug().Msg("feed quiet, re-sending subscription")
			if err := c.sendSubscription(conn); err != nil {
				return false, err
			}
			quiet.Reset(c.quietPeriod)
		}
	}
}
