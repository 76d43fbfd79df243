package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// WSClientConfig configures WebSocket client behavior.
type WSClientConfig struct {
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// SubscribeTimeout bounds the wait for a subscription confirmation.
	SubscribeTimeout time.Duration
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSClientConfig {
	return WSClientConfig{
		PingInterval:     30 * time.Second,
		ReadTimeout:      90 * time.Second,
		WriteTimeout:     10 * time.Second,
		SubscribeTimeout: 30 * time.Second,
	}
}

// signatureResult carries the outcome of a one-shot signature subscription.
type signatureResult struct {
	ok  bool
	err error
}

// pendingSub tracks a subscribe in flight. The read loop registers result
// under the subscription ID before delivering the ID on confirm, so a
// notification arriving right behind the ack cannot be dropped.
type pendingSub struct {
	confirm chan int64
	result  chan signatureResult
}

// WSSignatureWaiter implements SignatureWaiter using signatureSubscribe
// over gorilla/websocket. Signature subscriptions are one-shot: the node
// sends a single notification and cancels the subscription itself, so a
// dropped connection simply fails the in-flight waits and callers fall
// back to status polling.
type WSSignatureWaiter struct {
	endpoint string
	config   WSClientConfig

	conn      *websocket.Conn
	connMu    sync.Mutex
	closed    atomic.Bool
	requestID atomic.Uint64

	// readDone is closed when readLoop exits. A waiter that observes it
	// fast-fails so callers fall back to status polling immediately
	// instead of waiting out the subscribe timeout on a dead socket.
	readDone chan struct{}

	// waiters maps subscription ID to the channel the waiter blocks on.
	waiters   map[int64]chan signatureResult
	waitersMu sync.Mutex

	// pendingSubs maps request ID to the subscribe awaiting its ack.
	pendingSubs   map[uint64]*pendingSub
	pendingSubsMu sync.Mutex

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWSSignatureWaiter connects to the WebSocket endpoint and starts the
// read and ping loops.
func NewWSSignatureWaiter(ctx context.Context, endpoint string, config *WSClientConfig) (*WSSignatureWaiter, error) {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}

	c := &WSSignatureWaiter{
		endpoint:    endpoint,
		config:      cfg,
		waiters:     make(map[int64]chan signatureResult),
		pendingSubs: make(map[uint64]*pendingSub),
		done:        make(chan struct{}),
		readDone:    make(chan struct{}),
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}
	c.conn = conn

	// Signature subscriptions are one-shot, so the socket is silent between
	// waits; only the ping/pong exchange keeps the read deadline moving.
	conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	c.wg.Add(1)
	go c.readLoop()

	c.wg.Add(1)
	go c.pingLoop()

	return c, nil
}

// Compile-time interface check.
var _ SignatureWaiter = (*WSSignatureWaiter)(nil)

// WaitForSignature subscribes to the signature and blocks until the node
// reports settlement at the requested commitment.
func (c *WSSignatureWaiter) WaitForSignature(ctx context.Context, signature string, commitment Commitment) (bool, error) {
	if c.closed.Load() {
		return false, fmt.Errorf("client closed")
	}
	select {
	case <-c.readDone:
		return false, fmt.Errorf("connection lost")
	default:
	}

	reqID := c.requestID.Add(1)
	req := wsRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  "signatureSubscribe",
		Params: []interface{}{
			signature,
			map[string]string{"commitment": string(commitment)},
		},
	}

	sub := &pendingSub{
		confirm: make(chan int64, 1),
		result:  make(chan signatureResult, 1),
	}
	c.pendingSubsMu.Lock()
	c.pendingSubs[reqID] = sub
	c.pendingSubsMu.Unlock()

	c.connMu.Lock()
	if c.conn == nil {
		c.connMu.Unlock()
		c.dropPending(reqID)
		return false, fmt.Errorf("not connected")
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	err := c.conn.WriteJSON(req)
	c.connMu.Unlock()

	if err != nil {
		c.dropPending(reqID)
		return false, fmt.Errorf("write subscribe: %w", err)
	}

	var subID int64
	select {
	case subID = <-sub.confirm:
	case <-time.After(c.config.SubscribeTimeout):
		c.dropPending(reqID)
		return false, fmt.Errorf("subscription timeout after %v", c.config.SubscribeTimeout)
	case <-c.readDone:
		c.dropPending(reqID)
		return false, fmt.Errorf("connection lost")
	case <-c.done:
		return false, fmt.Errorf("client closed")
	case <-ctx.Done():
		c.dropPending(reqID)
		return false, ctx.Err()
	}

	defer func() {
		c.waitersMu.Lock()
		delete(c.waiters, subID)
		c.waitersMu.Unlock()
	}()

	select {
	case res := <-sub.result:
		return res.ok, res.err
	case <-c.readDone:
		return false, fmt.Errorf("connection lost")
	case <-c.done:
		return false, fmt.Errorf("client closed")
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (c *WSSignatureWaiter) dropPending(reqID uint64) {
	c.pendingSubsMu.Lock()
	delete(c.pendingSubs, reqID)
	c.pendingSubsMu.Unlock()
}

// Close closes the WebSocket connection and fails all in-flight waits.
func (c *WSSignatureWaiter) Close() error {
	if c.closed.Swap(true) {
		return nil // Already closed
	}

	close(c.done)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
	c.connMu.Unlock()

	c.pendingSubsMu.Lock()
	for id, sub := range c.pendingSubs {
		select {
		case sub.result <- signatureResult{err: fmt.Errorf("client closed")}:
		default:
		}
		delete(c.pendingSubs, id)
	}
	c.pendingSubsMu.Unlock()

	c.wg.Wait()
	return nil
}

// readLoop reads messages and dispatches to pending waiters.
func (c *WSSignatureWaiter) readLoop() {
	defer c.wg.Done()
	defer close(c.readDone)

	for !c.closed.Load() {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			return
		}

		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}
			c.failAllWaiters(fmt.Errorf("websocket read: %w", err))
			return
		}

		c.handleMessage(message)
	}
}

// failAllWaiters delivers the error to every in-flight wait.
func (c *WSSignatureWaiter) failAllWaiters(err error) {
	c.waitersMu.Lock()
	defer c.waitersMu.Unlock()
	for id, ch := range c.waiters {
		select {
		case ch <- signatureResult{err: err}:
		default:
		}
		delete(c.waiters, id)
	}
}

// handleMessage processes an incoming WebSocket message.
func (c *WSSignatureWaiter) handleMessage(message []byte) {
	// Subscription confirmation first
	var resp wsSubscribeResponse
	if err := json.Unmarshal(message, &resp); err == nil && resp.Result > 0 {
		c.pendingSubsMu.Lock()
		sub, ok := c.pendingSubs[resp.ID]
		if ok {
			delete(c.pendingSubs, resp.ID)
		}
		c.pendingSubsMu.Unlock()

		if !ok {
			return
		}

		// Register the result channel before handing back the subscription
		// ID so the notification cannot race past the waiter.
		c.waitersMu.Lock()
		c.waiters[resp.Result] = sub.result
		c.waitersMu.Unlock()

		select {
		case sub.confirm <- resp.Result:
		default:
		}
		return
	}

	// Signature notification
	var notif wsNotification
	if err := json.Unmarshal(message, &notif); err == nil && notif.Method == "signatureNotification" {
		c.handleSignatureNotification(&notif)
	}
}

// handleSignatureNotification resolves the waiter for the subscription.
func (c *WSSignatureWaiter) handleSignatureNotification(notif *wsNotification) {
	if notif.Params == nil {
		return
	}

	c.waitersMu.Lock()
	ch, ok := c.waiters[notif.Params.Subscription]
	if ok {
		delete(c.waiters, notif.Params.Subscription)
	}
	c.waitersMu.Unlock()

	if !ok {
		return
	}

	res := signatureResult{ok: notif.Params.Result.Value.Err == nil}
	select {
	case ch <- res:
	default:
	}
}

// pingLoop sends periodic ping frames to keep connection alive.
func (c *WSSignatureWaiter) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			if c.conn != nil {
				c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
				// Reader notices a dead connection on its own.
				c.conn.WriteMessage(websocket.PingMessage, nil)
			}
			c.connMu.Unlock()
		}
	}
}

// WebSocket message types

type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type wsSubscribeResponse struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Result  int64  `json:"result"` // subscription ID
}

type wsNotification struct {
	JSONRPC string                `json:"jsonrpc"`
	Method  string                `json:"method"`
	Params  *wsNotificationParams `json:"params"`
}

type wsNotificationParams struct {
	Subscription int64                `json:"subscription"`
	Result       wsNotificationResult `json:"result"`
}

type wsNotificationResult struct {
	Context *wsContext       `json:"context"`
	Value   wsSignatureValue `json:"value"`
}

type wsContext struct {
	Slot uint64 `json:"slot"`
}

type wsSignatureValue struct {
	Err interface{} `json:"err"`
}
