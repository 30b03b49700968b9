package blockchain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/websocket"

	"holdex/internal/errors"
	"holdex/internal/logger"
	"holdex/internal/types"
)

const (
	// Subscription configuration
	subscriptionLogBufferSize = 1000 // Buffer size for the log channel
	subscriptionErrBufferSize = 10   // Buffer size for the error channel

	// Backoff configuration
	subscriptionInitialBackoff = 1 * time.Second
	subscriptionMaxBackoff     = 60 * time.Second
	subscriptionBackoffFactor  = 1.5
)

// backoff tracks the reconnect delay for streaming subscriptions.
type backoff struct {
	current time.Duration
}

func newBackoff() *backoff {
	return &backoff{current: subscriptionInitialBackoff}
}

// next returns the delay to sleep before the coming reconnect attempt and
// advances the schedule.
func (b *backoff) next() time.Duration {
	delay := b.current
	b.current = time.Duration(float64(b.current) * subscriptionBackoffFactor)
	if b.current > subscriptionMaxBackoff {
		b.current = subscriptionMaxBackoff
	}
	return delay
}

// reset restores the initial delay after a healthy connection.
func (b *backoff) reset() {
	b.current = subscriptionInitialBackoff
}

// frameKind discriminates the JSON frames arriving on a log subscription.
type frameKind int

const (
	frameSubscriptionAck frameKind = iota
	frameLogEvent
	frameRPCError
)

// rpcErrorPayload is the error object of a JSON-RPC response frame.
type rpcErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcErrorPayload) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// wireLog is a log object as delivered by the streaming endpoint, with
// hex-encoded integer fields.
type wireLog struct {
	Address         string   `json:"address"`
	Topics          []string `json:"topics"`
	Data            string   `json:"data"`
	BlockNumber     string   `json:"blockNumber"`
	BlockHash       string   `json:"blockHash"`
	TransactionHash string   `json:"transactionHash"`
	LogIndex        string   `json:"logIndex"`
	Removed         bool     `json:"removed"`
}

// streamFrame is a parsed subscription frame.
type streamFrame struct {
	Kind           frameKind
	SubscriptionID string
	Log            *wireLog
	Err            *rpcErrorPayload
}

// wsEnvelope covers the three frame shapes the endpoint produces: the
// subscription acknowledgment, pushed log events, and error responses.
type wsEnvelope struct {
	ID     *int64           `json:"id"`
	Method string           `json:"method"`
	Result json.RawMessage  `json:"result"`
	Error  *rpcErrorPayload `json:"error"`
	Params *struct {
		Subscription string          `json:"subscription"`
		Result       json.RawMessage `json:"result"`
	} `json:"params"`
}

// parseStreamFrame classifies a raw frame before any field is consumed, so
// malformed frames fail in one place instead of panicking mid-handling.
// Callers decide how severe a failure is: during the handshake it is a
// protocol mismatch, after it a transport error.
func parseStreamFrame(raw []byte) (*streamFrame, error) {
	var envelope wsEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("frame is not valid JSON")
	}

	switch {
	case envelope.Error != nil:
		return &streamFrame{Kind: frameRPCError, Err: envelope.Error}, nil

	case envelope.Method == "eth_subscription" && envelope.Params != nil:
		var log wireLog
		if err := json.Unmarshal(envelope.Params.Result, &log); err != nil {
			return nil, fmt.Errorf("log event payload is malformed")
		}
		return &streamFrame{
			Kind:           frameLogEvent,
			SubscriptionID: envelope.Params.Subscription,
			Log:            &log,
		}, nil

	case envelope.ID != nil && len(envelope.Result) > 0:
		var subscriptionID string
		if err := json.Unmarshal(envelope.Result, &subscriptionID); err != nil {
			return nil, fmt.Errorf("acknowledgment result is not a subscription id")
		}
		return &streamFrame{Kind: frameSubscriptionAck, SubscriptionID: subscriptionID}, nil

	default:
		return nil, fmt.Errorf("frame matches no known shape")
	}
}

// decodeWireLog converts a hex-encoded wire log into a Log.
func (c *EVMClient) decodeWireLog(w *wireLog) (types.Log, error) {
	blockNumber, err := hexutil.DecodeUint64(w.BlockNumber)
	if err != nil {
		return types.Log{}, fmt.Errorf("log blockNumber is not hex: %s", w.BlockNumber)
	}

	logIndex, err := hexutil.DecodeUint64(w.LogIndex)
	if err != nil {
		return types.Log{}, fmt.Errorf("log logIndex is not hex: %s", w.LogIndex)
	}

	data, err := hexutil.Decode(w.Data)
	if err != nil {
		return types.Log{}, fmt.Errorf("log data is not hex")
	}

	return types.Log{
		ChainID:         c.chain.ID,
		BlockNumber:     blockNumber,
		BlockHash:       w.BlockHash,
		Address:         w.Address,
		Topics:          w.Topics,
		Data:            data,
		TransactionHash: w.TransactionHash,
		LogIndex:        uint(logIndex),
		Deleted:         w.Removed,
	}, nil
}

// subscribeRequest builds the eth_subscribe frame for a log subscription.
func (c *EVMClient) subscribeRequest(address string, topics []string) ([]byte, error) {
	params := map[string]any{}
	if address != "" {
		params["address"] = address
	}
	if len(topics) > 0 {
		params["topics"] = topics
	}

	request := map[string]any{
		"jsonrpc": "2.0",
		"id":      c.chain.ID,
		"method":  "eth_subscribe",
		"params":  []any{"logs", params},
	}
	return json.Marshal(request)
}

// SubscribeLogs implements Client.SubscribeLogs
func (c *EVMClient) SubscribeLogs(ctx context.Context, address string, topics []string) (<-chan types.Log, <-chan error, error) {
	if c.chain.WebsocketURL == "" {
		return nil, nil, errors.NewInvalidConfigError("websocket_url")
	}
	if address != "" && !types.IsHexAddress(address) {
		return nil, nil, errors.NewInvalidAddressError(address)
	}

	request, err := c.subscribeRequest(address, topics)
	if err != nil {
		return nil, nil, errors.NewRPCError(err)
	}

	logChan := make(chan types.Log, subscriptionLogBufferSize)
	errChan := make(chan error, subscriptionErrBufferSize)

	go func() {
		defer close(logChan)
		defer close(errChan)

		retry := newBackoff()
		for {
			if ctx.Err() != nil {
				return
			}

			fatal := c.runSubscription(ctx, retry, request, address, logChan, errChan)
			if fatal || ctx.Err() != nil {
				return
			}

			delay := retry.next()
			c.log.Warn("Log subscription lost, reconnecting",
				logger.String("address", address),
				logger.Duration("backoff", delay))

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}
	}()

	return logChan, errChan, nil
}

// runSubscription dials the streaming endpoint, performs the subscribe
// handshake and pumps log frames until the connection drops. It returns true
// when the failure is terminal and the subscription must not reconnect.
func (c *EVMClient) runSubscription(ctx context.Context, retry *backoff, request []byte, address string, logChan chan<- types.Log, errChan chan<- error) bool {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.chain.WebsocketURL, nil)
	if err != nil {
		c.reportError(errChan, errors.NewRPCError(err))
		return false
	}
	defer conn.Close()

	// Close the connection when the context is cancelled so the blocking
	// reader below unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	if err := conn.WriteMessage(websocket.TextMessage, request); err != nil {
		c.reportError(errChan, errors.NewRPCError(err))
		return false
	}

	// The acknowledgment must arrive before any log frame.
	_, raw, err := conn.ReadMessage()
	if err != nil {
		c.reportError(errChan, errors.NewRPCError(err))
		return false
	}

	ack, err := parseStreamFrame(raw)
	if err != nil {
		c.reportError(errChan, errors.NewProtocolMismatchError(err.Error()))
		return true
	}
	switch ack.Kind {
	case frameSubscriptionAck:
	case frameRPCError:
		c.reportError(errChan, errors.NewProtocolMismatchError("subscription refused: "+ack.Err.Error()))
		return true
	default:
		c.reportError(errChan, errors.NewProtocolMismatchError("expected subscription acknowledgment"))
		return true
	}

	retry.reset()
	c.log.Info("Subscribed to logs",
		logger.String("address", address),
		logger.String("subscription_id", ack.SubscriptionID),
		logger.String("chain", string(c.chain.Type)))

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return true
			}
			c.reportError(errChan, errors.NewRPCError(err))
			return false
		}

		// Past the handshake, a frame we cannot make sense of is treated
		// like any other transport fault: report it and reconnect.
		frame, err := parseStreamFrame(raw)
		if err != nil {
			c.reportError(errChan, errors.NewRPCError(err))
			return false
		}

		switch frame.Kind {
		case frameLogEvent:
			decoded, err := c.decodeWireLog(frame.Log)
			if err != nil {
				c.reportError(errChan, errors.NewRPCError(err))
				return false
			}
			select {
			case logChan <- decoded:
			case <-ctx.Done():
				return true
			}
		case frameRPCError:
			c.reportError(errChan, errors.NewRPCError(frame.Err))
		case frameSubscriptionAck:
			// A second acknowledgment is harmless; ignore it.
		}
	}
}

// reportError delivers err without blocking when the error channel is full.
func (c *EVMClient) reportError(errChan chan<- error, err error) {
	select {
	case errChan <- err:
	default:
	}
}
