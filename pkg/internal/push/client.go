package push

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"github.com/socialconnect/feedsync/pkg/internal/store"
)

// Client keeps one socket to the backend's push channel per session and
// funnels every inbound event through the feed store's public API. Transport
// and state never touch otherwise.
type Client struct {
	endpoint string
	merger   *store.Merger
	validate *validator.Validate

	mu     sync.Mutex
	conn   *websocket.Conn
	closed chan struct{}
	once   sync.Once
}

func NewClient(endpoint string, merger *store.Merger) *Client {
	return &Client{
		endpoint: endpoint,
		merger:   merger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		closed:   make(chan struct{}),
	}
}

// Connect dials the push channel and starts reading. It keeps the channel
// alive with backoff reconnects until Close is called.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("unable to connect to push channel: %v", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	log.Info().Str("endpoint", c.endpoint).Msg("Connected to the push channel.")
	go c.run(conn)
	return nil
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.closed)
	})

	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.mu.Unlock()
}

func (c *Client) run(conn *websocket.Conn) {
	for {
		c.readPump(conn)

		select {
		case <-c.closed:
			return
		default:
		}

		backoff := time.Second
		for {
			select {
			case <-c.closed:
				return
			case <-time.After(backoff):
			}

			next, _, err := websocket.DefaultDialer.Dial(c.endpoint, nil)
			if err == nil {
				c.mu.Lock()
				c.conn = next
				c.mu.Unlock()
				conn = next
				log.Info().Str("endpoint", c.endpoint).Msg("Reconnected to the push channel.")
				break
			}

			log.Warn().Err(err).Dur("backoff", backoff).Msg("Unable to reconnect to the push channel...")
			if backoff < 30*time.Second {
				backoff *= 2
			}
		}
	}
}

func (c *Client) readPump(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.closed:
			default:
				log.Warn().Err(err).Msg("Push channel read failed...")
			}
			return
		}
		c.dispatch(raw)
	}
}

// dispatch decodes one frame and hands it to the merger. Frames that fail to
// decode or validate are dropped with a log; a broken event must not take the
// reader down.
func (c *Client) dispatch(raw []byte) {
	var envelope EventEnvelope
	if err := jsoniter.Unmarshal(raw, &envelope); err != nil {
		log.Warn().Err(err).Msg("Dropped a malformed push frame...")
		return
	}

	switch envelope.Event {
	case EventLikeUpdate:
		var payload LikeUpdatePayload
		if !c.decode(envelope.Event, envelope.Payload, &payload) {
			return
		}
		c.merger.ApplyLikeUpdate(payload.PostID, payload.LikedBy, payload.UnlikedBy)
	case EventCommentUpdate:
		var payload CommentUpdatePayload
		if !c.decode(envelope.Event, envelope.Payload, &payload) {
			return
		}
		c.merger.ApplyCommentUpdate(payload.PostID, payload.Comment)
	case EventPostCreated:
		var payload PostCreatedPayload
		if !c.decode(envelope.Event, envelope.Payload, &payload) {
			return
		}
		c.merger.ApplyPostCreated(payload.Post)
	case EventPostDeleted:
		var payload PostDeletedPayload
		if !c.decode(envelope.Event, envelope.Payload, &payload) {
			return
		}
		c.merger.ApplyPostDeleted(payload.PostID)
	default:
		log.Debug().Str("event", envelope.Event).Msg("Ignored an unrecognized push event...")
	}
}

func (c *Client) decode(event string, raw []byte, out any) bool {
	if err := jsoniter.Unmarshal(raw, out); err != nil {
		log.Warn().Err(err).Str("event", event).Msg("Dropped a push event with a malformed payload...")
		return false
	}
	if err := c.validate.Struct(out); err != nil {
		log.Warn().Err(err).Str("event", event).Msg("Dropped a push event with an invalid payload...")
		return false
	}
	return true
}
