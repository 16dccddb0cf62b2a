package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/observability"
)

const messageStreamSendBuffer = 32

// MessageConnectionOptions wraps metadata extracted during the HTTP upgrade.
type MessageConnectionOptions struct {
	UserID        string
	ThreadID      string
	CorrelationID string
	Context       context.Context
}

// MessageStreamService fans out direct messages to live websocket clients.
// Replicas stay in sync through redis pub/sub and NATS; each event carries
// the publishing node's id so a replica skips its own echoes.
type MessageStreamService interface {
	MessageBroadcaster
	ServeConnection(conn *websocket.Conn, opts MessageConnectionOptions)
	AttachSender(sender MessagingService)
	Start(ctx context.Context)
}

type messageStreamService struct {
	redis       *redis.Client
	redisStream string
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	hub         *messageHub
	nodeID      string

	mu     sync.RWMutex
	sender MessagingService
}

type messageHub struct {
	mu      sync.RWMutex
	threads map[string]map[*messageClient]struct{}
	log     zerolog.Logger
}

type messageClient struct {
	conn    *websocket.Conn
	send    chan dto.MessageResponse
	options MessageConnectionOptions
	service *messageStreamService
	closed  chan struct{}
	once    sync.Once
	baseCtx context.Context
}

type messageEvent struct {
	Source  string              `json:"source"`
	Message dto.MessageResponse `json:"message"`
	SentAt  time.Time           `json:"sent_at"`
}

// NewMessageStreamService creates the live message fan-out. Redis and NATS are
// optional; without them delivery stays node-local.
func NewMessageStreamService(redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) MessageStreamService {
	hub := &messageHub{
		threads: make(map[string]map[*messageClient]struct{}),
		log:     logger.With().Str("component", "message_hub").Logger(),
	}

	streamChannel := ""
	natsSubject := ""
	if channelBase != "" {
		streamChannel = channelBase + ":messages"
		natsSubject = strings.ReplaceAll(channelBase, ":", ".") + ".messages"
	}

	return &messageStreamService{
		redis:       redisClient,
		redisStream: streamChannel,
		nats:        natsConn,
		natsSubject: natsSubject,
		logger:      logger.With().Str("component", "message_stream").Logger(),
		hub:         hub,
		nodeID:      uuid.NewString(),
	}
}

// AttachSender wires the messaging service once both sides exist. The stream
// is constructed first so the messaging service can broadcast through it.
func (s *messageStreamService) AttachSender(sender MessagingService) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sender = sender
}

func (s *messageStreamService) Start(ctx context.Context) {
	if s.redis != nil && s.redisStream != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *messageStreamService) ServeConnection(conn *websocket.Conn, opts MessageConnectionOptions) {
	baseCtx := opts.Context
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	client := &messageClient{
		conn:    conn,
		send:    make(chan dto.MessageResponse, messageStreamSendBuffer),
		options: opts,
		service: s,
		closed:  make(chan struct{}),
		baseCtx: baseCtx,
	}

	s.hub.register(client)
	observability.MessageStreamClients().Inc()

	go client.writer()
	client.reader()
}

// Broadcast delivers to local subscribers and republishes for other replicas.
func (s *messageStreamService) Broadcast(ctx context.Context, message dto.MessageResponse) {
	s.hub.broadcast(message.ThreadID, message)
	if err := s.publish(ctx, message); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish message event")
	}
}

func (s *messageStreamService) publish(ctx context.Context, message dto.MessageResponse) error {
	event := messageEvent{
		Source:  s.nodeID,
		Message: message,
		SentAt:  time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if s.redis != nil && s.redisStream != "" {
		if err := s.redis.Publish(ctx, s.redisStream, payload).Err(); err != nil {
			return err
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (s *messageStreamService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisStream)
	defer func() {
		_ = pubsub.Close()
	}()
	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("message redis subscription closed")
			return
		}
		s.handleEvent([]byte(msg.Payload))
	}
}

func (s *messageStreamService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "alumlink-messages", func(msg *nats.Msg) {
		s.handleEvent(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats message subject")
		return
	}
	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain message nats subscription")
		}
	}()
}

func (s *messageStreamService) handleEvent(data []byte) {
	var event messageEvent
	if err := json.Unmarshal(data, &event); err != nil {
		s.logger.Warn().Err(err).Msg("invalid message event")
		return
	}

	if event.Source == s.nodeID {
		return
	}

	s.hub.broadcast(event.Message.ThreadID, event.Message)
}

func (s *messageStreamService) currentSender() MessagingService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sender
}

func (h *messageHub) register(client *messageClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	thread := client.options.ThreadID
	if _, exists := h.threads[thread]; !exists {
		h.threads[thread] = make(map[*messageClient]struct{})
	}
	h.threads[thread][client] = struct{}{}
	h.log.Debug().Str("thread_id", thread).Str("user_id", client.options.UserID).Msg("message client connected")
}

func (h *messageHub) unregister(client *messageClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	thread := client.options.ThreadID
	if clients, ok := h.threads[thread]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.threads, thread)
		}
	}
	h.log.Debug().Str("thread_id", thread).Str("user_id", client.options.UserID).Msg("message client disconnected")
}

func (h *messageHub) broadcast(threadID string, message dto.MessageResponse) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.threads[threadID] {
		select {
		case client.send <- message:
		default:
			h.log.Warn().Str("thread_id", threadID).Str("user_id", client.options.UserID).Msg("dropping message for slow client")
		}
	}
}

func (c *messageClient) reader() {
	defer c.close()

	connCtx := c.baseCtx
	if connCtx == nil {
		connCtx = context.Background()
	}

	for {
		var payload dto.MessageSendRequest
		if err := c.conn.ReadJSON(&payload); err != nil {
			c.service.logger.Debug().Err(err).Msg("message read loop ended")
			return
		}

		sender := c.service.currentSender()
		if sender == nil {
			c.service.logger.Warn().Msg("message received before sender wired")
			continue
		}

		if _, err := sender.SendMessage(connCtx, c.options.ThreadID, c.options.UserID, payload); err != nil {
			c.service.logger.Warn().Err(err).Msg("failed to process streamed message")
		}
	}
}

func (c *messageClient) writer() {
	defer c.close()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.service.logger.Debug().Err(err).Msg("message write loop terminated")
				return
			}
		case <-time.After(30 * time.Second):
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				c.service.logger.Debug().Err(err).Msg("message ping failed")
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *messageClient) close() {
	c.once.Do(func() {
		close(c.closed)
		c.service.hub.unregister(c)
		observability.MessageStreamClients().Dec()
		_ = c.conn.Close()
	})
}
