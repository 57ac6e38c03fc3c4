package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"nhooyr.io/websocket"

	"github.com/oshokin/game-controller/internal/codec"
	"github.com/oshokin/game-controller/internal/domain/action"
	"github.com/oshokin/game-controller/internal/logger"
)

// Message types sent to browsers.
const (
	MessageState    = "state"
	MessageRejected = "rejected"
	MessageError    = "error"
)

const (
	pingInterval = 15 * time.Second
	writeTimeout = 5 * time.Second
	sendBuffer   = 64
)

// Service is the part of the game service the monitor depends on.
type Service interface {
	ApplyAction(ctx context.Context, actor string, a action.Action) (action.View, error)
	View(ctx context.Context) action.View
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected monitors and fans game updates out to them.
type Hub struct {
	service      Service
	allowOrigins map[string]bool

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub creates a hub applying browser actions through service. Requests
// with an Origin header outside allow are refused.
func NewHub(service Service, allow []string) *Hub {
	origins := make(map[string]bool, len(allow))

	for _, origin := range allow {
		if origin != "" {
			origins[origin] = true
		}
	}

	return &Hub{
		service:      service,
		allowOrigins: origins,
		clients:      make(map[*client]struct{}),
	}
}

// Broadcast queues view for every connected monitor. Slow monitors miss
// updates instead of blocking the caller.
func (h *Hub) Broadcast(view action.View) {
	data, err := encode(MessageState, codec.EncodeView(view))
	if err != nil {
		logger.ErrorKV(context.Background(), "Failed to encode monitor update", "error", err)

		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// Clients returns the number of connected monitors.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Close disconnects every monitor.
func (h *Hub) Close() {
	h.mu.RLock()

	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c.conn)
	}

	h.mu.RUnlock()

	var wg sync.WaitGroup

	for _, conn := range conns {
		wg.Go(func() {
			_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		})
	}

	wg.Wait()
}

// ServeHTTP upgrades the request and serves one monitor until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin != "" && !h.allowOrigins[origin] {
		http.Error(w, "forbidden origin", http.StatusForbidden)

		return
	}

	//nolint:exhaustruct // Origin is checked above.
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}

	ctx := logger.WithKV(r.Context(), "monitor", r.RemoteAddr)
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	logger.InfoKV(ctx, "Monitor connected", "client", c.id)

	go h.write(ctx, c)

	h.sendMessage(ctx, c, MessageState, codec.EncodeView(h.service.View(ctx)))
	h.read(ctx, c, "monitor@"+r.RemoteAddr)

	h.mu.Lock()
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()

	logger.InfoKV(ctx, "Monitor disconnected", "client", c.id)
}

func (h *Hub) write(ctx context.Context, c *client) {
	ping := time.NewTicker(pingInterval)

	defer func() {
		ping.Stop()
		_ = c.conn.Close(websocket.StatusNormalClosure, "bye")
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Write(writeCtx, websocket.MessageText, msg)

			cancel()

			if err != nil {
				return
			}
		case <-ping.C:
			_ = c.conn.Ping(ctx)
		}
	}
}

func (h *Hub) read(ctx context.Context, c *client, actor string) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}

		var record structpb.Struct
		if err = protojson.Unmarshal(data, &record); err != nil {
			h.sendReason(ctx, c, MessageError, "", "malformed message")

			continue
		}

		a, err := codec.DecodeAction(&record)
		if err != nil {
			h.sendReason(ctx, c, MessageError, "", err.Error())

			continue
		}

		// Accepted actions reach every monitor through Broadcast.
		_, err = h.service.ApplyAction(ctx, actor, a)

		switch {
		case err == nil:
		case errors.Is(err, action.ErrIllegalAction):
			h.sendReason(ctx, c, MessageRejected, string(a.Type()), err.Error())
		default:
			logger.ErrorKV(ctx, "Monitor action failed", "type", a.Type(), "error", err)
			h.sendReason(ctx, c, MessageError, string(a.Type()), "unable to apply action")
		}
	}
}

func (h *Hub) sendReason(ctx context.Context, c *client, typ, actionType, reason string) {
	h.sendMessage(ctx, c, typ, &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"type":   structpb.NewStringValue(actionType),
			"reason": structpb.NewStringValue(reason),
		},
	})
}

func (h *Hub) sendMessage(ctx context.Context, c *client, typ string, payload *structpb.Struct) {
	data, err := encode(typ, payload)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to encode monitor message", "error", err)

		return
	}

	select {
	case c.send <- data:
	default:
	}
}

func encode(typ string, payload *structpb.Struct) ([]byte, error) {
	return protojson.Marshal(&structpb.Struct{
		Fields: map[string]*structpb.Value{
			"t": structpb.NewStringValue(typ),
			"m": structpb.NewStructValue(payload),
		},
	})
}
