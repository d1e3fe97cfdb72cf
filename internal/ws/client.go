package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/domain"
)

const (
	writeTimeout     = 10 * time.Second
	wsReadLimit      = 4096
	clientSendBuffer = 256

	// Connections re-validate their API key periodically and are torn down
	// after a hard lifetime cap regardless.
	maxConnLifetime      = 4 * time.Hour
	tokenRefreshInterval = 15 * time.Minute
	tokenRefreshTimeout  = 10 * time.Second

	pingInterval   = 30 * time.Second
	pingTimeout    = 10 * time.Second
	maxMissedPongs = 2
)

// Client is one WebSocket connection registered with the Hub.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	log         *logrus.Logger
	PartyID     string
	apiKey      string
	validator   domain.PartyLookup
	closeOnce   sync.Once
	connectedAt time.Time
}

// NewClient wraps conn for hub registration. validator may be nil, in which
// case periodic key re-validation is skipped.
func NewClient(hub *Hub, conn *websocket.Conn, validator domain.PartyLookup, partyID, apiKey string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, clientSendBuffer),
		log:         hub.log,
		PartyID:     partyID,
		apiKey:      apiKey,
		validator:   validator,
		connectedAt: time.Now(),
	}
}

// closeSend closes the send channel exactly once.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// ReadPump consumes inbound frames until the connection drops. The only
// message clients send is a subscribe request naming the last event they saw.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown
	}()

	c.conn.SetReadLimit(wsReadLimit)

	for {
		_, frame, err := c.conn.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				c.log.WithField("status", status).Debug("client disconnected")
			}

			return
		}

		c.handleSubscribe(frame)
	}
}

func (c *Client) handleSubscribe(frame []byte) {
	var msg SubscribeMsg
	if err := json.Unmarshal(frame, &msg); err != nil || msg.Type != "subscribe" {
		return
	}

	if c.hub.ReplayEvents(c, msg.LastEventID) {
		return
	}

	// The requested events have already rotated out of the replay buffer;
	// tell the client to rebuild its state from the REST API.
	reset, err := json.Marshal(ResetMsg{
		Type:   "reset",
		Reason: "requested events no longer available, perform full refresh",
	})
	if err != nil {
		return
	}

	select {
	case c.send <- reset:
	default:
	}
}

// WritePump drains the send channel onto the wire. It also owns the three
// connection health timers: ping/pong, API key re-validation, and the hard
// lifetime cap.
func (c *Client) WritePump(ctx context.Context) {
	defer c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown

	lifetime := time.NewTimer(time.Until(c.connectedAt.Add(maxConnLifetime)))
	defer lifetime.Stop()

	refresh := time.NewTicker(tokenRefreshInterval)
	defer refresh.Stop()

	pings := time.NewTicker(pingInterval)
	defer pings.Stop()

	missedPongs := 0

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			if err := c.write(ctx, msg); err != nil {
				c.log.WithError(err).Debug("write failed")

				return
			}
		case <-pings.C:
			if c.ping(ctx) {
				missedPongs = 0

				continue
			}

			missedPongs++
			if missedPongs >= maxMissedPongs {
				c.log.Debug("closing: consecutive missed pongs")

				return
			}
		case <-refresh.C:
			if !c.revalidate(ctx) {
				c.conn.Close(websocket.StatusPolicyViolation, "authentication expired") //nolint:errcheck // best-effort

				return
			}
		case <-lifetime.C:
			c.log.Info("closing WebSocket: max connection lifetime exceeded")
			c.conn.Close(websocket.StatusNormalClosure, "max connection lifetime exceeded") //nolint:errcheck // best-effort

			return
		}
	}
}

func (c *Client) write(ctx context.Context, msg []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	return c.conn.Write(writeCtx, websocket.MessageText, msg)
}

func (c *Client) ping(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return c.conn.Ping(pingCtx) == nil
}

// revalidate confirms the API key still resolves to a party.
func (c *Client) revalidate(ctx context.Context) bool {
	if c.validator == nil {
		return true
	}

	refreshCtx, cancel := context.WithTimeout(ctx, tokenRefreshTimeout)
	defer cancel()

	if _, err := c.validator.GetPartyByAPIKey(refreshCtx, c.apiKey); err != nil {
		c.log.Info("closing WebSocket: key re-validation failed")

		return false
	}

	return true
}
