package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	readLimit = 64 * 1024
	pongWait  = 60 * time.Second
)

// Connection is one live map client.
type Connection struct {
	id           string
	ws           *websocket.Conn
	session      *Session
	send         chan []byte
	done         chan struct{}
	closeOnce    sync.Once
	logger       *zap.Logger
	writeTimeout time.Duration
	onClose      func(id string)
}

// NewConnection wraps an upgraded socket.
func NewConnection(id string, ws *websocket.Conn, session *Session, writeTimeout time.Duration, logger *zap.Logger, onClose func(string)) *Connection {
	return &Connection{
		id:           id,
		ws:           ws,
		session:      session,
		send:         make(chan []byte, 16),
		done:         make(chan struct{}),
		logger:       logger,
		writeTimeout: writeTimeout,
		onClose:      onClose,
	}
}

// ID returns the connection identifier.
func (c *Connection) ID() string {
	return c.id
}

// Start launches the write loop and blocks in the read loop.
func (c *Connection) Start(ctx context.Context) {
	go c.writePump(ctx)
	c.readPump(ctx)
}

func (c *Connection) readPump(ctx context.Context) {
	defer c.cleanup()
	c.ws.SetReadLimit(readLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, message, err := c.ws.ReadMessage()
		if err != nil {
			c.logger.Info("map client disconnected", zap.String("conn_id", c.id), zap.Error(err))
			return
		}

		response, err := c.session.Handle(message)
		if err != nil {
			c.logger.Warn("failed to handle map command", zap.String("conn_id", c.id), zap.Error(err))
		}
		if response != nil {
			c.Send(response)
		}
	}
}

func (c *Connection) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case msg := <-c.send:
			if err := c.write(msg); err != nil {
				c.logger.Warn("map client write failed", zap.String("conn_id", c.id), zap.Error(err))
				return
			}
		}
	}
}

// Refresh re-renders the client's current filter and queues the frame.
func (c *Connection) Refresh() {
	frame, err := c.session.Refresh()
	if err != nil {
		c.logger.Warn("failed to render map frame", zap.String("conn_id", c.id), zap.Error(err))
		return
	}
	c.Send(frame)
}

// Send enqueues a message for writing; it never blocks.
func (c *Connection) Send(msg []byte) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- msg:
	default:
		c.logger.Warn("dropping outgoing frame, buffer full", zap.String("conn_id", c.id))
	}
}

// Ping sends a control ping; safe to call alongside the write loop.
func (c *Connection) Ping() error {
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout))
}

func (c *Connection) write(data []byte) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Close terminates the connection.
func (c *Connection) Close() {
	c.cleanup()
}

func (c *Connection) cleanup() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
		if c.onClose != nil {
			c.onClose(c.id)
		}
	})
}
