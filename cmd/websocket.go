package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"engmarket/internal/handlers"
)

const (
	readLimit     = 64 << 10
	readDeadline  = 120 * time.Second // extended by every pong and frame
	writeDeadline = 5 * time.Second
	pingInterval  = 15 * time.Second
	queryTimeout  = 3 * time.Second
)

type listingClient struct {
	ID        string
	SessionID string
	Socket    *websocket.Conn
}

type unreg struct {
	id   string
	conn *websocket.Conn
}

// WebSocketManager tracks the open live listing sockets. All access to
// clients happens on the Run goroutine.
type WebSocketManager struct {
	clients    map[string]*websocket.Conn
	register   chan listingClient
	unregister chan unreg
	count      chan chan int
	done       chan struct{}
	stopped    chan struct{}
	closeOnce  sync.Once
	log        *zap.Logger
}

func NewWebSocketManager(logger *zap.Logger) *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]*websocket.Conn),
		register:   make(chan listingClient),
		unregister: make(chan unreg),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		log:        logger,
	}
}

func (ws *WebSocketManager) Run() {
	defer close(ws.stopped)
	for {
		select {
		case client := <-ws.register:
			ws.clients[client.ID] = client.Socket
			ws.log.Debug("listing socket registered", zap.String("conn", client.ID), zap.String("session", client.SessionID))

		case u := <-ws.unregister:
			if cur, ok := ws.clients[u.id]; ok && cur == u.conn {
				_ = cur.Close()
				delete(ws.clients, u.id)
				ws.log.Debug("listing socket unregistered", zap.String("conn", u.id))
			}

		case reply := <-ws.count:
			reply <- len(ws.clients)

		case <-ws.done:
			for id, conn := range ws.clients {
				_ = writeClose(conn, websocket.CloseGoingAway, "server shutting down")
				_ = conn.Close()
				delete(ws.clients, id)
			}
			return
		}
	}
}

// Count returns the number of open sockets.
func (ws *WebSocketManager) Count() int {
	reply := make(chan int)
	select {
	case ws.count <- reply:
		return <-reply
	case <-ws.stopped:
		return 0
	}
}

// Close shuts every socket and stops Run.
func (ws *WebSocketManager) Close() {
	ws.closeOnce.Do(func() { close(ws.done) })
	<-ws.stopped
}

func (ws *WebSocketManager) add(c listingClient) bool {
	select {
	case ws.register <- c:
		return true
	case <-ws.stopped:
		return false
	}
}

func (ws *WebSocketManager) remove(id string, conn *websocket.Conn) {
	select {
	case ws.unregister <- unreg{id: id, conn: conn}:
	case <-ws.stopped:
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	ReadBufferSize:    1024,
	WriteBufferSize:   4096,
	EnableCompression: true,
}

type socketError struct {
	Error string `json:"error"`
}

// ListingSocketHandler serves the live listing. Every text frame is a
// listing query; each one is answered with the matching listing result
// for the caller's session.
func (app *application) ListingSocketHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := handlers.SessionID(r)
	conn, err := upgrader.Upgrade(w, r, sessionHandshakeHeader(w.Header()))
	if err != nil {
		app.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	client := listingClient{ID: uuid.NewString(), SessionID: sessionID, Socket: conn}
	if !app.wsManager.add(client) {
		_ = writeClose(conn, websocket.CloseGoingAway, "server shutting down")
		_ = conn.Close()
		return
	}

	stop := make(chan struct{})
	go pingLoop(conn, stop)
	go app.serveListing(client, stop)
}

// sessionHandshakeHeader carries a freshly issued session into the
// upgrade response. Upgrade writes its own handshake and ignores headers
// already set on the ResponseWriter.
func sessionHandshakeHeader(h http.Header) http.Header {
	out := http.Header{}
	if v := h.Get(sessionHeader); v != "" {
		out.Set(sessionHeader, v)
	}
	for _, c := range h.Values("Set-Cookie") {
		out.Add("Set-Cookie", c)
	}
	return out
}

func pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline)); err != nil {
				return
			}
		}
	}
}

func (app *application) serveListing(c listingClient, stop chan struct{}) {
	defer func() {
		close(stop)
		app.wsManager.remove(c.ID, c.Socket)
	}()

	for {
		_, frame, err := c.Socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				app.logger.Debug("listing socket read", zap.String("conn", c.ID), zap.Error(err))
			}
			return
		}
		c.Socket.SetReadDeadline(time.Now().Add(readDeadline))

		reply := app.answerListing(c.SessionID, frame)
		c.Socket.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := c.Socket.WriteJSON(reply); err != nil {
			app.logger.Debug("listing socket write", zap.String("conn", c.ID), zap.Error(err))
			return
		}
	}
}

// answerListing decodes one query frame over the listing defaults and
// runs it. Fields absent from the frame keep their default values. A
// panic while answering becomes an error frame; socket goroutines sit
// outside recoverPanic.
func (app *application) answerListing(sessionID string, frame []byte) (reply any) {
	defer func() {
		if err := recover(); err != nil {
			app.logger.Error("live listing panic", zap.Any("panic", err), zap.Stack("stack"))
			reply = socketError{Error: "listing failed"}
		}
	}()

	q := app.listingDefault
	dec := json.NewDecoder(bytes.NewReader(frame))
	if err := dec.Decode(&q); err != nil {
		return socketError{Error: "invalid listing query"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	result, err := app.listingService.List(ctx, sessionID, q)
	if err != nil {
		app.logger.Error("live listing", zap.Error(err))
		return socketError{Error: "listing failed"}
	}
	return result
}

func writeClose(conn *websocket.Conn, code int, reason string) error {
	return conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(writeDeadline),
	)
}
