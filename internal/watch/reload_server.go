package watch

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	cerrors "github.com/sylvre-lang/sylvre/internal/compiler/errors"
)

// ReloadPath is where browsers connect for build notifications
const ReloadPath = "/__sylvre/ws"

// Message types pushed to browsers
const (
	MessageBuilding = "building"
	MessageSuccess  = "success"
	MessageError    = "error"
	MessageReload   = "reload"
)

// ReloadServer manages WebSocket connections for live reload
type ReloadServer struct {
	connections map[*websocket.Conn]bool
	broadcast   chan *ReloadMessage
	register    chan *websocket.Conn
	unregister  chan *websocket.Conn
	done        chan struct{}
	closeOnce   sync.Once
	mutex       sync.RWMutex
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// ReloadMessage is the JSON frame sent to browsers
type ReloadMessage struct {
	Type      string       `json:"type"`
	Timestamp int64        `json:"timestamp"`
	Files     []string     `json:"files,omitempty"`
	Errors    []*ErrorInfo `json:"errors,omitempty"`
	// Duration is in milliseconds
	Duration float64 `json:"duration,omitempty"`
}

// ErrorInfo describes one compiler error for the browser overlay
type ErrorInfo struct {
	Message  string `json:"message"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Code     string `json:"code,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// NewErrorInfo converts a compiler error
func NewErrorInfo(e *cerrors.CompilerError) *ErrorInfo {
	return &ErrorInfo{
		Message:  e.Message,
		File:     e.File,
		Line:     e.Location.Line,
		Column:   e.Location.Column,
		Code:     string(e.Code),
		Symbol:   e.Actual,
		Severity: string(e.Severity),
	}
}

// NewReloadServer creates a reload server accepting same-origin and
// localhost browsers
func NewReloadServer(logger *zap.Logger) *ReloadServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	rs := &ReloadServer{
		connections: make(map[*websocket.Conn]bool),
		broadcast:   make(chan *ReloadMessage, 256),
		register:    make(chan *websocket.Conn),
		unregister:  make(chan *websocket.Conn),
		done:        make(chan struct{}),
		logger:      logger,
		upgrader: websocket.Upgrader{
			CheckOrigin:     localOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	go rs.run()

	return rs
}

func localOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, prefix := range []string{"http://localhost", "https://localhost", "http://127.0.0.1", "https://127.0.0.1"} {
		if strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return false
}

func (rs *ReloadServer) run() {
	for {
		select {
		case <-rs.done:
			return

		case conn := <-rs.register:
			rs.mutex.Lock()
			rs.connections[conn] = true
			count := len(rs.connections)
			rs.mutex.Unlock()
			rs.logger.Debug("reload client connected", zap.Int("clients", count))

		case conn := <-rs.unregister:
			rs.mutex.Lock()
			if _, ok := rs.connections[conn]; ok {
				delete(rs.connections, conn)
				conn.Close()
			}
			count := len(rs.connections)
			rs.mutex.Unlock()
			rs.logger.Debug("reload client disconnected", zap.Int("clients", count))

		case message := <-rs.broadcast:
			rs.sendToAll(message)
		}
	}
}

func (rs *ReloadServer) sendToAll(message *ReloadMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		rs.logger.Error("failed to marshal reload message", zap.Error(err))
		return
	}

	rs.mutex.RLock()
	var failed []*websocket.Conn
	for conn := range rs.connections {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			rs.logger.Debug("failed to send reload message", zap.Error(err))
			failed = append(failed, conn)
		}
	}
	rs.mutex.RUnlock()

	if len(failed) > 0 {
		rs.mutex.Lock()
		for _, conn := range failed {
			if _, ok := rs.connections[conn]; ok {
				conn.Close()
				delete(rs.connections, conn)
			}
		}
		rs.mutex.Unlock()
	}
}

// HandleWebSocket upgrades HTTP connections to WebSocket
func (rs *ReloadServer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := rs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		rs.logger.Warn("failed to upgrade reload connection", zap.Error(err))
		return
	}

	select {
	case rs.register <- conn:
		go rs.readMessages(conn)
	case <-rs.done:
		conn.Close()
	}
}

// readMessages drains the client until it disconnects
func (rs *ReloadServer) readMessages(conn *websocket.Conn) {
	defer func() {
		select {
		case rs.unregister <- conn:
		case <-rs.done:
		}
	}()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				rs.logger.Debug("reload connection closed", zap.Error(err))
			}
			return
		}
	}
}

// send queues message unless the server is closed or the queue is full
func (rs *ReloadServer) send(message *ReloadMessage) {
	message.Timestamp = time.Now().Unix()
	select {
	case <-rs.done:
	case rs.broadcast <- message:
	default:
		rs.logger.Warn("reload queue full, dropping message", zap.String("type", message.Type))
	}
}

// NotifyBuilding announces that files are being transpiled
func (rs *ReloadServer) NotifyBuilding(files []string) {
	rs.send(&ReloadMessage{Type: MessageBuilding, Files: files})
}

// NotifySuccess announces a clean build
func (rs *ReloadServer) NotifySuccess(duration time.Duration) {
	rs.send(&ReloadMessage{Type: MessageSuccess, Duration: float64(duration.Milliseconds())})
}

// NotifyReload asks browsers to reload after files were written
func (rs *ReloadServer) NotifyReload(files []string) {
	rs.send(&ReloadMessage{Type: MessageReload, Files: files})
}

// NotifyErrors sends the compiler errors of a failed build
func (rs *ReloadServer) NotifyErrors(errors cerrors.ErrorList) {
	infos := make([]*ErrorInfo, 0, len(errors))
	for _, e := range errors {
		infos = append(infos, NewErrorInfo(e))
	}
	rs.send(&ReloadMessage{Type: MessageError, Errors: infos})
}

// ConnectionCount returns the number of active connections
func (rs *ReloadServer) ConnectionCount() int {
	rs.mutex.RLock()
	defer rs.mutex.RUnlock()
	return len(rs.connections)
}

// Close closes all connections and stops the server
func (rs *ReloadServer) Close() {
	rs.closeOnce.Do(func() {
		close(rs.done)

		rs.mutex.Lock()
		defer rs.mutex.Unlock()
		for conn := range rs.connections {
			conn.Close()
		}
		rs.connections = make(map[*websocket.Conn]bool)
	})
}
