package ginserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"wanderstay/internal/app/debounce"
	"wanderstay/internal/app/dto"
	catalogapp "wanderstay/internal/app/handlers/catalog"
	"wanderstay/internal/app/queries"
)

const (
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
	wsWriteWait  = 10 * time.Second
)

// SuggestionStream serves type-ahead suggestions over a websocket. Each
// connection debounces its own input; a newer frame supersedes pending work.
type SuggestionStream struct {
	Queries  queries.Bus
	Debounce time.Duration
	Logger   *slog.Logger
	Upgrader websocket.Upgrader
}

type suggestionFrame struct {
	Query string `json:"query"`
}

type streamError struct {
	Error string `json:"error"`
}

// wsConn serializes writes; gorilla allows one concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) writeJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.write(v)
}

// writeCurrent drops v when ctx was cancelled by a newer frame. The check runs
// under the write lock, so a superseded task cannot write after its successor.
func (w *wsConn) writeCurrent(ctx context.Context, v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.write(v)
}

func (w *wsConn) write(v any) error {
	_ = w.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.conn.WriteJSON(v)
}

func (w *wsConn) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

func (s *SuggestionStream) Serve(c *gin.Context) {
	if s.Queries == nil {
		unavailable(c, "suggestions")
		return
	}
	upgrader := s.Upgrader
	if upgrader.CheckOrigin == nil {
		upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("websocket upgrade failed", "error", err)
		}
		return
	}
	ws := &wsConn{conn: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	debouncer := debounce.New(s.Debounce)
	defer func() {
		debouncer.Close()
		cancel()
		_ = conn.Close()
	}()

	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go s.pingLoop(ctx, ws)

	s.readLoop(ctx, ws, debouncer)
}

func (s *SuggestionStream) pingLoop(ctx context.Context, ws *wsConn) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ws.ping(); err != nil {
				return
			}
		}
	}
}

func (s *SuggestionStream) readLoop(ctx context.Context, ws *wsConn, debouncer *debounce.Debouncer) {
	for {
		_, raw, err := ws.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && s.Logger != nil {
				s.Logger.Debug("suggestion stream closed", "error", err)
			}
			return
		}
		var frame suggestionFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			debouncer.Cancel()
			_ = ws.writeJSON(streamError{Error: "invalid frame: expected {\"query\": \"...\"}"})
			continue
		}
		query := frame.Query
		debouncer.Trigger(ctx, func(taskCtx context.Context) {
			result, err := queries.Ask[catalogapp.SuggestQuery, dto.Suggestions](taskCtx, s.Queries, catalogapp.SuggestQuery{Query: query})
			if err != nil {
				_ = ws.writeCurrent(taskCtx, streamError{Error: err.Error()})
				return
			}
			_ = ws.writeCurrent(taskCtx, result)
		})
	}
}

var _ SuggestionHTTP = (*SuggestionStream)(nil)
