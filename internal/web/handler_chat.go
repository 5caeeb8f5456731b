package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/chat"
	"github.com/analiticosprojetos-netizen/lobianco-investimentos/internal/domain"
)

const chatWriteTimeout = 10 * time.Second

// clientFrame is sent by the chat widget.
type clientFrame struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

func (f clientFrame) event() (chat.Event, bool) {
	switch f.Type {
	case "open":
		return chat.Open{At: time.Now()}, true
	case "close":
		return chat.Close{}, true
	case "input":
		return chat.Input{Text: f.Text}, true
	}
	return nil, false
}

// serverFrame mirrors one visible chat effect.
type serverFrame struct {
	Type    string        `json:"type"`
	Open    *bool         `json:"open,omitempty"`
	Visible *bool         `json:"visible,omitempty"`
	Enabled *bool         `json:"enabled,omitempty"`
	On      *bool         `json:"on,omitempty"`
	Message *chat.Message `json:"message,omitempty"`
}

func ptr[T any](v T) *T { return &v }

func frameFor(e chat.Effect) (serverFrame, bool) {
	switch e := e.(type) {
	case chat.SetWindow:
		return serverFrame{Type: "window", Open: ptr(e.Open)}, true
	case chat.SetLauncher:
		return serverFrame{Type: "launcher", Visible: ptr(e.Visible)}, true
	case chat.SetInput:
		return serverFrame{Type: "input", Enabled: ptr(e.Enabled)}, true
	case chat.Typing:
		return serverFrame{Type: "typing", On: ptr(e.On)}, true
	case chat.Say:
		return serverFrame{Type: "message", Message: ptr(e.Message)}, true
	}
	return serverFrame{}, false
}

// wsSink writes effects to one WebSocket connection. Emit is only called
// from the runner goroutine.
type wsSink struct {
	conn *websocket.Conn
}

func (s wsSink) Emit(e chat.Effect) error {
	frame, ok := frameFor(e)
	if !ok {
		return nil
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(chatWriteTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(frame)
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || s.corsOrigin == "*" || origin == s.corsOrigin
		},
	}
}

func (s *Server) chatSnapshot(ctx context.Context) ([]domain.Listing, error) {
	listings, err := s.listings.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		out = append(out, *l)
	}
	return out, nil
}

// handleChat runs one assistant conversation per WebSocket connection. The
// connection counts as a page load, so the auto-open timer starts right away.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("chat upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	runner := chat.NewRunner(chat.NewEngine(s.chatTiming), wsSink{conn: conn}, s.chatSnapshot, s.logger)
	done := make(chan error, 1)
	go func() {
		err := runner.Run(ctx)
		// Closing the connection unblocks the read loop below.
		_ = conn.Close()
		done <- err
	}()

	s.logger.Info("chat session started", "remote", r.RemoteAddr)
	runner.Dispatch(chat.PageLoaded{})

	for {
		var f clientFrame
		if err := conn.ReadJSON(&f); err != nil {
			break
		}
		if ev, ok := f.event(); ok {
			runner.Dispatch(ev)
		}
	}

	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("chat session ended with error", "error", err)
		return
	}
	s.logger.Info("chat session ended", "remote", r.RemoteAddr)
}
