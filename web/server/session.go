package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/df07/go-haunted-house/pkg/app"
	"github.com/df07/go-haunted-house/pkg/debug"
)

// Message types sent to the browser as text frames. Rendered frames are
// sent as binary JPEG messages.
const (
	MessageConsole = "console"
	MessagePanel   = "panel"
	MessageError   = "error"
)

// Message is a JSON text frame sent to the browser
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// PanelState describes the debug panel for the browser to draw
type PanelState struct {
	Title   string             `json:"title"`
	Hidden  bool               `json:"hidden"`
	Sliders []debug.SliderInfo `json:"sliders"`
}

func panelState(a *app.App) PanelState {
	return PanelState{Title: a.Panel.Title, Hidden: a.Panel.Hidden(), Sliders: a.Panel.Sliders()}
}

// session is one browser tab: an App driven by app.Run with input read from
// the websocket
type session struct {
	id        string
	writer    *SafeWriter
	app       *app.App
	events    chan app.Event
	quality   int
	lastPanel []byte
}

// Events implements app.Host
func (ss *session) Events() <-chan app.Event {
	return ss.events
}

// Present implements app.Host: the frame goes out as a JPEG, followed by the
// panel state when a slider or the visibility changed
func (ss *session) Present(ctx context.Context, frame *app.Frame) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame.Image, &jpeg.Options{Quality: ss.quality}); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	if err := ss.writer.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
		return err
	}
	return ss.sendPanel()
}

func (ss *session) sendPanel() error {
	state := panelState(ss.app)
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if bytes.Equal(data, ss.lastPanel) {
		return nil
	}
	ss.lastPanel = data
	return ss.writer.WriteJSON(Message{Type: MessagePanel, Data: state})
}

// readEvents decodes input messages until the connection fails, then cancels the session
func (ss *session) readEvents(ctx context.Context, conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Session %s: websocket error: %v", ss.id, err)
			}
			return
		}

		var e app.Event
		if err := json.Unmarshal(data, &e); err != nil {
			ss.writer.WriteJSON(Message{Type: MessageError, Data: fmt.Sprintf("invalid message: %v", err)})
			continue
		}
		select {
		case ss.events <- e:
		case <-ctx.Done():
			return
		}
	}
}

// streamConsole forwards log lines to the browser until ctx ends
func (ss *session) streamConsole(ctx context.Context, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			if err := ss.writer.WriteJSON(Message{Type: MessageConsole, Data: msg}); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// handleWebSocket runs a live viewer session until the browser disconnects
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	req, err := parseSceneRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade error: %v", err)
		return
	}
	writer := NewSafeWriter(conn)
	defer writer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id := fmt.Sprintf("session-%d", time.Now().UnixNano())
	consoleChan := make(chan ConsoleMessage, 50)
	logger := NewWebLogger(id, consoleChan)

	a, err := s.buildApp(req, app.NewClock(), logger)
	if err != nil {
		writer.WriteJSON(Message{Type: MessageError, Data: err.Error()})
		return
	}
	defer a.Close()

	ss := &session{
		id:      id,
		writer:  writer,
		app:     a,
		events:  make(chan app.Event, 16),
		quality: s.options.JPEGQuality,
	}
	go ss.streamConsole(ctx, consoleChan)
	go ss.readEvents(ctx, conn, cancel)

	if err := ss.sendPanel(); err != nil {
		log.Printf("Session %s: %v", id, err)
		return
	}

	log.Printf("Session %s started: preset=%s %dx%d", id, req.Preset, req.Width, req.Height)
	if err := app.Run(ctx, a, ss, s.options.FrameInterval); err != nil {
		log.Printf("Session %s ended: %v", id, err)
		return
	}
	log.Printf("Session %s closed after %d frames", id, a.Frames())
}
