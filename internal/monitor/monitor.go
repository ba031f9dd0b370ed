// Package monitor is a read-only live view of the translation loop: it
// serves an embedded single-page dashboard and pushes a JSON frame over a
// websocket connection every time the loop produces a G29 input report or
// ships an IFORCE command. It has no effect on the translation loop's
// behavior — translator.Loop never imports this package; wiring is
// one-directional from cmd/tmg29.
package monitor

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tmg29/tmg29/internal/report"
)

// Frame is the JSON structure pushed to every connected websocket client.
type Frame struct {
	Kind       string `json:"kind"` // "input" or "ffb"
	Steering   uint16 `json:"steering,omitempty"`
	Throttle   uint16 `json:"throttle,omitempty"`
	Brake      uint16 `json:"brake,omitempty"`
	Clutch     uint16 `json:"clutch,omitempty"`
	Buttons    uint32 `json:"buttons,omitempty"`
	FFBCmdID   uint8  `json:"ffbCmdId,omitempty"`
	FFBPayload string `json:"ffbPayload,omitempty"`
	Stamp      int64  `json:"stamp"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Monitor broadcasts translated frames to connected websocket clients and
// serves the embedded dashboard page. It implements translator.Observer.
type Monitor struct {
	clients   map[*wsClient]struct{}
	clientsMu sync.RWMutex
	upgrader  websocket.Upgrader
	srv       *http.Server
}

// New creates a Monitor. Call Run to start serving on addr.
func New() *Monitor {
	return &Monitor{
		clients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run starts the HTTP server on addr and blocks until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(FS)))
	mux.HandleFunc("/ws", m.handleWS)

	m.srv = &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		m.srv.Shutdown(shutCtx)
	}()

	log.Printf("[monitor] listening on %s", addr)
	if err := m.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (m *Monitor) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[monitor] upgrade error: %v", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan []byte, 64)}

	m.clientsMu.Lock()
	m.clients[client] = struct{}{}
	m.clientsMu.Unlock()

	go func() {
		defer conn.Close()
		for msg := range client.send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}()

	go func() {
		defer func() {
			m.clientsMu.Lock()
			delete(m.clients, client)
			m.clientsMu.Unlock()
			close(client.send)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// ObserveInput broadcasts a translated G29 input report to every
// connected client. Satisfies translator.Observer.
func (m *Monitor) ObserveInput(r report.G29InputReport) {
	m.broadcast(Frame{
		Kind:     "input",
		Steering: r.Steering,
		Throttle: r.Throttle,
		Brake:    r.Brake,
		Clutch:   r.Clutch,
		Buttons:  r.Buttons,
		Stamp:    time.Now().UnixMilli(),
	})
}

// ObserveFFB broadcasts an IFORCE command headed to the physical wheel.
// Satisfies translator.Observer.
func (m *Monitor) ObserveFFB(cmd report.IforceCommand) {
	m.broadcast(Frame{
		Kind:       "ffb",
		FFBCmdID:   cmd.CommandID,
		FFBPayload: hexString(cmd.Data),
		Stamp:      time.Now().UnixMilli(),
	})
}

func (m *Monitor) broadcast(frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}

	m.clientsMu.RLock()
	defer m.clientsMu.RUnlock()

	for client := range m.clients {
		select {
		case client.send <- data:
		default:
			// client too slow, drop the frame
		}
	}
}

func hexString(data []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(data)*2)
	for i, b := range data {
		out[i*2] = hexDigits[b>>4]
		out[i*2+1] = hexDigits[b&0x0F]
	}
	return string(out)
}

var _ interface {
	ObserveInput(report.G29InputReport)
	ObserveFFB(report.IforceCommand)
} = (*Monitor)(nil)
