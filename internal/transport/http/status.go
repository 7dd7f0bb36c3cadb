// Package http serves the operational status page alongside the bot:
// an HTML overview, a JSON stats endpoint, a health probe, and a
// websocket stream of live statistics.
package http

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"time"

	"quizbot/internal/app"
	"github.com/gorilla/websocket"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Telegram Quiz Bot - Status</title>
    <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
    <h1>Telegram Quiz Bot</h1>
    <p>Status: <strong>Online</strong></p>
    <h2>Statistics</h2>
    <ul>
        <li>Quiz questions: {{.TotalQuestions}}</li>
        <li>Registered users: {{.TotalUsers}}</li>
    </ul>
    <h3>Category Breakdown</h3>
    <ul>
    {{range $category, $count := .Categories}}
        <li>{{$category}}: {{$count}}</li>
    {{end}}
    </ul>
    <h2>Commands</h2>
    <ul>
        <li><code>/play</code> - Play a quiz</li>
        <li><code>/stats</code> - View your statistics</li>
        <li><code>/add</code> - Create a new quiz question</li>
        <li><code>/list</code> - List all quizzes</li>
        <li><code>/clone</code> - Clone a quiz from a link</li>
        <li><code>/edit</code> - Edit a quiz</li>
        <li><code>/remove</code> - Delete a quiz</li>
    </ul>
</body>
</html>
`))

// StatusHandler renders aggregate statistics; read-only consumer of the stores.
type StatusHandler struct {
	stats    *app.Aggregator
	upgrader websocket.Upgrader
	interval time.Duration
}

func NewStatusHandler(stats *app.Aggregator) *StatusHandler {
	return &StatusHandler{
		stats: stats,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		interval: 5 * time.Second,
	}
}

// Register mounts all status routes on the mux.
func (h *StatusHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.ServeIndex)
	mux.HandleFunc("/api/stats", h.ServeStats)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", h.ServeWS)
}

func (h *StatusHandler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	summary, err := h.stats.Summary(r.Context())
	if err != nil {
		http.Error(w, "stats unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, summary); err != nil {
		log.Printf("render status page: %v", err)
	}
}

func (h *StatusHandler) ServeStats(w http.ResponseWriter, r *http.Request) {
	summary, err := h.stats.Summary(r.Context())
	if err != nil {
		http.Error(w, "stats unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		log.Printf("encode stats: %v", err)
	}
}

// ServeWS streams a fresh summary every few seconds until the client hangs up.
func (h *StatusHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		summary, err := h.stats.Summary(r.Context())
		if err != nil {
			log.Printf("ws stats: %v", err)
			return
		}
		if err := conn.WriteJSON(summary); err != nil {
			return
		}
		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}
