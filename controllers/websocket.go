package controllers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"aquamon/analytics"
	"aquamon/config"
	"aquamon/metrics"
	"aquamon/models"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Client struct {
	Conn *websocket.Conn
	Role string
}

var (
	clientsMu sync.Mutex
	clients   = make(map[*websocket.Conn]Client)
)

// wsEvent is the envelope for every frame the hub pushes: a reading, a
// threshold change, a system heartbeat or an alert.
type wsEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// HandleWebSocket subscribes the caller to the live feed. Each view gets
// every reading as it arrives; classification state stays on the server.
func HandleWebSocket(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	clientsMu.Lock()
	clients[conn] = Client{Conn: conn, Role: c.GetString("role")}
	clientsMu.Unlock()
	metrics.WebsocketClients.Inc()

	defer func() {
		removeClient(conn)
		conn.Close()
	}()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

// removeClient unregisters conn, decrementing the client gauge only
// when the conn was still registered. The read loop's deferred cleanup
// and the broadcast write path both funnel through here: dropping a
// client on one path makes the other a no-op instead of a second Dec.
func removeClient(conn *websocket.Conn) {
	clientsMu.Lock()
	_, ok := clients[conn]
	delete(clients, conn)
	clientsMu.Unlock()
	if ok {
		metrics.WebsocketClients.Dec()
	}
}

func broadcast(ev wsEvent) {
	msg, err := json.Marshal(ev)
	if err != nil {
		return
	}
	clientsMu.Lock()
	var dead []*websocket.Conn
	for conn := range clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Debug().Err(err).Msg("dropping unwritable websocket client")
			dead = append(dead, conn)
		}
	}
	clientsMu.Unlock()
	for _, conn := range dead {
		removeClient(conn)
		conn.Close()
	}
}

// BroadcastReading pushes a fresh reading with its per-parameter
// statuses to every connected view.
func BroadcastReading(reading models.SensorReading, statuses map[analytics.Parameter]analytics.Status) {
	broadcast(wsEvent{Type: "reading", Payload: gin.H{
		"reading":  reading,
		"statuses": statuses,
	}})
}

// BroadcastThresholds pushes the updated threshold table so views
// re-classify their current values immediately.
func BroadcastThresholds(table analytics.ThresholdTable) {
	broadcast(wsEvent{Type: "thresholds", Payload: table})
}

// BroadcastSystemStatus pushes a device heartbeat change.
func BroadcastSystemStatus(status models.SystemStatus) {
	broadcast(wsEvent{Type: "system", Payload: status})
}

// BroadcastAlert notifies every client that a reading left its safe
// band, with the running count of abnormal records.
func BroadcastAlert(reading models.SensorReading, parameter analytics.Parameter, severity analytics.Status) {
	var count int64
	config.DB.Model(&models.SensorReading{}).Where("is_abnormal = ?", true).Count(&count)

	spec := analytics.Specs[parameter]
	broadcast(wsEvent{Type: "alert", Payload: gin.H{
		"id":             uuid.NewString(),
		"message":        "Abnormal data detected!",
		"parameter":      parameter,
		"parameter_name": spec.Label,
		"severity":       severity,
		"reading":        reading,
		"abnormal_count": count,
		"fired_at":       time.Now().In(config.Location()).Format(time.RFC3339),
	}})
	metrics.AlertsFired.Inc()
}
