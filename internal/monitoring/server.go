package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"skill-backend/internal/crm"
	"skill-backend/internal/skill"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// MonitoringServer exposes an ops dashboard API on its own port:
// process-host stats, upstream reachability and a live websocket feed.
type MonitoringServer struct {
	skill      *skill.Client
	hub        *crm.Hub
	port       int
	started    time.Time
	alerts     []Alert
	alertsMux  sync.RWMutex
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan Alert
}

type Alert struct {
	ID        int       `json:"id"`
	Severity  string    `json:"severity"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Resolved  bool      `json:"resolved"`
}

type DashboardStats struct {
	UpstreamStatus   string  `json:"upstream_status"`
	UpstreamLatency  int64   `json:"upstream_latency_ms"`
	ActiveAlerts     int     `json:"active_alerts"`
	CPUPercent       float64 `json:"cpu_percent"`
	MemoryPercent    float64 `json:"memory_percent"`
	DiskPercent      float64 `json:"disk_percent"`
	MemoryUsed       string  `json:"memory_used"`
	MemoryTotal      string  `json:"memory_total"`
	DiskUsed         string  `json:"disk_used"`
	DiskTotal        string  `json:"disk_total"`
	Uptime           string  `json:"uptime"`
	LiveSubscribers  int     `json:"live_subscribers"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewMonitoringServer(client *skill.Client, hub *crm.Hub, port int) *MonitoringServer {
	return &MonitoringServer{
		skill:     client,
		hub:       hub,
		port:      port,
		started:   time.Now(),
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Alert, 16),
	}
}

func (ms *MonitoringServer) Start() {
	r := mux.NewRouter()
	r.HandleFunc("/api/stats", ms.getStats).Methods("GET")
	r.HandleFunc("/api/alerts", ms.getAlerts).Methods("GET")
	r.HandleFunc("/ws", ms.handleWebSocket)

	go ms.handleBroadcast()
	go ms.monitorHealth()

	addr := fmt.Sprintf(":%d", ms.port)
	log.Printf("[Monitoring] dashboard API on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Printf("[Monitoring] server stopped: %v", err)
	}
}

func (ms *MonitoringServer) getStats(w http.ResponseWriter, r *http.Request) {
	stats := ms.collectStats()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (ms *MonitoringServer) collectStats() DashboardStats {
	stats := DashboardStats{}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	start := time.Now()
	if err := ms.skill.Ping(ctx); err != nil {
		stats.UpstreamStatus = "unreachable"
	} else {
		stats.UpstreamStatus = "reachable"
	}
	stats.UpstreamLatency = time.Since(start).Milliseconds()

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
		stats.MemoryUsed = formatBytes(vm.Used)
		stats.MemoryTotal = formatBytes(vm.Total)
	}

	if du, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = du.UsedPercent
		stats.DiskUsed = formatBytes(du.Used)
		stats.DiskTotal = formatBytes(du.Total)
	}

	stats.Uptime = formatUptime(int(time.Since(ms.started).Seconds()))
	if ms.hub != nil {
		stats.LiveSubscribers = ms.hub.Subscribers()
	}

	ms.alertsMux.RLock()
	for _, a := range ms.alerts {
		if !a.Resolved {
			stats.ActiveAlerts++
		}
	}
	ms.alertsMux.RUnlock()

	return stats
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatUptime(seconds int) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func (ms *MonitoringServer) getAlerts(w http.ResponseWriter, r *http.Request) {
	ms.alertsMux.RLock()
	defer ms.alertsMux.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ms.alerts)
}

func (ms *MonitoringServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Monitoring] websocket upgrade failed: %v", err)
		return
	}

	ms.clientsMux.Lock()
	ms.clients[conn] = true
	ms.clientsMux.Unlock()

	// Push stats every 5 seconds until the client goes away.
	ticker := time.NewTicker(5 * time.Second)
	defer func() {
		ticker.Stop()
		ms.clientsMux.Lock()
		delete(ms.clients, conn)
		ms.clientsMux.Unlock()
		conn.Close()
	}()

	for range ticker.C {
		if err := conn.WriteJSON(ms.collectStats()); err != nil {
			return
		}
	}
}

func (ms *MonitoringServer) handleBroadcast() {
	for alert := range ms.broadcast {
		ms.clientsMux.Lock()
		for conn := range ms.clients {
			if err := conn.WriteJSON(map[string]any{"alert": alert}); err != nil {
				conn.Close()
				delete(ms.clients, conn)
			}
		}
		ms.clientsMux.Unlock()
	}
}

func (ms *MonitoringServer) addAlert(severity, alertType, message string) {
	ms.alertsMux.Lock()
	alert := Alert{
		ID:        len(ms.alerts) + 1,
		Severity:  severity,
		Type:      alertType,
		Message:   message,
		Timestamp: time.Now(),
	}
	ms.alerts = append(ms.alerts, alert)
	ms.alertsMux.Unlock()

	select {
	case ms.broadcast <- alert:
	default:
	}
}

// monitorHealth raises alerts when the upstream API stops answering or
// the host runs hot. One alert per state change, not one per tick.
func (ms *MonitoringServer) monitorHealth() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	upstreamDown := false
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := ms.skill.Ping(ctx)
		cancel()

		if err != nil && !upstreamDown {
			upstreamDown = true
			ms.addAlert("critical", "upstream", "Skill API unreachable")
		} else if err == nil && upstreamDown {
			upstreamDown = false
			ms.addAlert("info", "upstream", "Skill API reachable again")
		}

		if vm, err := mem.VirtualMemory(); err == nil && vm.UsedPercent > 90 {
			ms.addAlert("warning", "memory", fmt.Sprintf("memory usage at %.0f%%", vm.UsedPercent))
		}
	}
}
