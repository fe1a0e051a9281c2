package monitoring

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/fastcm/shophub-be/internal/services"
	"github.com/fastcm/shophub-be/internal/websocket"
)

// BoardStats is one snapshot of board activity plus host health, pushed to
// websocket subscribers on every tick.
type BoardStats struct {
	Users      int       `json:"users"`
	Posts      int       `json:"posts"`
	Likes      int       `json:"likes"`
	Products   int       `json:"products"`
	CPUPercent float64   `json:"cpuPercent"`
	MemPercent float64   `json:"memPercent"`
	At         time.Time `json:"at"`
}

// StatUpdater periodically gathers board totals and host resource usage and
// broadcasts them over the hub.
type StatUpdater struct {
	db           *sql.DB
	hub          *websocket.Hub
	eventSvc     services.EventServiceProvider
	ticker       *time.Ticker
	done         chan bool
	lastCPUAlert time.Time
}

// NewStatUpdater creates a new StatUpdater.
func NewStatUpdater(db *sql.DB, hub *websocket.Hub, eventSvc services.EventServiceProvider) *StatUpdater {
	return &StatUpdater{
		db:       db,
		hub:      hub,
		eventSvc: eventSvc,
		done:     make(chan bool),
	}
}

// Run starts the periodic updates.
func (su *StatUpdater) Run() {
	log.Info().Msg("Starting background stat updater...")
	su.ticker = time.NewTicker(15 * time.Second)
	defer su.ticker.Stop()

	// Run once immediately on start
	su.publishStats()

	for {
		select {
		case <-su.done:
			log.Info().Msg("Stopping background stat updater.")
			return
		case <-su.ticker.C:
			su.publishStats()
		}
	}
}

// Stop halts the periodic updates.
func (su *StatUpdater) Stop() {
	su.done <- true
}

func (su *StatUpdater) publishStats() {
	stats, err := su.collect()
	if err != nil {
		log.Error().Err(err).Msg("StatUpdater: Failed to collect board stats")
		return
	}

	su.checkAndAlertForHighCPU(stats.CPUPercent)
	su.hub.Notify(websocket.NewStatsMessage(stats))
}

func (su *StatUpdater) collect() (BoardStats, error) {
	stats := BoardStats{At: time.Now().UTC()}

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM users WHERE is_active = 1", &stats.Users},
		{"SELECT COUNT(*) FROM posts", &stats.Posts},
		{"SELECT COUNT(*) FROM post_likes", &stats.Likes},
		{"SELECT COUNT(*) FROM products", &stats.Products},
	}
	for _, c := range counts {
		if err := su.db.QueryRow(c.query).Scan(c.dest); err != nil {
			return BoardStats{}, err
		}
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	} else if err != nil {
		log.Warn().Err(err).Msg("StatUpdater: Could not read CPU usage")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemPercent = vm.UsedPercent
	} else {
		log.Warn().Err(err).Msg("StatUpdater: Could not read memory usage")
	}

	return stats, nil
}

func (su *StatUpdater) checkAndAlertForHighCPU(cpuPercent float64) {
	const highCPUThreshold = 90.0
	const alertCooldown = 15 * time.Minute

	if cpuPercent <= highCPUThreshold {
		return
	}
	if time.Since(su.lastCPUAlert) < alertCooldown {
		return
	}

	msg := fmt.Sprintf("High CPU usage (%.1f%%) detected on the board host.", cpuPercent)
	if err := su.eventSvc.CreateEvent("system.alert.cpu", "warn", msg, nil); err != nil {
		log.Error().Err(err).Msg("StatUpdater: Failed to record high CPU alert")
		return
	}
	su.lastCPUAlert = time.Now()
}
