package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/host"
)

// SystemInfo backs the frontend's about panel.
type SystemInfo struct {
	Hostname     string    `json:"hostname"`
	Platform     string    `json:"platform"`
	Kernel       string    `json:"kernel"`
	Architecture string    `json:"architecture"`
	Uptime       uint64    `json:"uptime"`
	LocalTime    time.Time `json:"localTime"`
}

func handleSystemInfo(w http.ResponseWriter, r *http.Request) {
	info := SystemInfo{
		Architecture: runtime.GOARCH,
		LocalTime:    time.Now(),
	}
	if hi, err := host.InfoWithContext(r.Context()); err == nil {
		info.Hostname = hi.Hostname
		info.Platform = hi.Platform
		info.Kernel = hi.KernelVersion
		info.Uptime = hi.Uptime
	}
	writeJSON(w, info)
}
