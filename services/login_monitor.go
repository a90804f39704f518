package services

import (
	"sync"
	"time"

	"advocate_diary/logger"
	"advocate_diary/metrics"
)

const (
	failedLoginWindow    = 10 * time.Minute
	failedLoginThreshold = 5
	loginAlertCooldown   = time.Hour
)

// LoginMonitor watches failed logins per client address and raises an alert
// when one address fails too often inside the window.
type LoginMonitor struct {
	mu       sync.Mutex
	now      func() time.Time
	failures map[string][]time.Time
	alerted  map[string]time.Time
}

// Monitor is the process-wide login monitor
var Monitor = NewLoginMonitor()

// NewLoginMonitor creates an empty monitor
func NewLoginMonitor() *LoginMonitor {
	return &LoginMonitor{
		now:      time.Now,
		failures: make(map[string][]time.Time),
		alerted:  make(map[string]time.Time),
	}
}

// TrackFailedLogin records a rejected login from ip and reports whether it raised an alert
func (m *LoginMonitor) TrackFailedLogin(ip string) bool {
	metrics.RecordFailedLogin()

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)

	attempts := append(m.failures[ip], now)
	m.failures[ip] = attempts

	if len(attempts) < failedLoginThreshold {
		return false
	}
	if last, ok := m.alerted[ip]; ok && now.Sub(last) < loginAlertCooldown {
		return false
	}

	m.alerted[ip] = now
	metrics.RecordLoginAlert()
	logger.Log.Warnw("security alert: repeated failed logins", "ip", ip, "attempts", len(attempts), "window", failedLoginWindow)
	return true
}

// sweepLocked drops attempts outside the window and expired cooldowns
func (m *LoginMonitor) sweepLocked(now time.Time) {
	windowStart := now.Add(-failedLoginWindow)
	for ip, attempts := range m.failures {
		kept := attempts[:0]
		for _, t := range attempts {
			if t.After(windowStart) {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			delete(m.failures, ip)
			continue
		}
		m.failures[ip] = kept
	}
	for ip, last := range m.alerted {
		if now.Sub(last) >= loginAlertCooldown {
			delete(m.alerted, ip)
		}
	}
}
