package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxSessions is the default number of sessions before the Chrome
// process is recycled.
const DefaultMaxSessions = 50

// Manager owns the Chrome process and recycles it periodically. Chrome
// accumulates memory under sustained scraping load and the baseline never
// returns to initial levels even with proper page cleanup, so the process is
// replaced after a bounded number of sessions.
//
// Manager is safe for concurrent use; session creation against a given
// process is serialized, sessions themselves run independently.
type Manager struct {
	mu           sync.Mutex
	browser      *rod.Browser
	launcher     *launcher.Launcher
	sessionCount int64
	maxSessions  int64
	closed       atomic.Bool
}

// Browser returns the current Chrome connection, recycling the process first
// if the session count has reached the threshold.
func (m *Manager) Browser() *rod.Browser {
	m.mu.Lock()
	defer m.mu.Unlock()

	if atomic.LoadInt64(&m.sessionCount) >= m.maxSessions {
		m.recycle()
	}
	return m.browser
}

// IncrementSessionCount records one session toward the recycling threshold.
func (m *Manager) IncrementSessionCount() {
	atomic.AddInt64(&m.sessionCount, 1)
}

// Close shuts down the Chrome process. Safe to call multiple times.
func (m *Manager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.teardown()
}

// LauncherPID returns the process ID of the browser launcher, for tests
// verifying cleanup.
func (m *Manager) LauncherPID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.launcher == nil {
		return 0
	}
	return m.launcher.PID()
}

// launch starts a Chrome process with stability flags and the automation
// banner disabled.
func (m *Manager) launch() error {
	lnchr := launcher.New().
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	m.browser = browser
	m.launcher = lnchr
	return nil
}

// teardown closes the current process. Must be called with mu held.
func (m *Manager) teardown() error {
	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.launcher != nil {
		m.launcher.Kill()
		m.launcher = nil
	}
	return err
}

// recycle replaces the Chrome process with a fresh one. The old process is
// kept if the new launch fails. Must be called with mu held.
func (m *Manager) recycle() {
	oldBrowser := m.browser
	oldLauncher := m.launcher
	m.browser = nil
	m.launcher = nil

	if err := m.launch(); err != nil {
		m.browser = oldBrowser
		m.launcher = oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	atomic.StoreInt64(&m.sessionCount, 0)
}
