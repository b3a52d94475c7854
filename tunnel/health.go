// Package tunnel provides tunnel lifecycle management.
// This file contains the Prober which passively monitors connectivity
// through the tunnel and reports health state changes.
package tunnel

import (
	"net"
	"sync"
	"time"

	"github.com/mohsafer/tunneldeck/common"
)

// HealthState represents the current connectivity health.
type HealthState int

const (
	HealthUnknown HealthState = iota
	HealthHealthy
	HealthDegraded
	HealthUnhealthy
)

// String returns a human-readable representation of the health state.
func (h HealthState) String() string {
	switch h {
	case HealthHealthy:
		return "Healthy"
	case HealthDegraded:
		return "Degraded"
	case HealthUnhealthy:
		return "Unhealthy"
	default:
		return "Unknown"
	}
}

// ProbeConfig holds configuration for the connectivity prober.
type ProbeConfig struct {
	// Interval is how often to probe connectivity.
	Interval time.Duration
	// FailureThreshold is how many consecutive failures before marking unhealthy.
	FailureThreshold int
	// DialTimeout is the per-host timeout for one probe attempt.
	DialTimeout time.Duration
	// Hosts are the "host:port" endpoints dialed for the probe.
	Hosts []string
}

// DefaultProbeConfig returns sensible defaults for connectivity probing.
func DefaultProbeConfig() ProbeConfig {
	return ProbeConfig{
		Interval:         common.HealthCheckInterval,
		FailureThreshold: 3,
		DialTimeout:      common.HealthDialTimeout,
		Hosts: []string{
			"8.8.8.8:53",        // Google DNS
			"1.1.1.1:53",        // Cloudflare DNS
			"208.67.222.222:53", // OpenDNS
		},
	}
}

// ProbeStatus is a point-in-time snapshot of the prober's view.
type ProbeStatus struct {
	State            HealthState
	LastCheck        time.Time
	LastSuccess      time.Time
	ConsecutiveFails int
	Latency          time.Duration
}

// Prober passively monitors connectivity by dialing well-known endpoints.
// It only observes and reports; it never acts on the tunnel.
type Prober struct {
	mu       sync.RWMutex
	config   ProbeConfig
	running  bool
	stopChan chan struct{}
	status   ProbeStatus
	onChange func(oldState, newState HealthState)
}

// NewProber creates a prober with the given configuration.
func NewProber(config ProbeConfig) *Prober {
	if config.Interval <= 0 {
		config.Interval = common.HealthCheckInterval
	}
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 3
	}
	if config.DialTimeout <= 0 {
		config.DialTimeout = common.HealthDialTimeout
	}
	if len(config.Hosts) == 0 {
		config.Hosts = DefaultProbeConfig().Hosts
	}
	return &Prober{
		config:   config,
		stopChan: make(chan struct{}),
	}
}

// SetOnChange sets a callback for health state changes. The callback runs
// on its own goroutine so the probe loop never blocks on it.
func (p *Prober) SetOnChange(callback func(oldState, newState HealthState)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = callback
}

// Start begins the probe loop.
func (p *Prober) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.stopChan = make(chan struct{})
	p.mu.Unlock()

	common.LogInfo("Connectivity prober started (interval: %v)", p.config.Interval)

	go p.runLoop()
}

// Stop stops the probe loop.
func (p *Prober) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopChan)
	p.mu.Unlock()

	common.LogInfo("Connectivity prober stopped")
}

// IsRunning returns whether the prober is currently running.
func (p *Prober) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

// Status returns a copy of the current probe status.
func (p *Prober) Status() ProbeStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// runLoop is the main probe loop.
func (p *Prober) runLoop() {
	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.Probe()
		}
	}
}

// Probe performs a single connectivity check and updates the status.
// It is also called by the loop on every tick.
func (p *Prober) Probe() HealthState {
	latency, err := p.testConnectivity()

	p.mu.Lock()

	p.status.LastCheck = time.Now()
	oldState := p.status.State

	if err != nil {
		p.status.ConsecutiveFails++
		p.status.Latency = 0
		common.LogWarn("Connectivity probe failed (attempt %d/%d): %v",
			p.status.ConsecutiveFails, p.config.FailureThreshold, err)

		if p.status.ConsecutiveFails >= p.config.FailureThreshold {
			p.status.State = HealthUnhealthy
		} else {
			p.status.State = HealthDegraded
		}
	} else {
		p.status.ConsecutiveFails = 0
		p.status.LastSuccess = time.Now()
		p.status.Latency = latency
		p.status.State = HealthHealthy
	}

	newState := p.status.State
	onChange := p.onChange
	p.mu.Unlock()

	if oldState != newState {
		common.LogInfo("Connectivity state changed: %s -> %s", oldState, newState)
		if onChange != nil {
			go onChange(oldState, newState)
		}
	}

	return newState
}

// testConnectivity dials the configured hosts until one succeeds.
// Returns the dial latency of the first reachable host.
func (p *Prober) testConnectivity() (time.Duration, error) {
	var lastErr error
	for _, host := range p.config.Hosts {
		start := time.Now()
		conn, err := net.DialTimeout("tcp", host, p.config.DialTimeout)
		if err == nil {
			conn.Close()
			return time.Since(start), nil
		}
		lastErr = err
	}
	return 0, common.WrapError(lastErr, "all probe hosts unreachable")
}
