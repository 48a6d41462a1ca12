package health

import (
	"context"
	"sync"
	"time"
)

const defaultTimeout = 2 * time.Second

// Check probes one dependency.
type Check func(ctx context.Context) error

// Report is the health payload. OK is false only when a critical check
// fails; a failing optional check marks the service degraded.
type Report struct {
	OK       bool              `json:"ok"`
	Degraded bool              `json:"degraded,omitempty"`
	Checks   map[string]string `json:"checks"`
}

type probe struct {
	name     string
	check    Check
	critical bool
}

// Service encapsulates health-related checks.
type Service struct {
	Timeout time.Duration
	probes  []probe
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{Timeout: defaultTimeout}
}

// Require registers a check whose failure makes the service unhealthy.
func (s *Service) Require(name string, check Check) *Service {
	s.probes = append(s.probes, probe{name: name, check: check, critical: true})
	return s
}

// Observe registers a check whose failure only degrades the service.
func (s *Service) Observe(name string, check Check) *Service {
	s.probes = append(s.probes, probe{name: name, check: check})
	return s
}

// Status runs every check concurrently under the service timeout.
func (s *Service) Status(ctx context.Context) Report {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make([]error, len(s.probes))
	var wg sync.WaitGroup
	for i, p := range s.probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = p.check(ctx)
		}()
	}
	wg.Wait()

	report := Report{OK: true, Checks: make(map[string]string, len(s.probes))}
	for i, p := range s.probes {
		if results[i] == nil {
			report.Checks[p.name] = "ok"
			continue
		}
		report.Checks[p.name] = results[i].Error()
		if p.critical {
			report.OK = false
		} else {
			report.Degraded = true
		}
	}
	return report
}
