package resilience

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrOpen is returned when the breaker refuses a call.
var ErrOpen = errors.New("resilience: breaker open")

type state int

const (
	closed state = iota
	open
	halfOpen
)

func (s state) String() string {
	switch s {
	case closed:
		return "closed"
	case open:
		return "open"
	case halfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Breaker is a failure-ratio circuit breaker guarding an upstream dependency.
// It opens once the failure ratio over at least MinRequests calls crosses
// Threshold, refuses calls for OpenFor, then probes with a single call.
type Breaker struct {
	Target      string
	MinRequests int
	Threshold   float64
	OpenFor     time.Duration

	mu        sync.Mutex
	state     state
	failures  int
	successes int
	openedAt  time.Time
}

// Allow reports whether the next call may proceed.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == open {
		if time.Since(b.openedAt) >= b.openFor() {
			b.transition(halfOpen)
			return true
		}
		return false
	}
	return true
}

// Report records the outcome of a call.
func (b *Breaker) Report(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case open:
		return
	case halfOpen:
		if success {
			b.transition(closed)
		} else {
			b.transition(open)
		}
		return
	}

	if success {
		b.successes++
	} else {
		b.failures++
	}
	total := b.failures + b.successes
	if total < b.minRequests() {
		return
	}
	if float64(b.failures)/float64(total) >= b.threshold() {
		b.transition(open)
	} else if total > b.minRequests()*2 {
		b.failures /= 2
		b.successes /= 2
	}
}

func (b *Breaker) transition(next state) {
	prev := b.state
	b.state = next
	b.failures = 0
	b.successes = 0
	if next == open {
		b.openedAt = time.Now()
	}
	if prev != next && breakerTransitions != nil {
		breakerTransitions.WithLabelValues(b.target(), prev.String(), next.String()).Inc()
	}
}

func (b *Breaker) target() string {
	if b.Target == "" {
		return "default"
	}
	return b.Target
}

func (b *Breaker) minRequests() int {
	if b.MinRequests <= 0 {
		return 5
	}
	return b.MinRequests
}

func (b *Breaker) threshold() float64 {
	if b.Threshold <= 0 || b.Threshold > 1 {
		return 0.5
	}
	return b.Threshold
}

func (b *Breaker) openFor() time.Duration {
	if b.OpenFor <= 0 {
		return 30 * time.Second
	}
	return b.OpenFor
}

var breakerTransitions *prometheus.CounterVec

// MustRegisterMetrics installs breaker telemetry on the given registerer.
func MustRegisterMetrics(namespace string, reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	breakerTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breaker_transitions_total",
			Help:      "Count of circuit breaker state transitions.",
		},
		[]string{"target", "from", "to"},
	)
	if err := reg.Register(breakerTransitions); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			breakerTransitions = already.ExistingCollector.(*prometheus.CounterVec)
			return
		}
		panic(err)
	}
}
