package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PricingRequestsTotal counts cart pricing outcomes.
	PricingRequestsTotal *prometheus.CounterVec
	// PricingLinesTotal counts priced cart lines, split by discount outcome.
	PricingLinesTotal *prometheus.CounterVec
	// PreviewRequestsTotal counts preview proxy outcomes.
	PreviewRequestsTotal *prometheus.CounterVec
	// RuleSyncTotal counts rule snapshot sync outcomes.
	RuleSyncTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers pricing-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PricingRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_requests_total",
			Help:      "Count of cart pricing requests by outcome.",
		}, []string{"result"})
		PricingLinesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_lines_total",
			Help:      "Count of priced cart lines by discount outcome.",
		}, []string{"discounted"})
		PreviewRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preview_requests_total",
			Help:      "Count of storefront preview lookups by outcome.",
		}, []string{"result"})
		RuleSyncTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_sync_total",
			Help:      "Count of rule snapshot sync runs by outcome.",
		}, []string{"result"})

		for _, c := range []**prometheus.CounterVec{&PricingRequestsTotal, &PricingLinesTotal, &PreviewRequestsTotal, &RuleSyncTotal} {
			mustRegisterCounterVec(reg, c)
		}
	})
}

func mustRegisterCounterVec(reg prometheus.Registerer, collector **prometheus.CounterVec) {
	if err := reg.Register(*collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				*collector = existing
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
