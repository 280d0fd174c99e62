package engine

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"zkl-file-verify/pkg/relation"
)

// Metrics records engine outcomes.
type Metrics struct {
	generated    *prometheus.CounterVec
	verified     *prometheus.CounterVec
	proveSeconds *prometheus.HistogramVec
}

// NewMetrics creates the engine collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zkl",
			Subsystem: "engine",
			Name:      "proofs_generated_total",
			Help:      "Generate calls by scheme and outcome.",
		}, []string{"scheme", "outcome"}),
		verified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zkl",
			Subsystem: "engine",
			Name:      "proofs_verified_total",
			Help:      "Verify calls by scheme and result.",
		}, []string{"scheme", "result"}),
		proveSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "zkl",
			Subsystem: "engine",
			Name:      "generate_duration_seconds",
			Help:      "Wall time of Generate calls, setup included.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"scheme"}),
	}
	for _, c := range []prometheus.Collector{m.generated, m.verified, m.proveSeconds} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

type instrumented struct {
	next   Engine
	scheme string
	m      *Metrics
}

// Instrument wraps e so every call is counted under the scheme label.
func Instrument(e Engine, scheme string, m *Metrics) Engine {
	return &instrumented{next: e, scheme: scheme, m: m}
}

func (i *instrumented) Generate(ctx context.Context, w relation.Witness) (*Proof, error) {
	start := time.Now()
	p, err := i.next.Generate(ctx, w)
	i.m.proveSeconds.WithLabelValues(i.scheme).Observe(time.Since(start).Seconds())
	i.m.generated.WithLabelValues(i.scheme, outcome(err)).Inc()
	return p, err
}

func (i *instrumented) Verify(p *Proof) bool {
	ok := i.next.Verify(p)
	result := "rejected"
	if ok {
		result = "accepted"
	}
	i.m.verified.WithLabelValues(i.scheme, result).Inc()
	return ok
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, relation.ErrRelationUnsatisfied):
		return "unsatisfied"
	default:
		return "error"
	}
}
