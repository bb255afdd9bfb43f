package game

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/Garsondee/Trenchline/internal/game"

// battleMetrics counts combat activity. With no meter provider installed the
// global otel meter is a no-op.
type battleMetrics struct {
	shots        metric.Int64Counter
	hits         metric.Int64Counter
	casualties   metric.Int64Counter
	trenchResets metric.Int64Counter
}

func newBattleMetrics(m metric.Meter) *battleMetrics {
	if m == nil {
		m = otel.Meter(instrumentationName)
	}
	counter := func(name, desc string) metric.Int64Counter {
		c, err := m.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			return noop.Int64Counter{}
		}
		return c
	}
	return &battleMetrics{
		shots:        counter("trenchline.shots", "Rounds fired"),
		hits:         counter("trenchline.hits", "Rounds that struck a soldier"),
		casualties:   counter("trenchline.casualties", "Soldiers killed"),
		trenchResets: counter("trenchline.trench_resets", "Trenches forced back to hold"),
	}
}

func (m *battleMetrics) add(c metric.Int64Counter, side Side) {
	c.Add(context.Background(), 1, metric.WithAttributes(attribute.String("side", side.String())))
}
