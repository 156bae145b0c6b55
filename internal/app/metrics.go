package app

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/jaminalder/tic-tac-based/internal/domain"
)

type metrics struct {
	moves    metric.Int64Counter
	rejected metric.Int64Counter
	finished metric.Int64Counter
}

func newMetrics(log *slog.Logger) *metrics {
	meter := otel.Meter("github.com/jaminalder/tic-tac-based/internal/app")
	fallback := noop.NewMeterProvider().Meter("")

	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit("{event}"))
		if err != nil {
			log.Warn("metric instrument unavailable", "name", name, "error", err)
			c, _ = fallback.Int64Counter(name)
		}
		return c
	}

	return &metrics{
		moves:    counter("tictacbased.moves", "Moves applied to a board."),
		rejected: counter("tictacbased.moves.rejected", "Moves ignored because the cell was taken or the game was over."),
		finished: counter("tictacbased.games.finished", "Games that reached a terminal result."),
	}
}

func metricResult(r domain.Result) metric.AddOption {
	return metric.WithAttributes(attribute.String("result", r.String()))
}
