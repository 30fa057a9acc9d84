package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CommandMetricsCollector tracks commands dispatched through the mediator
type CommandMetricsCollector struct {
	commandDuration *prometheus.HistogramVec
	commandsTotal   *prometheus.CounterVec
	inFlight        *prometheus.GaugeVec
}

// NewCommandMetricsCollector creates a new command metrics collector
func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "commands",
				Name:      "duration_seconds",
				Help:      "Command execution duration distribution",
				Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
			},
			[]string{"command", "outcome"},
		),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "commands",
				Name:      "total",
				Help:      "Total number of commands executed by type and outcome",
			},
			[]string{"command", "outcome"},
		),
		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "commands",
				Name:      "in_flight",
				Help:      "Commands currently executing",
			},
			[]string{"command"},
		),
	}
}

// Register registers all command metrics with the Prometheus registry
func (c *CommandMetricsCollector) Register() error {
	if Registry == nil {
		return nil
	}
	for _, metric := range []prometheus.Collector{c.commandDuration, c.commandsTotal, c.inFlight} {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

// Started marks a command as executing
func (c *CommandMetricsCollector) Started(commandName string) {
	c.inFlight.WithLabelValues(commandName).Inc()
}

// Finished records the outcome and duration of a command
func (c *CommandMetricsCollector) Finished(commandName string, seconds float64, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.inFlight.WithLabelValues(commandName).Dec()
	c.commandDuration.WithLabelValues(commandName, outcome).Observe(seconds)
	c.commandsTotal.WithLabelValues(commandName, outcome).Inc()
}
