package tracing

import (
	"github.com/poornesh-v09/Milk-Management/config"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Tracer defines the interface for tracing
type Tracer interface {
	Application() *newrelic.Application
	StartTransaction(name string) *newrelic.Transaction
	EndTransaction(txn *newrelic.Transaction)
	RecordError(txn *newrelic.Transaction, err error)
	AddAttribute(txn *newrelic.Transaction, key string, value interface{})
}

// NewRelicTracer implements Tracer using New Relic
type NewRelicTracer struct {
	app     *newrelic.Application
	enabled bool
}

// NewTracer creates a new tracer. When tracing is disabled or no license key
// is configured it returns a no-op tracer.
func NewTracer(cfg config.TracingConfig) (Tracer, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		log.Warn().Msg("Tracing disabled, continuing without New Relic")
		return &NewRelicTracer{enabled: false}, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize New Relic")
	}

	return &NewRelicTracer{app: app, enabled: true}, nil
}

// Application returns the underlying New Relic application, nil when disabled
func (t *NewRelicTracer) Application() *newrelic.Application {
	if !t.enabled {
		return nil
	}
	return t.app
}

// StartTransaction starts a new transaction
func (t *NewRelicTracer) StartTransaction(name string) *newrelic.Transaction {
	if !t.enabled || t.app == nil {
		return nil
	}
	return t.app.StartTransaction(name)
}

// EndTransaction ends a transaction
func (t *NewRelicTracer) EndTransaction(txn *newrelic.Transaction) {
	if !t.enabled || txn == nil {
		return
	}
	txn.End()
}

// RecordError records an error in a transaction
func (t *NewRelicTracer) RecordError(txn *newrelic.Transaction, err error) {
	if !t.enabled || txn == nil || err == nil {
		return
	}
	txn.NoticeError(err)
}

// AddAttribute adds an attribute to a transaction
func (t *NewRelicTracer) AddAttribute(txn *newrelic.Transaction, key string, value interface{}) {
	if !t.enabled || txn == nil {
		return
	}
	txn.AddAttribute(key, value)
}
