package otel

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/metric"

	ketenauth "github.com/ketenapp/ketenauth"
	"github.com/ketenapp/ketenauth/metrics/export/internaldefs"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() ketenauth.MetricsSnapshot
	AuditDropped() uint64
}

type observedCounter struct {
	id         ketenauth.MetricID
	instrument metric.Int64ObservableCounter
}

// OTelExporter registers ketenauth counters as observable instruments on a
// meter. Close it to unregister the collection callback.
type OTelExporter struct {
	source       metricsSource
	registration metric.Registration
	counters     []observedCounter
	auditDropped metric.Int64ObservableCounter
}

// NewOTelExporter creates an exporter reading from the given
// [ketenauth.Controller].
func NewOTelExporter(meter metric.Meter, ctrl *ketenauth.Controller) (*OTelExporter, error) {
	return NewOTelExporterFromSource(meter, ctrl)
}

// NewOTelExporterFromSource creates an exporter from a custom source.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &OTelExporter{
		source:   source,
		counters: make([]observedCounter, 0, len(internaldefs.CounterDefs)),
	}

	observables := make([]metric.Observable, 0, len(internaldefs.CounterDefs)+1)
	for _, def := range internaldefs.CounterDefs {
		instrument, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, err
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.ID, instrument: instrument})
		observables = append(observables, instrument)
	}

	dropped, err := meter.Int64ObservableCounter(
		internaldefs.AuditDroppedName,
		metric.WithDescription("Session events dropped under dispatcher backpressure."),
	)
	if err != nil {
		return nil, err
	}
	exporter.auditDropped = dropped
	observables = append(observables, dropped)

	registration, err := meter.RegisterCallback(exporter.observe, observables...)
	if err != nil {
		return nil, err
	}
	exporter.registration = registration

	return exporter, nil
}

func (e *OTelExporter) observe(_ context.Context, observer metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()
	for _, counter := range e.counters {
		observer.ObserveInt64(counter.instrument, int64(snapshot.Counters[counter.id]))
	}
	observer.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))
	return nil
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
