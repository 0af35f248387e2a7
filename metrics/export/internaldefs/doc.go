// Package internaldefs holds the shared counter definitions used by the
// Prometheus and OTel exporters so both expose identical metric names.
// It is internal to the exporters; applications import the exporter
// packages, not this one.
package internaldefs
