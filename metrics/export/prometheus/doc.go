// Package prometheus renders ketenauth session counters in the Prometheus
// text exposition format, without depending on the Prometheus client
// library. Mount [PrometheusExporter.Handler] on a metrics route.
package prometheus
