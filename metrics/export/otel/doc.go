// Package otel bridges ketenauth session counters onto an OpenTelemetry
// meter as observable counters. Values are read from a controller snapshot
// at collection time; no per-operation instrumentation cost is added.
package otel
