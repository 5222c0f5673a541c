// Package metrics records release-run timings and outcomes.
//
// Components receive a Recorder and never check for nil: NoopRecorder is the default and the
// Prometheus implementation is swapped in when the CLI is given --metrics-file. After a run
// the registry is written once in the Prometheus text exposition format, ready for a
// node_exporter textfile collector.
package metrics
