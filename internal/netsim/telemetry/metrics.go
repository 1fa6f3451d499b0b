// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package telemetry exposes the simulator's Prometheus metrics: one set of
// global counters/gauges, label-keyed by the component's NodeAddress string,
// registered eagerly so a caller that never starts the /metrics endpoint
// still pays nothing beyond the registration.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	packetsServedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netsim_packets_served_total",
		Help: "Total packets a link-layer queue has dequeued and forwarded",
	}, []string{"component"})

	packetsLostTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netsim_packets_lost_total",
		Help: "Total packets tail-dropped by a full FIFO or token-bucket queue",
	}, []string{"component"})

	queueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "netsim_queue_depth",
		Help: "Packets currently waiting in a link-layer queue",
	}, []string{"component"})

	tbfTokens = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "netsim_tbf_tokens",
		Help: "Current token pool level of a token-bucket filter",
	}, []string{"component"})

	eventsProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netsim_events_processed_total",
		Help: "Total events the loop has delivered, zero-time expansions included",
	})

	sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "netsim_sessions_active",
		Help: "Number of client sessions the controller has started but not yet reported utility for",
	})

	sessionUtility = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "netsim_session_utility",
		Help:    "Distribution of reported session utility scores (0..1, or -1 for an unusable datagram session)",
		Buckets: []float64{0.1, 0.25, 0.5, 0.75, 0.9, 0.95, 0.99, 1.0},
	})

	reportsCommittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netsim_utility_reports_committed_total",
		Help: "Total utility reports the controller has flushed to its ledger",
	})

	ledgerCommitErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netsim_ledger_commit_errors_total",
		Help: "Total ledger commit attempts that returned an error",
	})
)

func init() {
	prometheus.MustRegister(
		packetsServedTotal, packetsLostTotal, queueDepth, tbfTokens,
		eventsProcessedTotal,
		sessionsActive, sessionUtility,
		reportsCommittedTotal, ledgerCommitErrorsTotal,
	)
}

// RecordServed increments the served-packet counter for component.
func RecordServed(component string) { packetsServedTotal.WithLabelValues(component).Inc() }

// RecordLost increments the lost-packet counter for component.
func RecordLost(component string) { packetsLostTotal.WithLabelValues(component).Inc() }

// SetQueueDepth reports component's current queue occupancy.
func SetQueueDepth(component string, depth int) {
	queueDepth.WithLabelValues(component).Set(float64(depth))
}

// SetTBFTokens reports component's current token-bucket pool level.
func SetTBFTokens(component string, tokens float64) {
	tbfTokens.WithLabelValues(component).Set(tokens)
}

// EventProcessed increments the loop-wide dispatched-event counter.
func EventProcessed() { eventsProcessedTotal.Inc() }

// SessionStarted increments the active-session gauge.
func SessionStarted() { sessionsActive.Inc() }

// SessionEnded decrements the active-session gauge and records the
// session's final utility score.
func SessionEnded(utility float64) {
	sessionsActive.Dec()
	sessionUtility.Observe(utility)
}

// ReportCommitted increments the ledger-commit counter, or the error
// counter if err is non-nil.
func ReportCommitted(err error) {
	if err != nil {
		ledgerCommitErrorsTotal.Inc()
		return
	}
	reportsCommittedTotal.Inc()
}

// Handler returns the promhttp handler the CLI mounts at /metrics.
func Handler() http.Handler { return promhttp.Handler() }

// Serve starts a dedicated metrics HTTP server on addr in the background.
// Mirrors the teacher's single-purpose metrics listener: a minimal
// ServeMux carrying nothing but /metrics.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		_ = server.ListenAndServe()
	}()
}
