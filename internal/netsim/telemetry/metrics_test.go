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

package telemetry

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordServedAndLostIncrementPerComponent(t *testing.T) {
	before := testutil.ToFloat64(packetsServedTotal.WithLabelValues("node-1"))
	RecordServed("node-1")
	RecordServed("node-1")
	after := testutil.ToFloat64(packetsServedTotal.WithLabelValues("node-1"))
	if after-before != 2 {
		t.Fatalf("packetsServedTotal delta = %v, want 2", after-before)
	}

	beforeLost := testutil.ToFloat64(packetsLostTotal.WithLabelValues("node-2"))
	RecordLost("node-2")
	afterLost := testutil.ToFloat64(packetsLostTotal.WithLabelValues("node-2"))
	if afterLost-beforeLost != 1 {
		t.Fatalf("packetsLostTotal delta = %v, want 1", afterLost-beforeLost)
	}
}

func TestSetQueueDepthReportsLastValue(t *testing.T) {
	SetQueueDepth("node-3", 7)
	if got := testutil.ToFloat64(queueDepth.WithLabelValues("node-3")); got != 7 {
		t.Fatalf("queueDepth = %v, want 7", got)
	}
	SetQueueDepth("node-3", 2)
	if got := testutil.ToFloat64(queueDepth.WithLabelValues("node-3")); got != 2 {
		t.Fatalf("queueDepth = %v, want 2", got)
	}
}

func TestSessionStartedAndEndedTrackActiveGauge(t *testing.T) {
	before := testutil.ToFloat64(sessionsActive)
	SessionStarted()
	SessionStarted()
	SessionEnded(0.8)
	after := testutil.ToFloat64(sessionsActive)
	if after-before != 1 {
		t.Fatalf("sessionsActive delta = %v, want 1", after-before)
	}
}

func TestReportCommittedSplitsSuccessAndError(t *testing.T) {
	beforeOK := testutil.ToFloat64(reportsCommittedTotal)
	ReportCommitted(nil)
	afterOK := testutil.ToFloat64(reportsCommittedTotal)
	if afterOK-beforeOK != 1 {
		t.Fatalf("reportsCommittedTotal delta = %v, want 1", afterOK-beforeOK)
	}

	beforeErr := testutil.ToFloat64(ledgerCommitErrorsTotal)
	ReportCommitted(errors.New("boom"))
	afterErr := testutil.ToFloat64(ledgerCommitErrorsTotal)
	if afterErr-beforeErr != 1 {
		t.Fatalf("ledgerCommitErrorsTotal delta = %v, want 1", afterErr-beforeErr)
	}
}

func TestSetTBFTokensReportsLastValue(t *testing.T) {
	SetTBFTokens("tbf-1", 12.5)
	if got := testutil.ToFloat64(tbfTokens.WithLabelValues("tbf-1")); got != 12.5 {
		t.Fatalf("tbfTokens = %v, want 12.5", got)
	}
}

func TestEventProcessedIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(eventsProcessedTotal)
	EventProcessed()
	after := testutil.ToFloat64(eventsProcessedTotal)
	if after-before != 1 {
		t.Fatalf("eventsProcessedTotal delta = %v, want 1", after-before)
	}
}

func TestHandlerIsNonNil(t *testing.T) {
	if Handler() == nil {
		t.Fatal("Handler() returned nil")
	}
}
