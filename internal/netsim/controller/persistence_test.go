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

package controller

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedisEvaler struct {
	calls   int
	markers map[string]bool
}

func newFakeRedisEvaler() *fakeRedisEvaler {
	return &fakeRedisEvaler{markers: make(map[string]bool)}
}

func (f *fakeRedisEvaler) Eval(_ context.Context, _ string, keys []string, _ ...interface{}) (interface{}, error) {
	f.calls++
	markerKey := keys[1]
	if f.markers[markerKey] {
		return int64(0), nil
	}
	f.markers[markerKey] = true
	return int64(1), nil
}

func TestRedisLedgerCommitsEachRecord(t *testing.T) {
	evaler := newFakeRedisEvaler()
	ledger := NewRedisLedger(evaler, 0)

	records := []UtilityRecord{
		{ComponentID: 100, Utility: 0.9, ReportID: 0},
		{ComponentID: 100, Utility: 0.8, ReportID: 1},
	}
	if err := ledger.CommitBatch(context.Background(), records); err != nil {
		t.Fatalf("CommitBatch() error = %v", err)
	}
	if evaler.calls != 2 {
		t.Fatalf("Eval calls = %d, want 2", evaler.calls)
	}
}

func TestRedisLedgerIdempotentOnRetry(t *testing.T) {
	evaler := newFakeRedisEvaler()
	ledger := NewRedisLedger(evaler, 0)

	rec := []UtilityRecord{{ComponentID: 5, Utility: 0.5, ReportID: 7}}
	ledger.CommitBatch(context.Background(), rec)
	ledger.CommitBatch(context.Background(), rec) // retry with same ReportID

	if evaler.calls != 2 {
		t.Fatalf("Eval calls = %d, want 2 (both attempted, second is a marker no-op)", evaler.calls)
	}
	if len(evaler.markers) != 1 {
		t.Fatalf("distinct markers = %d, want 1 (retry reused the same marker key)", len(evaler.markers))
	}
}

func TestNewGoRedisLedgerWiresARealClient(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { client.Close() })

	ledger := NewGoRedisLedger(client, 5*time.Minute)
	if ledger == nil {
		t.Fatal("NewGoRedisLedger() returned nil")
	}
	if ledger.markerTTL != 5*time.Minute {
		t.Fatalf("markerTTL = %v, want 5m", ledger.markerTTL)
	}
}
