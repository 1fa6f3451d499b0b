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
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// UtilityRecord is one reported QoS score, durable beyond the append-only
// CSV report if a LedgerStore backend is attached.
type UtilityRecord struct {
	ComponentID int
	Utility     float64
	Notes       string
	ReportID    int64
}

// LedgerStore mirrors the teacher's idempotent-persister shape: a batch
// commit keyed by a stable id, safe to retry. The simulator's default run
// needs no durability beyond the CSV report, so MemoryLedger is what most
// runs use; RedisLedger is available for runs that want the utility ledger
// to survive a process restart.
type LedgerStore interface {
	CommitBatch(ctx context.Context, records []UtilityRecord) error
}

// MemoryLedger keeps the full report history in memory. This is the
// zero-dependency default; it satisfies LedgerStore without touching any
// external system.
type MemoryLedger struct {
	records []UtilityRecord
}

// NewMemoryLedger returns an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger { return &MemoryLedger{} }

// CommitBatch appends records to the in-memory history.
func (m *MemoryLedger) CommitBatch(_ context.Context, records []UtilityRecord) error {
	m.records = append(m.records, records...)
	return nil
}

// Records returns every record committed so far, for tests and inspection.
func (m *MemoryLedger) Records() []UtilityRecord {
	out := make([]UtilityRecord, len(m.records))
	copy(out, m.records)
	return out
}

// RedisEvaler abstracts the minimal surface RedisLedger needs from a client,
// matching the shape github.com/redis/go-redis/v9's Client.Eval satisfies.
type RedisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error)
}

// goRedisEvaler adapts a live *redis.Client to RedisEvaler: go-redis's own
// Eval returns a *redis.Cmd rather than the (interface{}, error) pair a
// plain idempotent-commit abstraction wants, so this unwraps it with
// Result().
type goRedisEvaler struct{ client *redis.Client }

// NewGoRedisLedger returns a RedisLedger backed by a live go-redis client.
func NewGoRedisLedger(client *redis.Client, markerTTL time.Duration) *RedisLedger {
	return NewRedisLedger(goRedisEvaler{client: client}, markerTTL)
}

func (g goRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	return g.client.Eval(ctx, script, keys, args...).Result()
}

// RedisLedger commits utility reports idempotently: each record's ReportID
// guards against double-counting a retried commit the way a retried
// financial transaction is guarded by an idempotency key.
type RedisLedger struct {
	client    RedisEvaler
	markerTTL time.Duration
}

// NewRedisLedger returns a ledger backed by client, with markers expiring
// after markerTTL (defaulting to 24h if non-positive).
func NewRedisLedger(client RedisEvaler, markerTTL time.Duration) *RedisLedger {
	if markerTTL <= 0 {
		markerTTL = 24 * time.Hour
	}
	return &RedisLedger{client: client, markerTTL: markerTTL}
}

// ledgerCommitScript guards a per-report append with a SETNX marker, then
// pushes the CSV-shaped value onto the component's list, mirroring the
// idempotent counter-update script this simulator's ledger is modeled on.
const ledgerCommitScript = `
local listKey = KEYS[1]
local markerKey = KEYS[2]
local value = ARGV[1]
local ttlSeconds = tonumber(ARGV[2])
local set = redis.call('SETNX', markerKey, 1)
if set == 1 then
  redis.call('RPUSH', listKey, value)
  if ttlSeconds and ttlSeconds > 0 then
    redis.call('EXPIRE', markerKey, ttlSeconds)
  end
  return 1
else
  return 0
end
`

func ledgerListKey(componentID int) string {
	return fmt.Sprintf("netsim:utility:%d", componentID)
}

func ledgerMarkerKey(componentID int, reportID int64) string {
	return fmt.Sprintf("netsim:utility-commit:%d:%d", componentID, reportID)
}

// CommitBatch applies each record's append idempotently keyed on ReportID.
func (r *RedisLedger) CommitBatch(ctx context.Context, records []UtilityRecord) error {
	for _, rec := range records {
		keys := []string{ledgerListKey(rec.ComponentID), ledgerMarkerKey(rec.ComponentID, rec.ReportID)}
		value := fmt.Sprintf("%d,%.14f,%s", rec.ComponentID, rec.Utility, rec.Notes)
		args := []interface{}{value, int(r.markerTTL.Seconds())}
		if _, err := r.client.Eval(ctx, ledgerCommitScript, keys, args...); err != nil {
			return fmt.Errorf("redis ledger commit component=%d report=%d: %w", rec.ComponentID, rec.ReportID, err)
		}
	}
	return nil
}
