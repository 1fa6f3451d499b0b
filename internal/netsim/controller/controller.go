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
	"math/rand"

	"netsim/internal/netsim/simlog"
	"netsim/internal/netsim/telemetry"
	"netsim/pkg/simcore"
)

// sessionArrivalHorizon bounds how long the controller keeps re-arming new
// sessions on a client that just finished one: past this virtual time, the
// population of active users is considered to have stopped growing.
const sessionArrivalHorizon = 50.0

// Controller is the network-wide singleton that seeds new client sessions
// and collects every reported utility score. It also owns the live
// TbfParams for every token-bucket filter in the topology, the handle
// through which a future admission-control policy would reconfigure them.
type Controller struct {
	rng        *rand.Rand
	arrivalRate float64 // sessions/sec, mean of the interarrival distribution

	utilities map[simcore.NodeAddress]float64
	tbfParams map[simcore.NodeAddress]simcore.TbfParams

	sink   *reportSink
	ledger LedgerStore

	nextReportID int64
	pending      []UtilityRecord
}

// Option configures a Controller at construction time.
type Option func(*Controller)

// WithLedger attaches a durability backend beyond the CSV report file.
func WithLedger(l LedgerStore) Option {
	return func(c *Controller) { c.ledger = l }
}

// New returns a Controller whose session interarrival times are drawn from
// an exponential distribution with the given mean rate (sessions/sec),
// seeded by seed, writing its utility report to reportPath.
func New(arrivalRate float64, seed int64, reportPath string, opts ...Option) *Controller {
	c := &Controller{
		rng:         rand.New(rand.NewSource(seed)),
		arrivalRate: arrivalRate,
		utilities:   make(map[simcore.NodeAddress]float64),
		tbfParams:   make(map[simcore.NodeAddress]simcore.TbfParams),
		sink:        newReportSink(reportPath),
		ledger:      NewMemoryLedger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Addr implements simcore.Node.
func (c *Controller) Addr() simcore.NodeAddress { return simcore.ControllerAddr }

// RegisterTBF seeds addr's shaping parameters at the simulator-wide default,
// so the controller always has a current value to hand back on a future
// RecomputeParams-driven reconfiguration.
func (c *Controller) RegisterTBF(addr simcore.NodeAddress) {
	c.tbfParams[addr] = simcore.DefaultTbfParams()
}

// TbfParams returns the live shaping parameters registered for addr.
func (c *Controller) TbfParams(addr simcore.NodeAddress) (simcore.TbfParams, bool) {
	p, ok := c.tbfParams[addr]
	return p, ok
}

// Process implements simcore.Node.
func (c *Controller) Process(msg simcore.Message, now float64) []simcore.Event {
	switch m := msg.(type) {
	case simcore.ReportUtilityMsg:
		return c.onReportUtility(m, now)
	case simcore.RecomputeParamsMsg:
		// Reserved for a future admission-control policy that adjusts
		// registered TBF parameters from aggregated utility; no-op today.
		return nil
	default:
		panic(fmt.Sprintf("controller: unexpected message %#v", msg))
	}
}

func (c *Controller) onReportUtility(m simcore.ReportUtilityMsg, now float64) []simcore.Event {
	c.utilities[m.NodeAddr] = m.Utility
	simlog.Debugf("controller: utility %.6f reported by client %s", m.Utility, m.NodeAddr)
	telemetry.SessionEnded(m.Utility)

	reportID := c.nextReportID
	c.nextReportID++
	c.pending = append(c.pending, UtilityRecord{
		ComponentID: m.NodeAddr.ComponentID,
		Utility:     m.Utility,
		Notes:       m.Notes,
		ReportID:    reportID,
	})

	if err := c.sink.Write(m.NodeAddr.ComponentID, m.Utility, m.Notes); err != nil {
		simlog.Infof("controller: report write failed: %v", err)
	}
	if err := c.flushLedger(); err != nil {
		simlog.Infof("controller: ledger commit failed: %v", err)
	}

	if now >= sessionArrivalHorizon {
		return nil
	}
	interarrival := c.rng.ExpFloat64() / c.arrivalRate
	telemetry.SessionStarted()
	return []simcore.Event{simcore.Reply(c.Addr(), m.NodeAddr, now, interarrival, simcore.UserSwitchOnMsg{})}
}

func (c *Controller) flushLedger() error {
	if len(c.pending) == 0 {
		return nil
	}
	err := c.ledger.CommitBatch(context.Background(), c.pending)
	telemetry.ReportCommitted(err)
	c.pending = c.pending[:0]
	return err
}

// Close flushes the CSV report to disk. The teacher's equivalent sinks flush
// on every write threshold and again on shutdown; this mirrors that for the
// controller's own buffer.
func (c *Controller) Close() error {
	return c.sink.Flush()
}
