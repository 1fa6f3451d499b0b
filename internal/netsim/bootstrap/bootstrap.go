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

// Package bootstrap wires a topology.Graph into a live node registry: one
// TBF/FIFO/Switch per physical device, one (Client, Server) pair per unit of
// each leaf's weight, and the initial UserSwitchOn events that start the
// simulation.
package bootstrap

import (
	"sort"

	"netsim/internal/netsim/controller"
	"netsim/internal/netsim/link"
	"netsim/internal/netsim/switchnode"
	"netsim/internal/netsim/telemetry"
	"netsim/internal/netsim/topology"
	"netsim/internal/netsim/transport/datagram"
	"netsim/internal/netsim/transport/reliable"
	"netsim/pkg/simcore"
)

// Registry is a plain map-backed simcore.Registry, the concrete type every
// node built by Build is collected into.
type Registry map[simcore.NodeAddress]simcore.Node

// Lookup implements simcore.Registry.
func (r Registry) Lookup(addr simcore.NodeAddress) (simcore.Node, bool) {
	n, ok := r[addr]
	return n, ok
}

func (r Registry) add(n simcore.Node) { r[n.Addr()] = n }

// Config holds every dimension the original commented-out aachen_net.rs
// bootstrap left as literal constants on each builder call.
type Config struct {
	LinkBandwidthBps float64 // bits/sec, every FIFO's service rate
	FIFOMaxQueue     int

	ReliableWindowSize int
	ReliableTotalPkts  int
	ReliableMTUBits    uint64
	ReliableT0         float64

	DatagramBitrate  float64
	DatagramT0       float64
	DatagramN        uint64
	DatagramFileSize uint64
	DatagramMTUBits  uint64

	// SessionArrivalRate, Seed and ReportPath record the values handed to
	// controller.New (arrival rate in sessions/sec, mean); Build itself does
	// not read them.
	SessionArrivalRate float64
	Seed               int64
	ReportPath         string
}

// DefaultConfig returns parameters in the same ballpark as the literal
// values the original source's commented-out bootstrap used (999-1001
// bits/sec links, a 1500-byte MTU, a handful of retransmit windows).
func DefaultConfig() Config {
	return Config{
		LinkBandwidthBps:   1000.0,
		FIFOMaxQueue:       40,
		ReliableWindowSize: 8,
		ReliableTotalPkts:  64,
		ReliableMTUBits:    1500 * 8,
		ReliableT0:         1.0,
		DatagramBitrate:    10000.0,
		DatagramT0:         2.0,
		DatagramN:          10,
		DatagramFileSize:   1e5,
		DatagramMTUBits:    1500 * 8,
		SessionArrivalRate: 1.0,
		Seed:               1,
		ReportPath:         "utility_report.csv",
	}
}

// switchAddr and related address helpers give every physical-device
// component a single, unambiguous NodeAddress scheme shared by every
// function below.
func switchAddr(node int) simcore.NodeAddress {
	return simcore.NodeAddress{NodeID: node, ComponentID: simcore.ComponentSwitchUplink}
}
func tbfUpAddr(node int) simcore.NodeAddress {
	return simcore.NodeAddress{NodeID: node, ComponentID: simcore.ComponentTBFUplink}
}
func fifoUpAddr(node int) simcore.NodeAddress {
	return simcore.NodeAddress{NodeID: node, ComponentID: simcore.ComponentNICUplink}
}
func tbfDownAddr(node int) simcore.NodeAddress {
	return simcore.NodeAddress{NodeID: node, ComponentID: simcore.ComponentTBFDownlink}
}
func fifoDownAddr(node int) simcore.NodeAddress {
	return simcore.NodeAddress{NodeID: node, ComponentID: simcore.ComponentNICDownlink}
}
func clientAddr(leaf, componentID int) simcore.NodeAddress {
	return simcore.NodeAddress{NodeID: leaf, ComponentID: componentID}
}
func serverAddr(componentID int) simcore.NodeAddress {
	return simcore.NodeAddress{NodeID: simcore.MainframeID, ComponentID: componentID}
}

// Build instantiates every infrastructure component (TBF, FIFO, Switch) the
// graph implies, one (leaf-side Client, mainframe-side Server) pair per unit
// of each leaf's weight, registers every token-bucket filter with ctrl, and
// returns the populated Registry plus the UserSwitchOn events that kick each
// session off at simulated time zero.
func Build(g *topology.Graph, ctrl *controller.Controller, cfg Config) (Registry, []simcore.Event) {
	reg := make(Registry)
	reg.add(ctrl)

	isLeaf := make(map[int]bool)
	for _, leaf := range g.Leaves() {
		isLeaf[leaf] = true
	}

	nodes := g.Nodes()
	sort.Ints(nodes)

	// Pass 1: one TBF/FIFO uplink-downlink pair per node, plus a Switch at
	// every node including leaves (whose switch delivers straight to the
	// addressed client/server instance by its own NodeID rather than
	// forwarding into a descendant, since leaves may host more than one
	// session's worth of client instances once weight > 1).
	for _, n := range nodes {
		reg.add(switchnode.New(switchAddr(n)))
		if father, ok := g.Father(n); ok {
			reg.add(link.NewTokenBucketFilter(tbfUpAddr(n), fifoUpAddr(n), simcore.DefaultTbfParams()))
			reg.add(link.NewFIFO(fifoUpAddr(n), switchAddr(father), cfg.FIFOMaxQueue, cfg.LinkBandwidthBps))
			ctrl.RegisterTBF(tbfUpAddr(n))

			reg.add(link.NewTokenBucketFilter(tbfDownAddr(n), fifoDownAddr(n), simcore.DefaultTbfParams()))
			reg.add(link.NewFIFO(fifoDownAddr(n), switchAddr(n), cfg.FIFOMaxQueue, cfg.LinkBandwidthBps))
			ctrl.RegisterTBF(tbfDownAddr(n))
		}
	}

	// Pass 2: populate every switch's routing table (leaves get an empty
	// one; their only job is self-node direct delivery) now that every
	// node's TBF/FIFO pair exists to route into.
	for _, n := range nodes {
		sw := reg[switchAddr(n)].(*switchnode.Switch)
		if !isLeaf[n] {
			for leaf, child := range g.Routes(n) {
				sw.AddRoute(leaf, tbfDownAddr(child))
			}
		}
		if father, ok := g.Father(n); ok {
			sw.SetUpRoute(switchAddr(father))
		}
	}

	// Pass 3: for each leaf, spawn one (reliable, datagram) session pair per
	// unit of the leaf's weight (defaulting to 1 when the topology carries
	// no weight column), alternating transport kind across sessions so both
	// stacks get exercised. Every session's client and server share one
	// component_id, monotonically assigned from MinClientID up, unique
	// across the whole topology.
	leaves := g.Leaves()
	sort.Ints(leaves)

	var seed []simcore.Event
	nextComponentID := simcore.MinClientID
	sessionIndex := 0
	for _, leaf := range leaves {
		weight, ok := g.Weight(leaf)
		if !ok || weight == 0 {
			weight = 1
		}
		for i := uint64(0); i < weight; i++ {
			componentID := nextComponentID
			nextComponentID++

			cAddr := clientAddr(leaf, componentID)
			sAddr := serverAddr(componentID)

			if sessionIndex%2 == 0 {
				client := reliable.NewClient(cAddr, tbfUpAddr(leaf), sAddr,
					cfg.ReliableWindowSize, cfg.ReliableT0, 10*cfg.ReliableT0, expectedReliablePLT(cfg))
				server := reliable.NewServer(sAddr, switchAddr(simcore.MainframeID), cAddr,
					cfg.ReliableTotalPkts, cfg.ReliableMTUBits, cfg.ReliableT0)
				reg.add(client)
				reg.add(server)
			} else {
				client := datagram.NewClient(cAddr, tbfUpAddr(leaf), sAddr,
					cfg.DatagramBitrate, cfg.DatagramT0, cfg.DatagramN)
				server := datagram.NewServer(sAddr, switchAddr(simcore.MainframeID), cAddr,
					cfg.DatagramFileSize, cfg.DatagramMTUBits)
				reg.add(client)
				reg.add(server)
			}

			telemetry.SessionStarted()
			seed = append(seed, simcore.Reply(ctrl.Addr(), cAddr, 0, 0, simcore.UserSwitchOnMsg{}))
			sessionIndex++
		}
	}

	return reg, seed
}

// expectedReliablePLT estimates the page-load time a reliable session
// should take at the configured window and total packet count, the
// reliable.Client's "expected" baseline its utility score is measured
// against.
func expectedReliablePLT(cfg Config) float64 {
	rounds := (cfg.ReliableTotalPkts + cfg.ReliableWindowSize - 1) / cfg.ReliableWindowSize
	return float64(rounds) * cfg.ReliableT0
}
