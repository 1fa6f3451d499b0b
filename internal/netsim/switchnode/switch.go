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

// Package switchnode implements the stateless forwarding element every
// physical device carries on its uplink and downlink faces.
package switchnode

import (
	"fmt"

	"netsim/pkg/simcore"
)

// Switch forwards Data messages according to a routing table keyed by the
// packet's destination node id. It carries no per-packet state: a route
// miss is a topology bug and panics rather than silently dropping traffic.
type Switch struct {
	addr      simcore.NodeAddress
	routing   map[int]simcore.NodeAddress
	upRoute   simcore.NodeAddress
	hasUpRoute bool
}

// New returns an empty Switch addressed at addr.
func New(addr simcore.NodeAddress) *Switch {
	return &Switch{addr: addr, routing: make(map[int]simcore.NodeAddress)}
}

// AddRoute installs a forwarding entry: packets destined for destNodeID are
// delivered to nextHop. Used for every descendant leaf this switch's node
// has a path toward.
func (s *Switch) AddRoute(destNodeID int, nextHop simcore.NodeAddress) {
	s.routing[destNodeID] = nextHop
}

// SetUpRoute installs the catch-all forwarding entry for traffic addressed
// to anything other than a descendant leaf or this switch's own device:
// toward the father's switch, one hop closer to the core.
func (s *Switch) SetUpRoute(nextHop simcore.NodeAddress) {
	s.upRoute = nextHop
	s.hasUpRoute = true
}

// Addr implements simcore.Node.
func (s *Switch) Addr() simcore.NodeAddress { return s.addr }

// Process implements simcore.Node.
func (s *Switch) Process(msg simcore.Message, now float64) []simcore.Event {
	data, ok := msg.(simcore.DataMsg)
	if !ok {
		panic(fmt.Sprintf("switch %s: unexpected message %#v", s.addr, msg))
	}
	dst := data.Packet.Dst

	// The packet has reached its own physical device and names a client or
	// server instance directly (not an infrastructure component), so
	// deliver straight to it instead of consulting the leaf routing table.
	if dst.NodeID == s.addr.NodeID && dst.ComponentID >= simcore.MinClientID {
		return []simcore.Event{simcore.Reply(s.addr, dst, now, 0, data)}
	}
	if nextHop, ok := s.routing[dst.NodeID]; ok {
		return []simcore.Event{simcore.Reply(s.addr, nextHop, now, 0, data)}
	}
	if s.hasUpRoute {
		return []simcore.Event{simcore.Reply(s.addr, s.upRoute, now, 0, data)}
	}
	panic(fmt.Sprintf("switch %s: no route to node %d", s.addr, dst.NodeID))
}
