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

// Package simcore provides the wire-level data model shared by every node in
// the simulator: addresses, packets, messages, events and the global,
// process-wide counters that hand out their identifiers.
package simcore

import "fmt"

// NodeAddress names a component inside a physical device. A physical device
// (DSLAM, router, mainframe, endpoint) owns one NodeID; the components living
// inside it (uplink shaper, uplink link, downlink switch, client/server
// instances, ...) are distinguished by ComponentID.
type NodeAddress struct {
	NodeID      int
	ComponentID int
}

// String renders the address as "node:component", used in log lines and
// panic messages throughout the package.
func (a NodeAddress) String() string {
	return fmt.Sprintf("%d:%d", a.NodeID, a.ComponentID)
}

// Less gives NodeAddress a total order: by NodeID, then ComponentID.
func (a NodeAddress) Less(b NodeAddress) bool {
	if a.NodeID != b.NodeID {
		return a.NodeID < b.NodeID
	}
	return a.ComponentID < b.ComponentID
}

// Reserved component IDs, shared across every node address in the topology.
const (
	ComponentTBFUplink      = 10
	ComponentNICUplink      = 11
	ComponentSwitchUplink   = 12
	ComponentTBFDownlink    = 20
	ComponentNICDownlink    = 21
	ComponentSwitchDownlink = 22

	// MainframeID is the node_id of the core/mainframe device, the root of
	// the topology graph.
	MainframeID = 0

	// MinClientID is the first component_id a client or server instance may
	// use; anything below it names an infrastructure component (TBF, NIC,
	// switch).
	MinClientID = 100
)

// ControllerAddr is the fixed address of the session-arrival / utility
// controller singleton.
var ControllerAddr = NodeAddress{NodeID: MainframeID, ComponentID: 0}
