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

package switchnode

import (
	"testing"

	"netsim/pkg/simcore"
)

func TestSwitchForwardsByRoute(t *testing.T) {
	self := simcore.NodeAddress{NodeID: 1, ComponentID: simcore.ComponentSwitchUplink}
	nextHop := simcore.NodeAddress{NodeID: 2, ComponentID: simcore.ComponentNICDownlink}
	sw := New(self)
	sw.AddRoute(2, nextHop)

	pkt := simcore.NewPacket(1, 100, simcore.UDPData{}, 0, self, simcore.NodeAddress{NodeID: 2})
	events := sw.Process(simcore.DataMsg{Packet: pkt}, 1.0)
	if len(events) != 1 {
		t.Fatalf("Process() = %d events, want 1", len(events))
	}
	if events[0].Recipient != nextHop {
		t.Fatalf("forwarded to %v, want %v", events[0].Recipient, nextHop)
	}
	if events[0].Time != 1.0 {
		t.Fatalf("forwarded at time %v, want 1.0 (switch adds no delay)", events[0].Time)
	}
}

func TestSwitchDeliversDirectlyToOwnDevice(t *testing.T) {
	self := simcore.NodeAddress{NodeID: 0, ComponentID: simcore.ComponentSwitchUplink}
	sw := New(self)
	serverAddr := simcore.NodeAddress{NodeID: 0, ComponentID: 150}

	pkt := simcore.NewPacket(1, 100, simcore.UDPData{}, 0, self, serverAddr)
	events := sw.Process(simcore.DataMsg{Packet: pkt}, 2.0)
	if len(events) != 1 || events[0].Recipient != serverAddr {
		t.Fatalf("Process() routed %#v, want direct delivery to %v", events, serverAddr)
	}
}

func TestSwitchFallsBackToUpRoute(t *testing.T) {
	self := simcore.NodeAddress{NodeID: 2, ComponentID: simcore.ComponentSwitchUplink}
	up := simcore.NodeAddress{NodeID: 1, ComponentID: simcore.ComponentSwitchUplink}
	sw := New(self)
	sw.SetUpRoute(up)

	pkt := simcore.NewPacket(1, 100, simcore.UDPData{}, 0, self, simcore.NodeAddress{NodeID: 0, ComponentID: 150})
	events := sw.Process(simcore.DataMsg{Packet: pkt}, 0)
	if len(events) != 1 || events[0].Recipient != up {
		t.Fatalf("Process() routed %#v, want up-route to %v", events, up)
	}
}

func TestSwitchPanicsOnMissingRoute(t *testing.T) {
	self := simcore.NodeAddress{NodeID: 1, ComponentID: simcore.ComponentSwitchUplink}
	sw := New(self)
	pkt := simcore.NewPacket(1, 100, simcore.UDPData{}, 0, self, simcore.NodeAddress{NodeID: 99})

	defer func() {
		if recover() == nil {
			t.Fatal("Process() with no matching route did not panic")
		}
	}()
	sw.Process(simcore.DataMsg{Packet: pkt}, 0)
}
