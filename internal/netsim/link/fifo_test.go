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

package link

import (
	"testing"

	"netsim/pkg/simcore"
)

func addrs() (simcore.NodeAddress, simcore.NodeAddress) {
	return simcore.NodeAddress{NodeID: 1, ComponentID: simcore.ComponentNICUplink},
		simcore.NodeAddress{NodeID: 1, ComponentID: simcore.ComponentSwitchUplink}
}

func TestFIFOIdleToTransmitting(t *testing.T) {
	self, dest := addrs()
	f := NewFIFO(self, dest, 10, 1_000_000)

	pkt := simcore.NewPacket(1, 8_000, simcore.TCPData{Seq: 0, SeqEnd: 1}, 0, self, dest)
	events := f.Process(simcore.DataMsg{Packet: pkt}, 0)
	if len(events) != 1 {
		t.Fatalf("Process(Data) on idle queue produced %d events, want 1", len(events))
	}
	if events[0].Recipient != self {
		t.Fatalf("follow-up recipient = %v, want self %v", events[0].Recipient, self)
	}

	events = f.Process(events[0].Message, events[0].Time)
	if len(events) != 2 {
		t.Fatalf("Process(MoveToStatus Transmitting) produced %d events, want 2", len(events))
	}
	if events[0].Recipient != dest {
		t.Fatalf("data forward recipient = %v, want dest %v", events[0].Recipient, dest)
	}
	if f.NPktServed != 1 {
		t.Fatalf("NPktServed = %d, want 1", f.NPktServed)
	}
}

func TestFIFODropsWhenFull(t *testing.T) {
	self, dest := addrs()
	f := NewFIFO(self, dest, 1, 1_000_000)

	pkt1 := simcore.NewPacket(1, 8_000, simcore.TCPData{Seq: 0, SeqEnd: 1}, 0, self, dest)
	events := f.Process(simcore.DataMsg{Packet: pkt1}, 0) // idle -> queued, self-move to Transmitting
	f.Process(events[0].Message, events[0].Time)          // pkt1 leaves the queue and goes into service

	pkt2 := simcore.NewPacket(1, 8_000, simcore.TCPData{Seq: 1, SeqEnd: 2}, 0, self, dest)
	f.Process(simcore.DataMsg{Packet: pkt2}, 0)

	pkt3 := simcore.NewPacket(1, 8_000, simcore.TCPData{Seq: 2, SeqEnd: 3}, 0, self, dest)
	f.Process(simcore.DataMsg{Packet: pkt3}, 0)

	if f.NPktLost != 1 {
		t.Fatalf("NPktLost = %d, want 1", f.NPktLost)
	}
}

func TestFIFODecideReturnsToIdleWhenEmpty(t *testing.T) {
	self, dest := addrs()
	f := NewFIFO(self, dest, 10, 1_000_000)
	f.status = fifoDecide

	events := f.Process(simcore.MoveToStatusMsg{Status: fifoDecide}, 1.0)
	if len(events) != 1 {
		t.Fatalf("Decide on empty queue produced %d events, want 1", len(events))
	}
	if events[0].Message.(simcore.MoveToStatusMsg).Status.(fifoStatus) != fifoIdle {
		t.Fatalf("Decide on empty queue should move to Idle")
	}
}
