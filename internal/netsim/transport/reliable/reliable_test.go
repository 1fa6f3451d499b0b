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

package reliable

import (
	"testing"

	"netsim/pkg/simcore"
)

func serverAddrs() (self, nextHop, dst simcore.NodeAddress) {
	return simcore.NodeAddress{NodeID: 0, ComponentID: 100},
		simcore.NodeAddress{NodeID: 0, ComponentID: simcore.ComponentSwitchDownlink},
		simcore.NodeAddress{NodeID: 1, ComponentID: 100}
}

func TestServerInitSessionStartsTransmitting(t *testing.T) {
	self, nextHop, dst := serverAddrs()
	s := NewServer(self, nextHop, dst, 4, 8000, 1.0)

	events := s.Process(simcore.DataMsg{Packet: simcore.NewPacket(1, simcore.EmptyControlFrameBits,
		simcore.TCPDataRequest{WindowSize: 2}, 0, dst, self)}, 0)
	if len(events) != 1 {
		t.Fatalf("TCPDataRequest produced %d events, want 1 (MoveToStatus InitSession)", len(events))
	}

	events = s.Process(events[0].Message, events[0].Time)
	if len(events) != 1 {
		t.Fatalf("InitSession produced %d events, want 1 (MoveToStatus TransmitDecide)", len(events))
	}

	events = s.Process(events[0].Message, events[0].Time)
	if len(events) != 1 {
		t.Fatalf("TransmitDecide (empty window) produced %d events, want 1 (MoveToStatus TransmitPacket)", len(events))
	}

	events = s.Process(events[0].Message, events[0].Time)
	if len(events) != 2 {
		t.Fatalf("TransmitPacket produced %d events, want 2 (repeat timeout + data send)", len(events))
	}
	if s.conn.b != 1 {
		t.Fatalf("conn.b after first TransmitPacket = %d, want 1", s.conn.b)
	}
}

func TestServerFinalAckMovesToIdle(t *testing.T) {
	self, nextHop, dst := serverAddrs()
	s := NewServer(self, nextHop, dst, 2, 8000, 1.0)
	s.status = serverTransmitWait
	s.conn = connParams{sessionID: 7, n: 2, a: 0, b: 0}
	s.creationTimes[1] = 0

	ackPkt := simcore.NewPacket(7, simcore.EmptyControlFrameBits, simcore.TCPAck{Seq: 2}, 1.0, dst, self)
	events := s.Process(simcore.DataMsg{Packet: ackPkt}, 1.0)
	if len(events) != 1 {
		t.Fatalf("final ACK produced %d events, want 1 (MoveToStatus Idle)", len(events))
	}
	status := events[0].Message.(simcore.MoveToStatusMsg).Status.(serverStatus)
	if status != serverIdle {
		t.Fatalf("final ACK should move server to Idle, got status %d", status)
	}
}

func TestServerIgnoresStaleAck(t *testing.T) {
	self, nextHop, dst := serverAddrs()
	s := NewServer(self, nextHop, dst, 4, 8000, 1.0)
	s.status = serverTransmitWait
	s.conn = connParams{sessionID: 7, n: 2, a: 3, b: 3}

	ackPkt := simcore.NewPacket(7, simcore.EmptyControlFrameBits, simcore.TCPAck{Seq: 2}, 1.0, dst, self)
	events := s.Process(simcore.DataMsg{Packet: ackPkt}, 1.0)
	if len(events) != 0 {
		t.Fatalf("stale ACK (seq <= a) produced %d events, want 0", len(events))
	}
}

func clientAddrs() (self, nextHop, dst simcore.NodeAddress) {
	return simcore.NodeAddress{NodeID: 5, ComponentID: 100},
		simcore.NodeAddress{NodeID: 5, ComponentID: simcore.ComponentSwitchUplink},
		simcore.NodeAddress{NodeID: 0, ComponentID: 100}
}

func TestClientUserSwitchOnStartsRequest(t *testing.T) {
	self, nextHop, dst := clientAddrs()
	c := NewClient(self, nextHop, dst, 4, 0.5, 5.0, 2.0)

	events := c.Process(simcore.UserSwitchOnMsg{}, 0)
	if len(events) != 1 {
		t.Fatalf("UserSwitchOn produced %d events, want 1", len(events))
	}
	events = c.Process(events[0].Message, events[0].Time)
	if len(events) != 2 {
		t.Fatalf("RequestInit produced %d events, want 2 (RequestWait self-event + unusable timeout)", len(events))
	}
}

func TestClientRequestWaitSendsPacketToNextHop(t *testing.T) {
	self, nextHop, dst := clientAddrs()
	c := NewClient(self, nextHop, dst, 4, 0.5, 5.0, 2.0)

	events := c.onMoveToStatus(clientStatus{kind: clientRequestWait, sessionID: 9}, 0)
	if len(events) != 2 {
		t.Fatalf("RequestWait produced %d events, want 2", len(events))
	}
	if events[0].Recipient != nextHop {
		t.Fatalf("request recipient = %v, want next hop %v", events[0].Recipient, nextHop)
	}
}

func TestClientEvaluateReportsUtilityToController(t *testing.T) {
	self, nextHop, dst := clientAddrs()
	c := NewClient(self, nextHop, dst, 4, 0.5, 5.0, 2.0)
	c.startingTime = 0

	events := c.onMoveToStatus(clientStatus{kind: clientEvaluate, sessionID: 3}, 2.0)
	if len(events) != 2 {
		t.Fatalf("Evaluate produced %d events, want 2 (self Idle + report)", len(events))
	}
	if events[1].Recipient != simcore.ControllerAddr {
		t.Fatalf("utility report recipient = %v, want controller %v", events[1].Recipient, simcore.ControllerAddr)
	}
	if _, ok := events[1].Message.(simcore.ReportUtilityMsg); !ok {
		t.Fatalf("second event message = %#v, want ReportUtilityMsg", events[1].Message)
	}
}
