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

package simcore

// PacketKind is the wire-analog payload tag carried by every Packet. The
// concrete types below are its only implementations; a type switch on Kind
// is how every node interprets a Packet.
type PacketKind interface{ packetKind() }

// TCPDataRequest opens a reliable-transport session.
type TCPDataRequest struct{ WindowSize int }

// TCPData carries one reliable-transport payload chunk.
type TCPData struct {
	Seq    int
	SeqEnd int
	// RTT is the server's own pkt+ack transmission-time estimate, if it has
	// collected enough samples to offer one.
	RTT    float64
	HasRTT bool
}

// TCPAck is a cumulative ACK: Seq is "all packets with index < Seq received".
type TCPAck struct{ Seq int }

// UDPDataRequest opens a datagram-transport session at the given bitrate.
type UDPDataRequest struct{ Bitrate float64 }

// UDPData carries one datagram-transport payload chunk.
type UDPData struct{}

// UDPFinishRequest asks the datagram server to stop sending.
type UDPFinishRequest struct{}

// UDPFinish announces datagram-transport completion.
type UDPFinish struct{ FileSize uint64 }

// DataStop is a reserved, never-produced stop probe (spec §9 Open Questions).
type DataStop struct{}

func (TCPDataRequest) packetKind()  {}
func (TCPData) packetKind()         {}
func (TCPAck) packetKind()          {}
func (UDPDataRequest) packetKind()  {}
func (UDPData) packetKind()         {}
func (UDPFinishRequest) packetKind() {}
func (UDPFinish) packetKind()       {}
func (DataStop) packetKind()        {}

// Packet is an immutable record carrying one unit of simulated traffic.
type Packet struct {
	ID           int64
	SessionID    int64
	Size         uint64 // bits
	Kind         PacketKind
	CreationTime float64
	Src          NodeAddress
	Dst          NodeAddress
}

// NewPacket stamps a fresh, globally unique packet id and returns the value.
func NewPacket(sessionID int64, size uint64, kind PacketKind, now float64, src, dst NodeAddress) Packet {
	return Packet{
		ID:           NextPacketID(),
		SessionID:    sessionID,
		Size:         size,
		Kind:         kind,
		CreationTime: now,
		Src:          src,
		Dst:          dst,
	}
}
