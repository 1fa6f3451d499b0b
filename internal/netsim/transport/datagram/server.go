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

// Package datagram implements the unacknowledged, bitrate-paced transport: a
// Server streaming a fixed-size file at a client-chosen bitrate and a Client
// measuring loss and mean per-packet delay against it, ending in an explicit FINISH
// handshake rather than a sequence-number cutoff.
package datagram

import (
	"fmt"

	"netsim/pkg/simcore"
)

type serverStatusKind int

const (
	serverIdle serverStatusKind = iota
	serverDataSend
	serverDataWait
	serverFinishSend
)

type serverStatus struct {
	kind      serverStatusKind
	sessionID int64
	bitrate   float64
	dataSent  uint64
}

func (s serverStatus) sessionIDOrNone() (int64, bool) {
	if s.kind == serverIdle {
		return 0, false
	}
	return s.sessionID, true
}

// Server streams fileSize bits to one client at the bitrate it requests,
// mtuBits per packet, until the whole file has been sent or the client sends
// a FinishRequest, and then sends one FINISH packet.
type Server struct {
	addr     simcore.NodeAddress
	nextHop  simcore.NodeAddress
	dst      simcore.NodeAddress
	fileSize uint64
	mtuBits  uint64

	status   serverStatus
	timeouts map[int64]bool
}

// NewServer returns an idle Server.
func NewServer(addr, nextHop, dst simcore.NodeAddress, fileSize, mtuBits uint64) *Server {
	return &Server{addr: addr, nextHop: nextHop, dst: dst, fileSize: fileSize, mtuBits: mtuBits, timeouts: make(map[int64]bool)}
}

// Addr implements simcore.Node.
func (s *Server) Addr() simcore.NodeAddress { return s.addr }

// Process implements simcore.Node.
func (s *Server) Process(msg simcore.Message, now float64) []simcore.Event {
	switch m := msg.(type) {
	case simcore.TimeoutMsg:
		if s.timeouts[m.ID] {
			return []simcore.Event{simcore.Self(s.addr, now, 0, m.Inner)}
		}
		return nil
	case simcore.MoveToStatusMsg:
		return s.onMoveToStatus(m.Status.(serverStatus), now)
	case simcore.DataMsg:
		return s.onData(m.Packet, now)
	default:
		panic(fmt.Sprintf("datagram server %s: unexpected message %#v", s.addr, msg))
	}
}

func (s *Server) onMoveToStatus(next serverStatus, now float64) []simcore.Event {
	s.status = next
	switch next.kind {
	case serverIdle:
		return nil

	case serverDataSend:
		if next.dataSent < s.fileSize {
			pkt := simcore.NewPacket(next.sessionID, s.mtuBits, simcore.UDPData{}, now, s.addr, s.dst)
			waitStatus := serverStatus{kind: serverDataWait, sessionID: next.sessionID, bitrate: next.bitrate, dataSent: next.dataSent + s.mtuBits}
			return []simcore.Event{
				simcore.Reply(s.addr, s.nextHop, now, 0, simcore.DataMsg{Packet: pkt}),
				simcore.Self(s.addr, now, 0, simcore.MoveToStatusMsg{Status: waitStatus}),
			}
		}
		return []simcore.Event{simcore.Self(s.addr, now, 0, simcore.MoveToStatusMsg{
			Status: serverStatus{kind: serverFinishSend, sessionID: next.sessionID},
		})}

	case serverDataWait:
		waitTime := float64(s.mtuBits) / next.bitrate
		evt, id := simcore.ArmTimeout(s.addr, now, waitTime, simcore.MoveToStatusMsg{
			Status: serverStatus{kind: serverDataSend, sessionID: next.sessionID, bitrate: next.bitrate, dataSent: next.dataSent},
		})
		s.timeouts[id] = true
		return []simcore.Event{evt}

	case serverFinishSend:
		finish := simcore.NewPacket(next.sessionID, s.mtuBits, simcore.UDPFinish{FileSize: s.fileSize}, now, s.addr, s.dst)
		return []simcore.Event{
			simcore.Reply(s.addr, s.nextHop, now, 0, simcore.DataMsg{Packet: finish}),
			simcore.Self(s.addr, now, 0, simcore.MoveToStatusMsg{Status: serverStatus{kind: serverIdle}}),
		}

	default:
		panic(fmt.Sprintf("datagram server %s: invalid status kind %d", s.addr, next.kind))
	}
}

func (s *Server) onData(pkt simcore.Packet, now float64) []simcore.Event {
	switch kind := pkt.Kind.(type) {
	case simcore.UDPDataRequest:
		return []simcore.Event{simcore.Self(s.addr, now, 0, simcore.MoveToStatusMsg{
			Status: serverStatus{kind: serverDataSend, sessionID: pkt.SessionID, bitrate: kind.Bitrate, dataSent: 0},
		})}

	case simcore.UDPFinishRequest:
		if sessionID, ok := s.status.sessionIDOrNone(); ok && sessionID != pkt.SessionID {
			return nil
		}
		return []simcore.Event{simcore.Self(s.addr, now, 0, simcore.MoveToStatusMsg{
			Status: serverStatus{kind: serverFinishSend, sessionID: pkt.SessionID},
		})}

	default:
		panic(fmt.Sprintf("datagram server %s: unexpected packet kind %#v", s.addr, kind))
	}
}
