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

// Package reliable implements the sliding-window, cumulative-ACK transport:
// a Server sourcing a fixed-length transfer and a Client consuming it,
// self-timing their own retransmit interval from observed round trips.
package reliable

import (
	"fmt"

	"netsim/internal/netsim/simlog"
	"netsim/pkg/simcore"
)

type serverStatus int

const (
	serverIdle serverStatus = iota
	serverInitSession
	serverTransmitDecide
	serverTransmitPacket
	serverTransmitRepeat
	serverTransmitWait
)

type connParams struct {
	sessionID int64
	n         int // window size
	a         int // lowest unacked sequence number
	b         int // next sequence number to send
}

// Server sources a fixed-size, window-limited reliable transfer to one
// client, retransmitting an entire unacked window on a self-timed timeout.
type Server struct {
	addr       simcore.NodeAddress
	nextHop    simcore.NodeAddress
	dst        simcore.NodeAddress
	totalPkts  int
	mtuBits    uint64
	t0         float64

	status serverStatus
	conn   connParams

	timeouts      map[int64]bool
	creationTimes map[int]float64
	ackedPkts     map[int]bool

	ackTxDuration *simcore.DelayTracker
	pktTxDuration *simcore.DelayTracker
}

// NewServer returns an idle Server. t0 seeds the initial retransmit timeout
// before any RTT samples have been observed.
func NewServer(addr, nextHop, dst simcore.NodeAddress, totalPkts int, mtuBits uint64, t0 float64) *Server {
	return &Server{
		addr:          addr,
		nextHop:       nextHop,
		dst:           dst,
		totalPkts:     totalPkts,
		mtuBits:       mtuBits,
		t0:            t0,
		timeouts:      make(map[int64]bool),
		creationTimes: make(map[int]float64),
		ackedPkts:     make(map[int]bool),
		ackTxDuration: simcore.NewDelayTracker(32),
		pktTxDuration: simcore.NewDelayTracker(32),
	}
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
		panic(fmt.Sprintf("reliable server %s: unexpected message %#v", s.addr, msg))
	}
}

func (s *Server) onMoveToStatus(next serverStatus, now float64) []simcore.Event {
	s.status = next
	switch next {
	case serverIdle:
		s.timeouts = make(map[int64]bool)
		s.ackedPkts = make(map[int]bool)
		s.creationTimes = make(map[int]float64)
		return nil

	case serverInitSession:
		s.conn.a = 0
		s.conn.b = 0
		return []simcore.Event{simcore.Self(s.addr, now, 0, simcore.MoveToStatusMsg{Status: serverTransmitDecide})}

	case serverTransmitDecide:
		s.timeouts = make(map[int64]bool)
		if s.conn.b == s.totalPkts {
			return []simcore.Event{simcore.Self(s.addr, now, 0, simcore.MoveToStatusMsg{Status: serverTransmitWait})}
		}
		if s.conn.b < s.conn.a+s.conn.n {
			return []simcore.Event{simcore.Self(s.addr, now, 0, simcore.MoveToStatusMsg{Status: serverTransmitPacket})}
		}
		return []simcore.Event{simcore.Self(s.addr, now, 0, simcore.MoveToStatusMsg{Status: serverTransmitWait})}

	case serverTransmitPacket:
		var rtt float64
		var hasRTT bool
		if pm, pok := s.pktTxDuration.Median(); pok {
			if am, aok := s.ackTxDuration.Median(); aok {
				rtt, hasRTT = pm+am, true
			}
		}

		pkt := simcore.NewPacket(s.conn.sessionID, s.mtuBits, simcore.TCPData{
			Seq: s.conn.b, SeqEnd: s.totalPkts, RTT: rtt, HasRTT: hasRTT,
		}, now, s.addr, s.dst)

		if _, ok := s.creationTimes[s.conn.b]; !ok {
			s.creationTimes[s.conn.b] = now
		}
		s.conn.b++

		repeatEvt, id := simcore.ArmTimeout(s.addr, now, s.t0/2, simcore.MoveToStatusMsg{Status: serverTransmitDecide})
		s.timeouts[id] = true

		return []simcore.Event{
			repeatEvt,
			simcore.Reply(s.addr, s.nextHop, now, 0, simcore.DataMsg{Packet: pkt}),
		}

	case serverTransmitWait:
		evt, id := simcore.ArmTimeout(s.addr, now, s.t0, simcore.MoveToStatusMsg{Status: serverTransmitRepeat})
		s.timeouts[id] = true
		return []simcore.Event{evt}

	case serverTransmitRepeat:
		s.conn.b = s.conn.a
		return []simcore.Event{simcore.Self(s.addr, now, 0, simcore.MoveToStatusMsg{Status: serverTransmitDecide})}

	default:
		panic(fmt.Sprintf("reliable server %s: invalid status %d", s.addr, next))
	}
}

func (s *Server) onData(pkt simcore.Packet, now float64) []simcore.Event {
	switch kind := pkt.Kind.(type) {
	case simcore.TCPDataRequest:
		s.conn.sessionID = pkt.SessionID
		s.conn.n = kind.WindowSize
		return []simcore.Event{simcore.Self(s.addr, now, 0, simcore.MoveToStatusMsg{Status: serverInitSession})}

	case simcore.TCPAck:
		return s.onAck(kind.Seq, pkt, now)

	default:
		panic(fmt.Sprintf("reliable server %s: unexpected packet kind %#v", s.addr, kind))
	}
}

func (s *Server) onAck(seq int, pkt simcore.Packet, now float64) []simcore.Event {
	if s.status == serverIdle {
		return nil
	}
	if s.conn.sessionID != pkt.SessionID || seq <= s.conn.a {
		return nil
	}

	if !s.ackedPkts[seq] {
		ackCreation := pkt.CreationTime
		pktCreation, ok := s.creationTimes[seq-1]
		if !ok {
			panic(fmt.Sprintf("reliable server %s: ACK for unsent packet seq=%d", s.addr, seq))
		}

		txAck := now - ackCreation
		txPkt := ackCreation - pktCreation
		s.ackTxDuration.Push(txAck)
		s.pktTxDuration.Push(txPkt)
		s.ackedPkts[s.conn.b] = true

		if median, ok := s.pktTxDuration.Median(); ok {
			s.t0 = median
		} else {
			s.t0 = 1.0
		}
	}

	if seq > s.totalPkts {
		panic(fmt.Sprintf("reliable server %s: ACK seq %d exceeds total packets %d", s.addr, seq, s.totalPkts))
	}

	if seq > s.conn.a {
		s.conn.a = seq
	}
	if s.conn.a > s.conn.b {
		s.conn.b = s.conn.a
	}

	if seq == s.totalPkts {
		simlog.Debugf("reliable server %s: final ACK received, session %d complete", s.addr, s.conn.sessionID)
		return []simcore.Event{simcore.Self(s.addr, now, 0, simcore.MoveToStatusMsg{Status: serverIdle})}
	}
	if s.status == serverTransmitWait {
		return []simcore.Event{simcore.Self(s.addr, now, 0, simcore.MoveToStatusMsg{Status: serverTransmitDecide})}
	}
	return nil
}
