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
	"fmt"

	"netsim/pkg/simcore"
)

const (
	waitingTimeTolerance = 1.0  // s
	waitingTimeMargin    = 0.95
	requestFrameBits     = simcore.EmptyControlFrameBits
)

type clientStatusKind int

const (
	clientIdle clientStatusKind = iota
	clientRequestInit
	clientRequestWait
	clientDataInit
	clientDataUpdate
	clientDataWait
	clientDataACK
	clientUnusable
	clientEvaluate
)

// clientStatus is the client's opaque MoveToStatus payload: a tagged variant
// carrying whatever data that state needs, the Go analog of the original's
// data-bearing status enum.
type clientStatus struct {
	kind      clientStatusKind
	sessionID int64
	newPacket simcore.Packet
	seq       int
	seqEnd    int
}

func (s clientStatus) sessionIDOrNone() (int64, bool) {
	switch s.kind {
	case clientIdle, clientRequestInit:
		return 0, false
	default:
		return s.sessionID, true
	}
}

// Client requests and consumes one fixed-length reliable transfer per
// session, ACKing cumulatively and falling back to Unusable after too long
// without progress.
type Client struct {
	addr    simcore.NodeAddress
	nextHop simcore.NodeAddress
	dst     simcore.NodeAddress

	windowSize int
	tRepeat    float64
	tUnusable  float64
	expectedPLT float64

	status        clientStatus
	startingTime  float64
	timeouts      map[int64]bool
	receivedChunks []bool
}

// NewClient returns an idle Client.
func NewClient(addr, nextHop, dst simcore.NodeAddress, windowSize int, tRepeat, tUnusable, expectedPLT float64) *Client {
	return &Client{
		addr: addr, nextHop: nextHop, dst: dst,
		windowSize: windowSize, tRepeat: tRepeat, tUnusable: tUnusable, expectedPLT: expectedPLT,
		timeouts: make(map[int64]bool),
	}
}

// Addr implements simcore.Node.
func (c *Client) Addr() simcore.NodeAddress { return c.addr }

// Process implements simcore.Node.
func (c *Client) Process(msg simcore.Message, now float64) []simcore.Event {
	switch m := msg.(type) {
	case simcore.TimeoutMsg:
		if c.timeouts[m.ID] {
			return []simcore.Event{simcore.Self(c.addr, now, 0, m.Inner)}
		}
		return nil
	case simcore.MoveToStatusMsg:
		return c.onMoveToStatus(m.Status.(clientStatus), now)
	case simcore.UserSwitchOnMsg:
		return c.onUserSwitchOn(now)
	case simcore.UserSwitchOffMsg:
		return c.onUserSwitchOff(now)
	case simcore.DataMsg:
		return c.onData(m.Packet, now)
	default:
		return nil
	}
}

func (c *Client) onUserSwitchOn(now float64) []simcore.Event {
	if c.status.kind != clientIdle {
		panic(fmt.Sprintf("reliable client %s: UserSwitchOn received while in status %d", c.addr, c.status.kind))
	}
	return []simcore.Event{simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{Status: clientStatus{kind: clientRequestInit}})}
}

func (c *Client) onUserSwitchOff(now float64) []simcore.Event {
	sessionID, ok := c.status.sessionIDOrNone()
	if !ok {
		return nil
	}
	return []simcore.Event{simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{
		Status: clientStatus{kind: clientEvaluate, sessionID: sessionID},
	})}
}

func (c *Client) onMoveToStatus(next clientStatus, now float64) []simcore.Event {
	c.status = next
	switch next.kind {
	case clientIdle:
		return nil

	case clientRequestInit:
		c.startingTime = now
		sessionID := simcore.NextSessionID()

		unusableEvt, unusableID := simcore.ArmTimeout(c.addr, now, c.tUnusable,
			simcore.MoveToStatusMsg{Status: clientStatus{kind: clientUnusable, sessionID: sessionID}})
		c.timeouts[unusableID] = true

		return []simcore.Event{
			simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{Status: clientStatus{kind: clientRequestWait, sessionID: sessionID}}),
			unusableEvt,
		}

	case clientRequestWait:
		req := simcore.NewPacket(next.sessionID, requestFrameBits, simcore.TCPDataRequest{WindowSize: c.windowSize}, now, c.addr, c.dst)

		repeatEvt, repeatID := simcore.ArmTimeout(c.addr, now, c.tRepeat,
			simcore.MoveToStatusMsg{Status: clientStatus{kind: clientRequestWait, sessionID: next.sessionID}})
		c.timeouts[repeatID] = true

		return []simcore.Event{
			simcore.Reply(c.addr, c.nextHop, now, 0, simcore.DataMsg{Packet: req}),
			repeatEvt,
		}

	case clientDataInit:
		data, ok := next.newPacket.Kind.(simcore.TCPData)
		if !ok {
			panic(fmt.Sprintf("reliable client %s: DataInit with non-TCPData packet %#v", c.addr, next.newPacket.Kind))
		}
		c.timeouts = make(map[int64]bool)
		c.receivedChunks = make([]bool, data.SeqEnd)
		return []simcore.Event{simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{
			Status: clientStatus{kind: clientDataUpdate, sessionID: next.sessionID, newPacket: next.newPacket},
		})}

	case clientDataUpdate:
		c.timeouts = make(map[int64]bool)
		data, ok := next.newPacket.Kind.(simcore.TCPData)
		if !ok {
			panic(fmt.Sprintf("reliable client %s: DataUpdate with non-TCPData packet %#v", c.addr, next.newPacket.Kind))
		}
		c.receivedChunks[data.Seq] = true
		if data.HasRTT {
			c.tRepeat = data.RTT
			c.tUnusable = 10.0 * data.RTT
		}

		k := data.SeqEnd
		for i, got := range c.receivedChunks {
			if !got {
				k = i
				break
			}
		}

		return []simcore.Event{simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{
			Status: clientStatus{kind: clientDataACK, sessionID: next.sessionID, seq: k, seqEnd: data.SeqEnd},
		})}

	case clientDataACK:
		ack := simcore.NewPacket(next.sessionID, requestFrameBits, simcore.TCPAck{Seq: next.seq}, now, c.addr, c.dst)
		events := []simcore.Event{simcore.Reply(c.addr, c.nextHop, now, 0, simcore.DataMsg{Packet: ack})}

		if next.seq == next.seqEnd {
			events = append(events, simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{
				Status: clientStatus{kind: clientEvaluate, sessionID: next.sessionID},
			}))
		} else {
			events = append(events, simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{
				Status: clientStatus{kind: clientDataWait, sessionID: next.sessionID, seq: next.seq, seqEnd: next.seqEnd},
			}))
		}
		return events

	case clientDataWait:
		unusableEvt, unusableID := simcore.ArmTimeout(c.addr, now, c.tUnusable,
			simcore.MoveToStatusMsg{Status: clientStatus{kind: clientUnusable, sessionID: next.sessionID}})
		c.timeouts[unusableID] = true

		repeatEvt, repeatID := simcore.ArmTimeout(c.addr, now, c.tRepeat,
			simcore.MoveToStatusMsg{Status: clientStatus{kind: clientDataACK, sessionID: next.sessionID, seq: next.seq, seqEnd: next.seqEnd}})
		c.timeouts[repeatID] = true

		return []simcore.Event{unusableEvt, repeatEvt}

	case clientUnusable:
		c.timeouts = make(map[int64]bool)
		return []simcore.Event{simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{
			Status: clientStatus{kind: clientEvaluate, sessionID: next.sessionID},
		})}

	case clientEvaluate:
		plt := now - c.startingTime
		utility := simcore.Utility(plt, c.expectedPLT+waitingTimeTolerance, waitingTimeTolerance, waitingTimeMargin)

		return []simcore.Event{
			simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{Status: clientStatus{kind: clientIdle}}),
			simcore.Reply(c.addr, simcore.ControllerAddr, now, 0, simcore.ReportUtilityMsg{
				Utility: utility, NodeAddr: c.addr,
			}),
		}

	default:
		panic(fmt.Sprintf("reliable client %s: invalid status kind %d", c.addr, next.kind))
	}
}

func (c *Client) onData(pkt simcore.Packet, now float64) []simcore.Event {
	data, ok := pkt.Kind.(simcore.TCPData)
	if !ok {
		panic(fmt.Sprintf("reliable client %s: unexpected packet kind %#v", c.addr, pkt.Kind))
	}

	switch c.status.kind {
	case clientIdle:
		ack := simcore.NewPacket(pkt.SessionID, requestFrameBits, simcore.TCPAck{Seq: data.SeqEnd}, now, c.addr, c.dst)
		return []simcore.Event{simcore.Reply(c.addr, c.nextHop, now, 0, simcore.DataMsg{Packet: ack})}

	case clientRequestWait:
		sessionID := c.status.sessionID
		c.timeouts = make(map[int64]bool)
		return []simcore.Event{simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{
			Status: clientStatus{kind: clientDataInit, sessionID: sessionID, newPacket: pkt},
		})}

	case clientDataWait:
		sessionID := c.status.sessionID
		c.timeouts = make(map[int64]bool)
		return []simcore.Event{simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{
			Status: clientStatus{kind: clientDataUpdate, sessionID: sessionID, newPacket: pkt},
		})}

	default:
		panic(fmt.Sprintf("reliable client %s: packet received in wrong status %d", c.addr, c.status.kind))
	}
}
