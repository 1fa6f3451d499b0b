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

package datagram

import (
	"fmt"

	"netsim/pkg/simcore"
)

const (
	pktLossLimit     = 5e-2
	pktLossTolerance = 1e-2
	pktLossMargin    = 0.95

	avgDelayLimit     = 4.0 // s
	avgDelayTolerance = 1.0 // s
	avgDelayMargin    = 0.95

	requestFrameBits = simcore.EmptyControlFrameBits
)

type clientStatusKind int

const (
	clientIdle clientStatusKind = iota
	clientRequestInit
	clientRequestWait
	clientDataWait
	clientDataUpdate
	clientFinishWait
	clientUnusable
	clientEvaluate
)

type clientStatus struct {
	kind      clientStatusKind
	sessionID int64
	newPacket simcore.Packet
	fileSize  uint64
	usable    bool
}

func (s clientStatus) sessionIDOrNone() (int64, bool) {
	if s.kind == clientIdle || s.kind == clientRequestInit {
		return 0, false
	}
	return s.sessionID, true
}

// Client requests a fixed-size datagram stream at a bitrate of its own
// choosing, tracks per-packet arrival delay and overall loss, and scores the
// session once the server's FINISH packet lands.
type Client struct {
	addr    simcore.NodeAddress
	nextHop simcore.NodeAddress
	dst     simcore.NodeAddress

	bitrate float64
	t0      float64
	n       uint64 // timeout multiplier, analogous to a window size

	delays       []float64
	receivedData uint64

	status       clientStatus
	timeouts     map[int64]bool
	startingTime float64
}

// NewClient returns an idle Client.
func NewClient(addr, nextHop, dst simcore.NodeAddress, bitrate, t0 float64, n uint64) *Client {
	return &Client{addr: addr, nextHop: nextHop, dst: dst, bitrate: bitrate, t0: t0, n: n, timeouts: make(map[int64]bool)}
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
		panic(fmt.Sprintf("datagram client %s: UserSwitchOn received while in status %d", c.addr, c.status.kind))
	}
	return []simcore.Event{simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{Status: clientStatus{kind: clientRequestInit}})}
}

func (c *Client) onUserSwitchOff(now float64) []simcore.Event {
	sessionID, ok := c.status.sessionIDOrNone()
	if !ok {
		return nil
	}
	return []simcore.Event{simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{
		Status: clientStatus{kind: clientFinishWait, sessionID: sessionID},
	})}
}

func (c *Client) onMoveToStatus(next clientStatus, now float64) []simcore.Event {
	c.status = next
	switch next.kind {
	case clientIdle:
		c.delays = nil
		c.receivedData = 0
		c.timeouts = make(map[int64]bool)
		return nil

	case clientRequestInit:
		c.startingTime = now
		sessionID := simcore.NextSessionID()
		timeoutDelay := float64(c.n) * c.t0

		unusableEvt, unusableID := simcore.ArmTimeout(c.addr, now, timeoutDelay,
			simcore.MoveToStatusMsg{Status: clientStatus{kind: clientUnusable, sessionID: sessionID}})
		c.timeouts[unusableID] = true

		return []simcore.Event{
			simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{Status: clientStatus{kind: clientRequestWait, sessionID: sessionID}}),
			unusableEvt,
		}

	case clientRequestWait:
		req := simcore.NewPacket(next.sessionID, requestFrameBits, simcore.UDPDataRequest{Bitrate: c.bitrate}, now, c.addr, c.dst)

		repeatEvt, repeatID := simcore.ArmTimeout(c.addr, now, c.t0, simcore.MoveToStatusMsg{Status: next})
		c.timeouts[repeatID] = true

		return []simcore.Event{
			simcore.Reply(c.addr, c.nextHop, now, 0, simcore.DataMsg{Packet: req}),
			repeatEvt,
		}

	case clientDataUpdate:
		c.timeouts = make(map[int64]bool)
		delay := now - next.newPacket.CreationTime
		c.delays = append(c.delays, delay)
		c.receivedData += next.newPacket.Size

		return []simcore.Event{simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{
			Status: clientStatus{kind: clientDataWait, sessionID: next.sessionID},
		})}

	case clientDataWait:
		longDelay := float64(c.n) * c.t0
		evt, id := simcore.ArmTimeout(c.addr, now, longDelay,
			simcore.MoveToStatusMsg{Status: clientStatus{kind: clientUnusable, sessionID: next.sessionID}})
		c.timeouts[id] = true
		return []simcore.Event{evt}

	case clientFinishWait:
		req := simcore.NewPacket(next.sessionID, requestFrameBits, simcore.UDPFinishRequest{}, now, c.addr, c.dst)

		repeatEvt, repeatID := simcore.ArmTimeout(c.addr, now, c.t0, simcore.MoveToStatusMsg{Status: next})
		c.timeouts[repeatID] = true

		return []simcore.Event{
			simcore.Reply(c.addr, c.nextHop, now, 0, simcore.DataMsg{Packet: req}),
			repeatEvt,
		}

	case clientUnusable:
		c.timeouts = make(map[int64]bool)
		return []simcore.Event{simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{
			Status: clientStatus{kind: clientEvaluate, sessionID: next.sessionID, usable: false},
		})}

	case clientEvaluate:
		c.timeouts = make(map[int64]bool)

		var utility float64
		if !next.usable {
			utility = -1.0
		} else {
			pktLoss := 1.0 - float64(c.receivedData)/float64(next.fileSize)
			avgDelay := mean(c.delays)

			utility = simcore.Utility(pktLoss, pktLossLimit+pktLossTolerance, pktLossTolerance, pktLossMargin) *
				simcore.Utility(avgDelay, avgDelayLimit+avgDelayTolerance, avgDelayTolerance, avgDelayMargin)
		}

		return []simcore.Event{
			simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{Status: clientStatus{kind: clientIdle}}),
			simcore.Reply(c.addr, simcore.ControllerAddr, now, 0, simcore.ReportUtilityMsg{
				Utility: utility, NodeAddr: c.addr,
			}),
		}

	default:
		panic(fmt.Sprintf("datagram client %s: invalid status kind %d", c.addr, next.kind))
	}
}

func (c *Client) onData(pkt simcore.Packet, now float64) []simcore.Event {
	sessionID, ok := c.status.sessionIDOrNone()
	if !ok {
		return nil // no active session: stale packet arrived after our own FINISH
	}
	if sessionID != pkt.SessionID {
		return nil // belongs to a session we already closed
	}

	switch kind := pkt.Kind.(type) {
	case simcore.UDPData:
		return []simcore.Event{simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{
			Status: clientStatus{kind: clientDataUpdate, sessionID: pkt.SessionID, newPacket: pkt},
		})}

	case simcore.UDPFinish:
		return []simcore.Event{simcore.Self(c.addr, now, 0, simcore.MoveToStatusMsg{
			Status: clientStatus{kind: clientEvaluate, sessionID: sessionID, fileSize: kind.FileSize, usable: true},
		})}

	default:
		panic(fmt.Sprintf("datagram client %s: unexpected packet kind %#v", c.addr, kind))
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
