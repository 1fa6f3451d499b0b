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

// Package link implements the two physical-link shaping primitives every
// node's uplink and downlink sit behind: a bounded blocking FIFO and a
// token-bucket filter.
package link

import (
	"fmt"

	"netsim/internal/netsim/simlog"
	"netsim/internal/netsim/telemetry"
	"netsim/pkg/simcore"
)

type fifoStatus int

const (
	fifoIdle fifoStatus = iota
	fifoTransmitting
	fifoDecide
)

// FIFO is a bounded, blocking, store-and-forward link: at most MaxQueue
// packets wait behind the one currently being served; packets arriving to a
// full queue are tail-dropped and counted, never blocking the sender.
type FIFO struct {
	addr     simcore.NodeAddress
	dest     simcore.NodeAddress
	maxQueue int
	connBps  float64

	status fifoStatus
	queue  []simcore.Packet

	NPktServed int
	NPktLost   int
}

// NewFIFO returns an idle queue addressed at addr, forwarding to dest at
// connBps bits/sec, holding at most maxQueue packets behind the one in
// service.
func NewFIFO(addr, dest simcore.NodeAddress, maxQueue int, connBps float64) *FIFO {
	return &FIFO{addr: addr, dest: dest, maxQueue: maxQueue, connBps: connBps}
}

// Addr implements simcore.Node.
func (f *FIFO) Addr() simcore.NodeAddress { return f.addr }

// Process implements simcore.Node.
func (f *FIFO) Process(msg simcore.Message, now float64) []simcore.Event {
	switch m := msg.(type) {
	case simcore.DataMsg:
		return f.onData(m.Packet, now)
	case simcore.MoveToStatusMsg:
		return f.onMoveToStatus(m.Status.(fifoStatus), now)
	default:
		panic(fmt.Sprintf("fifo %s: unexpected message %#v", f.addr, msg))
	}
}

func (f *FIFO) onData(pkt simcore.Packet, now float64) []simcore.Event {
	switch f.status {
	case fifoIdle:
		f.queue = append(f.queue, pkt)
		return []simcore.Event{simcore.Self(f.addr, now, 0, simcore.MoveToStatusMsg{Status: fifoTransmitting})}
	case fifoTransmitting:
		if len(f.queue) < f.maxQueue {
			f.queue = append(f.queue, pkt)
			simlog.Debugf("fifo %s: queue depth %d", f.addr, len(f.queue))
			telemetry.SetQueueDepth(f.addr.String(), len(f.queue))
		} else {
			simlog.Debugf("fifo %s: packet %d lost, queue full", f.addr, pkt.ID)
			f.NPktLost++
			telemetry.RecordLost(f.addr.String())
		}
		return nil
	default:
		panic(fmt.Sprintf("fifo %s: packet arrived in status %d", f.addr, f.status))
	}
}

func (f *FIFO) onMoveToStatus(next fifoStatus, now float64) []simcore.Event {
	f.status = next
	switch next {
	case fifoIdle:
		return nil
	case fifoTransmitting:
		pkt := f.queue[0]
		f.queue = f.queue[1:]
		f.NPktServed++
		telemetry.RecordServed(f.addr.String())
		telemetry.SetQueueDepth(f.addr.String(), len(f.queue))

		txTime := float64(pkt.Size) / f.connBps
		due := now + txTime + simcore.ProcTime
		return []simcore.Event{
			simcore.Reply(f.addr, f.dest, now, due-now, simcore.DataMsg{Packet: pkt}),
			simcore.Self(f.addr, now, due-now, simcore.MoveToStatusMsg{Status: fifoDecide}),
		}
	case fifoDecide:
		if len(f.queue) == 0 {
			return []simcore.Event{simcore.Self(f.addr, now, 0, simcore.MoveToStatusMsg{Status: fifoIdle})}
		}
		return []simcore.Event{simcore.Self(f.addr, now, 0, simcore.MoveToStatusMsg{Status: fifoTransmitting})}
	default:
		panic(fmt.Sprintf("fifo %s: invalid status %d", f.addr, next))
	}
}

// QueueDepth reports the number of packets currently waiting behind the one
// in service (the packet in service has already left the queue), for tests
// and telemetry.
func (f *FIFO) QueueDepth() int { return len(f.queue) }
