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
	"fmt"

	"netsim/internal/netsim/telemetry"
	"netsim/pkg/simcore"
)

type tbfStatus int

const (
	tbfIdle tbfStatus = iota
	tbfTransmitting
	tbfDecide
	tbfWait
)

// TokenBucketFilter shapes outgoing traffic to a target rate: a pool of
// tokens refills continuously at TokenRate, up to MaxTokens, and every
// departing packet's size is debited from it (the pool never goes below
// zero). A packet queued behind another waits at the head of the queue until
// the pool covers its size; a packet that reaches an idle filter departs at
// once, without a token check. See
// https://www.nsnam.org/docs/models/html/tbf.html for the model this mirrors.
type TokenBucketFilter struct {
	addr simcore.NodeAddress
	dest simcore.NodeAddress

	params simcore.TbfParams

	tokens         float64
	lastUpdateTime float64

	status tbfStatus
	queue  []simcore.Packet

	NPktServed int
	NPktLost   int
}

// NewTokenBucketFilter returns an idle filter with a full token pool.
func NewTokenBucketFilter(addr, dest simcore.NodeAddress, params simcore.TbfParams) *TokenBucketFilter {
	return &TokenBucketFilter{
		addr:   addr,
		dest:   dest,
		params: params,
		tokens: params.MaxTokens,
	}
}

// Addr implements simcore.Node.
func (f *TokenBucketFilter) Addr() simcore.NodeAddress { return f.addr }

// Process implements simcore.Node.
func (f *TokenBucketFilter) Process(msg simcore.Message, now float64) []simcore.Event {
	switch m := msg.(type) {
	case simcore.DataMsg:
		return f.onData(m.Packet, now)
	case simcore.MoveToStatusMsg:
		return f.onMoveToStatus(m.Status.(tbfStatus), now)
	case simcore.SetParamsMsg:
		return f.onSetParams(m.Params)
	default:
		panic(fmt.Sprintf("tbf %s: unexpected message %#v", f.addr, msg))
	}
}

func (f *TokenBucketFilter) onData(pkt simcore.Packet, now float64) []simcore.Event {
	switch f.status {
	case tbfIdle:
		f.queue = append(f.queue, pkt)
		return []simcore.Event{simcore.Self(f.addr, now, 0, simcore.MoveToStatusMsg{Status: tbfTransmitting})}
	case tbfTransmitting, tbfWait:
		if len(f.queue) < f.params.MaxQueue {
			f.queue = append(f.queue, pkt)
			telemetry.SetQueueDepth(f.addr.String(), len(f.queue))
		} else {
			f.NPktLost++
			telemetry.RecordLost(f.addr.String())
		}
		return nil
	default:
		panic(fmt.Sprintf("tbf %s: packet arrived in status %d", f.addr, f.status))
	}
}

func (f *TokenBucketFilter) onMoveToStatus(next tbfStatus, now float64) []simcore.Event {
	f.status = next
	switch next {
	case tbfIdle:
		return nil
	case tbfTransmitting:
		pkt := f.queue[0]
		f.queue = f.queue[1:]
		f.updateTokens(now)
		f.tokens -= float64(pkt.Size)
		if f.tokens < 0 {
			f.tokens = 0
		}
		f.NPktServed++
		telemetry.RecordServed(f.addr.String())
		telemetry.SetQueueDepth(f.addr.String(), len(f.queue))
		return []simcore.Event{
			simcore.Reply(f.addr, f.dest, now, 0, simcore.DataMsg{Packet: pkt}),
			simcore.Self(f.addr, now, 0, simcore.MoveToStatusMsg{Status: tbfDecide}),
		}
	case tbfDecide:
		if len(f.queue) == 0 {
			return []simcore.Event{simcore.Self(f.addr, now, 0, simcore.MoveToStatusMsg{Status: tbfIdle})}
		}
		return []simcore.Event{simcore.Self(f.addr, now, 0, simcore.MoveToStatusMsg{Status: tbfWait})}
	case tbfWait:
		f.updateTokens(now)
		delay := f.nextPktDelay()
		return []simcore.Event{simcore.Self(f.addr, now, delay, simcore.MoveToStatusMsg{Status: tbfTransmitting})}
	default:
		panic(fmt.Sprintf("tbf %s: invalid status %d", f.addr, next))
	}
}

func (f *TokenBucketFilter) onSetParams(params simcore.TbfParams) []simcore.Event {
	f.params = params
	if f.tokens > f.params.MaxTokens {
		f.tokens = f.params.MaxTokens
	}
	for len(f.queue) > f.params.MaxQueue {
		f.queue = f.queue[:len(f.queue)-1]
	}
	return nil
}

func (f *TokenBucketFilter) updateTokens(now float64) {
	f.tokens += (now - f.lastUpdateTime) * f.params.TokenRate
	f.lastUpdateTime = now
	if f.tokens > f.params.MaxTokens {
		f.tokens = f.params.MaxTokens
	}
	telemetry.SetTBFTokens(f.addr.String(), f.tokens)
}

func (f *TokenBucketFilter) nextPktDelay() float64 {
	if len(f.queue) == 0 {
		panic(fmt.Sprintf("tbf %s: no packet in queue to compute delay for", f.addr))
	}
	size := float64(f.queue[0].Size)
	if f.tokens > size {
		return 0
	}
	return (size - f.tokens) / f.params.TokenRate
}

// QueueDepth reports the number of packets currently waiting in the queue,
// for tests and telemetry.
func (f *TokenBucketFilter) QueueDepth() int { return len(f.queue) }
