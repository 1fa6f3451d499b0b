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

import (
	"container/heap"
	"fmt"
	"math"
)

// Event is one scheduled delivery of a Message to a recipient's Process.
type Event struct {
	Time      float64
	Sender    NodeAddress
	Recipient NodeAddress
	Message   Message
}

// NewEvent validates and constructs an Event. It panics on a NaN time, per
// spec §3's "NaN times are forbidden" invariant — this is a logic violation,
// not a simulated network failure.
func NewEvent(time float64, sender, recipient NodeAddress, msg Message) Event {
	if math.IsNaN(time) {
		panic(fmt.Sprintf("event time is NaN: sender=%s recipient=%s msg=%#v", sender, recipient, msg))
	}
	return Event{Time: time, Sender: sender, Recipient: recipient, Message: msg}
}

// eventLess orders two events by the spec's total order: earlier time first;
// on ties, control messages precede Data packets (spec §3, §4.1, §9).
func eventLess(a, b Event) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	aControl, bControl := IsControl(a.Message), IsControl(b.Message)
	if aControl != bControl {
		return aControl // control sorts first
	}
	return false
}

// eventHeap is the container/heap.Interface plumbing backing EventQueue. No
// example in the retrieval pack ships a priority-queue library suited to
// this shape (time-keyed, tie-broken by a message-kind predicate);
// container/heap is the idiomatic stdlib tool for exactly this.
type eventHeap []Event

func (h eventHeap) Len() int            { return len(h) }
func (h eventHeap) Less(i, j int) bool  { return eventLess(h[i], h[j]) }
func (h eventHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)         { *h = append(*h, x.(Event)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// EventQueue is a min-by-(time, control-before-data) priority queue of
// Events.
type EventQueue struct{ h eventHeap }

// NewEventQueue returns an empty, ready-to-use queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{}
	heap.Init(&q.h)
	return q
}

// Push inserts an Event.
func (q *EventQueue) Push(e Event) { heap.Push(&q.h, e) }

// Pop removes and returns the earliest Event. Panics if the queue is empty;
// callers must check Len first.
func (q *EventQueue) Pop() Event { return heap.Pop(&q.h).(Event) }

// Len reports the number of pending events.
func (q *EventQueue) Len() int { return q.h.Len() }
