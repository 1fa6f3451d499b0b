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

// Registry resolves an address to the Node that owns it. The loop never
// holds node state itself; it only dispatches.
type Registry interface {
	Lookup(addr NodeAddress) (Node, bool)
}

// Loop drives the global priority queue: pop the earliest event, deliver it,
// enqueue whatever it produces, repeat until the queue drains or a caller
// supplied stop condition trips.
type Loop struct {
	queue *EventQueue
	nodes Registry
	now   float64

	// Trace, if set, is called once per delivered event — tests and the CLI
	// both use this hook rather than a baked-in logger.
	Trace func(e Event)
}

// NewLoop returns a Loop ready to run, seeded with the given events.
func NewLoop(nodes Registry, seed ...Event) *Loop {
	q := NewEventQueue()
	for _, e := range seed {
		q.Push(e)
	}
	return &Loop{queue: q, nodes: nodes}
}

// Now reports the virtual time of the event most recently delivered.
func (l *Loop) Now() float64 { return l.now }

// Schedule enqueues an additional event from outside the delivery path.
func (l *Loop) Schedule(e Event) { l.queue.Push(e) }

// Pending reports whether any event remains queued.
func (l *Loop) Pending() bool { return l.queue.Len() > 0 }

// Step delivers exactly one event to its recipient, recursively expanding
// any same-time, same-recipient follow-up event the recipient itself
// produced before returning control to the caller. This "zero-time
// expansion" lets a node's own chained self-events (e.g. Decide ->
// TransmitPacket at an unchanged virtual time) run to a fixed point in one
// Step call, matching the original simulator's expand_event behavior.
// Step reports false if the queue was empty.
func (l *Loop) Step() bool {
	if l.queue.Len() == 0 {
		return false
	}
	e := l.queue.Pop()
	l.deliver(e)
	return true
}

func (l *Loop) deliver(e Event) {
	l.now = e.Time
	if l.Trace != nil {
		l.Trace(e)
	}
	node, ok := l.nodes.Lookup(e.Recipient)
	if !ok {
		return
	}
	followups := node.Process(e.Message, e.Time)
	for _, f := range followups {
		if f.Recipient == e.Recipient && f.Time == e.Time {
			l.deliver(f)
			continue
		}
		l.queue.Push(f)
	}
}

// Run drives the loop to completion, delivering events until the queue is
// empty. It returns the number of events popped from the queue; zero-time
// expansions delivered inside a Step are not counted.
func (l *Loop) Run() int {
	n := 0
	for l.Step() {
		n++
	}
	return n
}

// RunUntil drives the loop until the queue empties or the next event's time
// would exceed horizon, in which case that event is left queued and RunUntil
// returns.
func (l *Loop) RunUntil(horizon float64) int {
	n := 0
	for l.queue.Len() > 0 {
		e := l.queue.Pop()
		if e.Time > horizon {
			l.queue.Push(e)
			return n
		}
		l.deliver(e)
		n++
	}
	return n
}
