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

// Node is anything the event loop can deliver a Message to. Process is the
// sole entry point: given the message addressed to it and the current
// virtual time, it returns whatever follow-up Events it wants scheduled (a
// reply to its sender, a self-addressed timeout, a forward to a neighbor).
// Process must not block and must not touch wall-clock time.
type Node interface {
	Addr() NodeAddress
	Process(msg Message, now float64) []Event
}

// Self builds an Event addressed from a node to itself, the idiom every
// state machine in this package uses to arm a MoveToStatus or Timeout.
func Self(addr NodeAddress, now float64, delay float64, msg Message) Event {
	return NewEvent(now+delay, addr, addr, msg)
}

// Reply builds an Event from a node back to the sender of whatever it is
// currently handling.
func Reply(from, to NodeAddress, now float64, delay float64, msg Message) Event {
	return NewEvent(now+delay, from, to, msg)
}

// ArmTimeout schedules a TimeoutMsg wrapping inner, due after delay, and
// returns both the Event to schedule and the id the caller must remember in
// its own live-timeout set in order to honor it on delivery (spec §5,
// "Cancellation / timeouts": a node only acts on a Timeout whose ID is still
// tracked — this is how stale timers become no-ops without queue surgery).
func ArmTimeout(addr NodeAddress, now float64, delay float64, inner Message) (Event, int64) {
	id := NextTimeoutID()
	return Self(addr, now, delay, TimeoutMsg{ID: id, Inner: inner}), id
}
