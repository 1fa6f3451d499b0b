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

// Message is the tagged union carried by every Event. The concrete types
// below are its only implementations; every Node.Process implementation
// type-switches on it.
type Message interface{ message() }

// DataMsg carries one packet across the wire.
type DataMsg struct{ Packet Packet }

// TimeoutMsg is a self-deferred message. ID lets the owning node cancel it
// by omission: a node only honors a Timeout if ID is still in its own live
// timeout set at delivery time (spec §5, "Cancellation / timeouts").
type TimeoutMsg struct {
	ID    int64
	Inner Message
}

// MoveToStatusMsg is a self-addressed state-transition signal. Status is an
// entity-private tag: the loop never inspects it, only the receiving node
// does (spec §9, "Opaque status carrier").
type MoveToStatusMsg struct{ Status any }

// UserSwitchOnMsg is a controller-driven lifecycle poke that starts a
// client session.
type UserSwitchOnMsg struct{}

// UserSwitchOffMsg is a controller-driven lifecycle poke that ends a client
// session early.
type UserSwitchOffMsg struct{}

// QueueTransmitPacketMsg is a legacy alias for MoveToStatusMsg{Transmitting}.
// No node in this module produces it; FIFO and TokenBucketFilter drive their
// transmit decisions through MoveToStatusMsg and panic on this message.
type QueueTransmitPacketMsg struct{}

// ReportUtilityMsg is sent by a client to the controller on session
// completion (successful or not).
type ReportUtilityMsg struct {
	Utility   float64
	NodeAddr  NodeAddress
	Notes     string
}

// SetParamsMsg reconfigures a token-bucket filter's shaping parameters.
type SetParamsMsg struct{ Params TbfParams }

// RecomputeParamsMsg is the controller's self-trigger hook for future
// parameter adaptation. Current semantics: no-op (spec §9 Open Questions).
type RecomputeParamsMsg struct{}

func (DataMsg) message()                {}
func (TimeoutMsg) message()             {}
func (MoveToStatusMsg) message()        {}
func (UserSwitchOnMsg) message()        {}
func (UserSwitchOffMsg) message()       {}
func (QueueTransmitPacketMsg) message() {}
func (ReportUtilityMsg) message()       {}
func (SetParamsMsg) message()           {}
func (RecomputeParamsMsg) message()     {}

// IsControl reports whether msg must be ordered ahead of Data messages at an
// identical event time (spec §3 Invariants, "control before data").
func IsControl(msg Message) bool {
	_, isData := msg.(DataMsg)
	return !isData
}
