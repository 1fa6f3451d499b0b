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

import "sync/atomic"

// Process-wide monotonic counters. Every Packet.ID, Timeout.ID and SessionID
// handed out by the simulator comes from one of these, via atomic fetch-add,
// so that identifiers stay contiguous and replayable even though the engine
// itself is single-threaded (see spec §5, "Shared resource policy").
var (
	lastPacketID  atomic.Int64
	lastTimeoutID atomic.Int64
	lastSessionID atomic.Int64
)

// NextPacketID returns the next globally unique packet id.
func NextPacketID() int64 { return lastPacketID.Add(1) - 1 }

// NextTimeoutID returns the next globally unique timeout id.
func NextTimeoutID() int64 { return lastTimeoutID.Add(1) - 1 }

// NextSessionID returns the next globally unique session id.
func NextSessionID() int64 { return lastSessionID.Add(1) - 1 }

// ProcTime models the fixed per-event node service overhead paid by a
// store-and-forward link on every departure.
const ProcTime = 5e-6

// EmptyControlFrameBits is the wire size of a control frame carrying no
// payload (TcpDataRequest, TcpACK, UdpDataRequest, UdpFinishRequest): an
// Ethernet-ish frame header with nothing inside.
const EmptyControlFrameBits = 24 * 8
