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

import "sort"

// DelayTracker keeps a bounded window of recent delay samples and reports
// their median, the adaptive-RTT estimator used by the reliable transport
// server.
type DelayTracker struct {
	samples []float64
	nMax    int
}

// NewDelayTracker returns a tracker holding at most nMax samples.
func NewDelayTracker(nMax int) *DelayTracker {
	return &DelayTracker{samples: make([]float64, 0, nMax), nMax: nMax}
}

// Push records a new sample, evicting the oldest one once the window is full.
func (t *DelayTracker) Push(v float64) {
	if len(t.samples) >= t.nMax {
		t.samples = t.samples[1:]
	}
	t.samples = append(t.samples, v)
}

// Len reports how many samples are currently held.
func (t *DelayTracker) Len() int { return len(t.samples) }

// Median returns the median of the current window and true, or (0, false) if
// the window is empty. Even-length windows average the two middle samples.
func (t *DelayTracker) Median() (float64, bool) {
	n := len(t.samples)
	if n == 0 {
		return 0, false
	}
	sorted := make([]float64, n)
	copy(sorted, t.samples)
	sort.Float64s(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}
