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

import "testing"

func TestDelayTrackerMedianEmpty(t *testing.T) {
	tr := NewDelayTracker(5)
	if _, ok := tr.Median(); ok {
		t.Fatal("Median() on empty tracker returned ok=true")
	}
}

func TestDelayTrackerMedianOdd(t *testing.T) {
	tr := NewDelayTracker(5)
	for _, v := range []float64{3, 1, 2} {
		tr.Push(v)
	}
	got, ok := tr.Median()
	if !ok || got != 2 {
		t.Fatalf("Median() = (%v, %v), want (2, true)", got, ok)
	}
}

func TestDelayTrackerMedianEven(t *testing.T) {
	tr := NewDelayTracker(5)
	for _, v := range []float64{1, 2, 3, 4} {
		tr.Push(v)
	}
	got, ok := tr.Median()
	if !ok || got != 2.5 {
		t.Fatalf("Median() = (%v, %v), want (2.5, true)", got, ok)
	}
}

func TestDelayTrackerEvictsOldest(t *testing.T) {
	tr := NewDelayTracker(3)
	for _, v := range []float64{10, 20, 30, 1, 2} {
		tr.Push(v)
	}
	if tr.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tr.Len())
	}
	got, _ := tr.Median()
	if got != 2 {
		t.Fatalf("Median() after eviction = %v, want 2 (window = [30,1,2])", got)
	}
}
