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

func TestUtilityAtCritic(t *testing.T) {
	got := Utility(4.0, 4.0, 1.0, 0.95)
	if diff := got - 0.5; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("Utility(critic) = %v, want 0.5", got)
	}
}

func TestUtilityMonotonicIncreasing(t *testing.T) {
	a := Utility(3.0, 4.0, 1.0, 0.95)
	b := Utility(4.0, 4.0, 1.0, 0.95)
	c := Utility(5.0, 4.0, 1.0, 0.95)
	if !(a < b && b < c) {
		t.Fatalf("Utility not monotonic increasing in value: %v, %v, %v", a, b, c)
	}
}

func TestUtilityMarginAtTolBoundary(t *testing.T) {
	got := Utility(5.0, 4.0, 1.0, 0.95)
	want := 0.95
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("Utility(critic+tol) = %v, want %v", got, want)
	}
}
