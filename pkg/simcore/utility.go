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

import "math"

// Utility maps a measured QoS value onto a [0, 1] satisfaction score via a
// logistic curve centered on critic, with tol controlling its steepness and
// margin pinning the score at value == critic+tol (or critic-tol, depending
// on the sign convention of the caller) to exactly margin.
//
//	U(x) = 1 / (1 + ((1-margin)/margin) ^ ((x-critic)/tol))
func Utility(value, critic, tol, margin float64) float64 {
	base := (1 - margin) / margin
	exp := (value - critic) / tol
	return 1 / (1 + math.Pow(base, exp))
}
