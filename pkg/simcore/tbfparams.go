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

// TbfParams configures a token-bucket filter: the queue depth it will hold
// packets at, the size of its token pool, and the rate that pool refills at.
type TbfParams struct {
	MaxQueue  int
	MaxTokens float64
	TokenRate float64
}

// DefaultTbfParams mirrors the original simulator's default shaping profile.
func DefaultTbfParams() TbfParams {
	return TbfParams{MaxQueue: 100, MaxTokens: 10000.0, TokenRate: 10000.0}
}
