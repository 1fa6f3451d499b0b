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

// Package simlog provides the simulator's thin logging shim: stdlib log,
// gated by a package-level verbosity switch, so a run at default verbosity
// stays quiet while -debug traces every node transition.
package simlog

import (
	"log"
	"os"
)

var (
	std     = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
	verbose = false
)

// SetVerbose toggles whether Debugf actually writes anything.
func SetVerbose(v bool) { verbose = v }

// Infof always logs.
func Infof(format string, args ...any) { std.Printf(format, args...) }

// Debugf logs only when verbose tracing is enabled.
func Debugf(format string, args ...any) {
	if verbose {
		std.Printf(format, args...)
	}
}

// Fatalf logs and exits the process, mirroring log.Fatalf.
func Fatalf(format string, args ...any) { std.Fatalf(format, args...) }
