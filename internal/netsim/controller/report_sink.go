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

// Package controller implements the session-arrival and utility-aggregation
// singleton every client reports back to.
package controller

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
)

// reportFlushThreshold is the buffered-report size, in bytes, past which a
// ReportUtility delivery triggers a flush to disk.
const reportFlushThreshold = 1e4

// reportSink is a buffered, append-only CSV sink for utility reports: one
// line per report, "component_id,utility,notes\n". It buffers in memory and
// only touches disk once the buffer crosses reportFlushThreshold or Flush is
// called, mirroring the bounded-flush discipline of a high-throughput
// append log.
type reportSink struct {
	mu   sync.Mutex
	path string
	buf  strings.Builder
}

func newReportSink(path string) *reportSink {
	return &reportSink{path: path}
}

// Write appends one CSV line to the in-memory buffer and flushes if the
// buffer has grown past the threshold.
func (s *reportSink) Write(componentID int, utility float64, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(&s.buf, "%d,%.14f,%s\n", componentID, utility, notes)
	if s.buf.Len() > reportFlushThreshold {
		return s.flushLocked()
	}
	return nil
}

// Flush forces the buffer to disk regardless of size.
func (s *reportSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *reportSink) flushLocked() error {
	if s.buf.Len() == 0 {
		return nil
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(s.buf.String()); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	s.buf.Reset()
	return nil
}
