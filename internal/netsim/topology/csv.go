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

package topology

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadGraph parses a topology file, one "node,father[,weight]" line per
// node, into a Graph. A missing weight column defaults to 0 (no recorded
// link capacity for that edge).
func ReadGraph(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("topology: %w", err)
	}
	defer f.Close()

	g := New()
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		pieces := strings.Split(line, ",")
		if len(pieces) != 2 && len(pieces) != 3 {
			return nil, fmt.Errorf("topology: line %d: want 2 or 3 comma-separated fields, got %d", lineNo, len(pieces))
		}

		node, err := strconv.Atoi(strings.TrimSpace(pieces[0]))
		if err != nil {
			return nil, fmt.Errorf("topology: line %d: node id: %w", lineNo, err)
		}
		father, err := strconv.Atoi(strings.TrimSpace(pieces[1]))
		if err != nil {
			return nil, fmt.Errorf("topology: line %d: father id: %w", lineNo, err)
		}

		var weight uint64
		if len(pieces) == 3 {
			weight, err = strconv.ParseUint(strings.TrimSpace(pieces[2]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("topology: line %d: weight: %w", lineNo, err)
			}
		}
		g.AddNode(node, father, weight)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("topology: %w", err)
	}

	g.InitializeRoutes()
	return g, nil
}
