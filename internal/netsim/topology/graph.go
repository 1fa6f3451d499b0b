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

// Package topology models the physical hierarchy the simulator runs on: a
// rooted tree of device node ids (leaf endpoints, DSLAMs, routers, the
// mainframe at the root) with per-link weights, plus the precomputed
// leaf-to-next-hop routing tables every Switch installs from.
package topology

import "fmt"

// Graph is a rooted tree: every node but the root has exactly one father.
type Graph struct {
	fathers   map[int]int
	weights   map[int]uint64
	leafChild map[int]map[int]int // node -> (leaf -> immediate child toward that leaf)
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		fathers: make(map[int]int),
		weights: make(map[int]uint64),
	}
}

// AddNode records nodeID's parent and, if nonzero, the weight of the edge
// connecting them (e.g. link bandwidth).
func (g *Graph) AddNode(nodeID, fatherID int, weight uint64) {
	if weight != 0 {
		g.weights[nodeID] = weight
	}
	g.fathers[nodeID] = fatherID
}

// Father returns nodeID's parent, or false if nodeID is the root or unknown.
func (g *Graph) Father(nodeID int) (int, bool) {
	f, ok := g.fathers[nodeID]
	return f, ok
}

// Weight returns the edge weight recorded for nodeID, or false if none was
// given.
func (g *Graph) Weight(nodeID int) (uint64, bool) {
	w, ok := g.weights[nodeID]
	return w, ok
}

// Leaves returns every node id that is never itself a father: the session
// endpoints of the topology.
func (g *Graph) Leaves() []int {
	nonLeaves := make(map[int]bool, len(g.fathers))
	for _, father := range g.fathers {
		nonLeaves[father] = true
	}
	var leaves []int
	for node := range g.fathers {
		if !nonLeaves[node] {
			leaves = append(leaves, node)
		}
	}
	return leaves
}

// Nodes returns every node id that appears in the tree, leaves and
// ancestors alike, in no particular order.
func (g *Graph) Nodes() []int {
	seen := make(map[int]bool, len(g.fathers)*2)
	for node, father := range g.fathers {
		seen[node] = true
		seen[father] = true
	}
	nodes := make([]int, 0, len(seen))
	for node := range seen {
		nodes = append(nodes, node)
	}
	return nodes
}

// Children returns every node whose father is nodeID.
func (g *Graph) Children(nodeID int) []int {
	var children []int
	for node, father := range g.fathers {
		if father == nodeID {
			children = append(children, node)
		}
	}
	return children
}

// InitializeRoutes precomputes, for every ancestor node in the tree, a map
// from each descendant leaf to the immediate child that lies on the path
// toward that leaf. A Switch installed at an ancestor reads this table to
// decide which neighbor to forward a leaf-addressed packet to.
func (g *Graph) InitializeRoutes() {
	all := make(map[int]bool)
	for node, father := range g.fathers {
		all[node] = true
		all[father] = true
	}

	g.leafChild = make(map[int]map[int]int, len(all))
	for node := range all {
		g.leafChild[node] = make(map[int]int)
	}

	for _, leaf := range g.Leaves() {
		current := leaf
		for {
			father, ok := g.Father(current)
			if !ok {
				break
			}
			g.leafChild[father][leaf] = current
			current = father
		}
	}
}

// Routes returns the leaf -> immediate-child routing table for nodeID,
// populated by InitializeRoutes. It panics if InitializeRoutes has not been
// called or nodeID never appeared in the tree, mirroring the strict
// route-table lookup every Switch in the topology performs.
func (g *Graph) Routes(nodeID int) map[int]int {
	routes, ok := g.leafChild[nodeID]
	if !ok {
		panic(fmt.Sprintf("topology: node %d has no route table (InitializeRoutes not run, or unknown node)", nodeID))
	}
	return routes
}
