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

import "testing"

// buildSmallTree: mainframe(0) <- router(1) <- dslam(2) <- leaves(10, 11);
// dslam(3) <- leaf(12), also under router(1).
func buildSmallTree() *Graph {
	g := New()
	g.AddNode(1, 0, 1000)
	g.AddNode(2, 1, 100)
	g.AddNode(3, 1, 100)
	g.AddNode(10, 2, 10)
	g.AddNode(11, 2, 10)
	g.AddNode(12, 3, 10)
	return g
}

func TestGraphLeaves(t *testing.T) {
	g := buildSmallTree()
	leaves := g.Leaves()
	want := map[int]bool{10: true, 11: true, 12: true}
	if len(leaves) != len(want) {
		t.Fatalf("Leaves() = %v, want keys of %v", leaves, want)
	}
	for _, l := range leaves {
		if !want[l] {
			t.Fatalf("unexpected leaf %d", l)
		}
	}
}

func TestGraphChildren(t *testing.T) {
	g := buildSmallTree()
	children := g.Children(1)
	want := map[int]bool{2: true, 3: true}
	if len(children) != 2 {
		t.Fatalf("Children(1) = %v, want 2 and 3", children)
	}
	for _, c := range children {
		if !want[c] {
			t.Fatalf("unexpected child %d of node 1", c)
		}
	}
}

func TestGraphInitializeRoutes(t *testing.T) {
	g := buildSmallTree()
	g.InitializeRoutes()

	routerRoutes := g.Routes(1)
	if routerRoutes[10] != 2 {
		t.Fatalf("router route to leaf 10 = %d, want 2 (via dslam)", routerRoutes[10])
	}
	if routerRoutes[12] != 3 {
		t.Fatalf("router route to leaf 12 = %d, want 3 (via other dslam)", routerRoutes[12])
	}

	dslamRoutes := g.Routes(2)
	if dslamRoutes[10] != 10 {
		t.Fatalf("dslam route to leaf 10 = %d, want 10 (direct)", dslamRoutes[10])
	}

	mainframeRoutes := g.Routes(0)
	if mainframeRoutes[10] != 1 {
		t.Fatalf("mainframe route to leaf 10 = %d, want 1 (via router)", mainframeRoutes[10])
	}
}

func TestGraphRoutesPanicsWithoutInitialize(t *testing.T) {
	g := buildSmallTree()
	defer func() {
		if recover() == nil {
			t.Fatal("Routes() before InitializeRoutes() did not panic")
		}
	}()
	g.Routes(1)
}
