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

// Overview:
//   netsim is a discrete-event simulator of a hierarchical access network:
//   client leaves hang off DSLAMs, DSLAMs off routers, routers off one
//   mainframe core. Each leaf runs as many sessions as its weight, each
//   either a reliable, window-ACKed session or an unacknowledged,
//   bitrate-paced one against its own server instance at the core, shaped along the way by a token-bucket filter and a
//   bounded FIFO at every hop. A central controller reports per-session
//   utility scores and re-arms new sessions on a Poisson-ish interarrival
//   schedule until the arrival horizon closes.
//
// Usage:
//   go run ./cmd/netsim -topology data/topology.txt -horizon 200 \
//       -report utility_report.csv -http :9090
//   - Observe metrics at GET /metrics (Prometheus exposition).
//   - utility_report.csv accumulates one CSV line per reported session.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"netsim/internal/netsim/bootstrap"
	"netsim/internal/netsim/controller"
	"netsim/internal/netsim/simlog"
	"netsim/internal/netsim/telemetry"
	"netsim/internal/netsim/topology"
	"netsim/pkg/simcore"
)

func main() {
	topologyPath := flag.String("topology", "data/topology.txt", "path to the node,father[,weight] topology file")
	horizon := flag.Float64("horizon", 200.0, "virtual-time horizon the loop runs to (seconds); 0 runs to exhaustion")
	arrivalRate := flag.Float64("arrival_rate", 1.0, "mean session arrival rate per client, sessions/sec")
	seed := flag.Int64("seed", 1, "RNG seed for session interarrival sampling")
	reportPath := flag.String("report", "utility_report.csv", "utility report CSV path")
	httpAddr := flag.String("http", ":9090", "Prometheus /metrics listen address; empty disables it")
	verbose := flag.Bool("verbose", false, "enable debug-level logging")
	linkBps := flag.Float64("link_bps", 1000.0, "per-hop FIFO service rate, bits/sec")
	fifoMaxQueue := flag.Int("fifo_max_queue", 40, "FIFO queue depth, packets")
	redisAddr := flag.String("redis_addr", "", "optional redis address for a durable utility ledger; empty keeps the in-memory ledger")
	flag.Parse()

	if *topologyPath == "" {
		*topologyPath = "data/topology.txt"
	}
	if *reportPath == "" {
		*reportPath = "utility_report.csv"
	}
	if *arrivalRate <= 0 {
		*arrivalRate = 1.0
	}
	if *linkBps <= 0 {
		*linkBps = 1000.0
	}
	if *fifoMaxQueue <= 0 {
		*fifoMaxQueue = 40
	}

	simlog.SetVerbose(*verbose)

	if *httpAddr != "" {
		telemetry.Serve(*httpAddr)
		log.Printf("netsim: metrics listening on %s", *httpAddr)
	}

	graph, err := topology.ReadGraph(*topologyPath)
	if err != nil {
		log.Fatalf("netsim: %v", err)
	}

	var ctrlOpts []controller.Option
	if *redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
		ctrlOpts = append(ctrlOpts, controller.WithLedger(controller.NewGoRedisLedger(rdb, 0)))
	}
	ctrl := controller.New(*arrivalRate, *seed, *reportPath, ctrlOpts...)
	defer func() {
		if err := ctrl.Close(); err != nil {
			log.Fatalf("netsim: report flush: %v", err)
		}
	}()

	cfg := bootstrap.DefaultConfig()
	cfg.LinkBandwidthBps = *linkBps
	cfg.FIFOMaxQueue = *fifoMaxQueue
	cfg.SessionArrivalRate = *arrivalRate
	cfg.Seed = *seed
	cfg.ReportPath = *reportPath

	registry, seedEvents := bootstrap.Build(graph, ctrl, cfg)
	loop := simcore.NewLoop(registry, seedEvents...)
	loop.Trace = func(simcore.Event) { telemetry.EventProcessed() }

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan int, 1)
	go func() {
		var n int
		if *horizon > 0 {
			n = loop.RunUntil(*horizon)
		} else {
			n = loop.Run()
		}
		done <- n
	}()

	select {
	case n := <-done:
		log.Printf("netsim: delivered %d events, stopped at t=%.6f", n, loop.Now())
	case <-sigCh:
		log.Printf("netsim: interrupted at t=%.6f", loop.Now())
	}
}
