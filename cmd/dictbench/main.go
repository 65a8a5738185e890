// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dictbench exercises the main operations of pkg/dict against a
// synthetic string-keyed workload: construction, mutation, lookup,
// incremental resize, safe iteration, cursor scanning, and candidate
// sampling. It is a demonstration and smoke-test harness,
// not a server.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"time"

	"github.com/zyhnesmr/rdict/internal/config"
	"github.com/zyhnesmr/rdict/pkg/dict"
	"github.com/zyhnesmr/rdict/pkg/hash"
	"github.com/zyhnesmr/rdict/pkg/log"
)

var (
	Version   = "1.0.0"
	BuildTime = "unknown"
)

func main() {
	cfg := config.Instance()
	mode := flag.String("mode", "bench", "bench or candidates")
	n := flag.Int("n", 100000, "number of keys to load")
	hashName := flag.String("hash", "siphash", "key hash to use: siphash or xxhash")
	cfg.ParseFlags()
	log.SetLevelString(cfg.LogLevel)

	seed, err := cfg.HashSeed()
	if err != nil {
		log.Fatal("invalid hash seed: %v", err)
	}
	if seed == (hash.Seed{}) {
		if _, err := rand.Read(seed[:]); err != nil {
			log.Fatal("generating random hash seed: %v", err)
		}
	}
	hash.SetSeed(seed)

	log.Info("dictbench %s starting (build %s)", Version, BuildTime)
	log.Info("hash seed: %x", seed)
	log.Info("key hash: %s", *hashName)

	if !cfg.ResizeEnabled {
		dict.DisableResize()
		log.Info("resizing disabled; growth only past the forced ratio")
	}

	policy := dict.StringPolicy()
	if *hashName == "xxhash" {
		policy = dict.XXHashStringPolicy()
	}
	d := dict.New(policy, nil)
	if cfg.InitialCapacity > 0 {
		if err := d.Expand(uint64(cfg.InitialCapacity)); err != nil {
			log.Warn("initial Expand(%d) failed: %v", cfg.InitialCapacity, err)
		}
	}

	switch *mode {
	case "candidates":
		runCandidates(d, cfg, *n)
	default:
		runBench(d, *n)
	}

	log.Info("dictbench done")
}

func runBench(d *dict.Dict, n int) {
	start := time.Now()
	for i := 0; i < n; i++ {
		d.Add(benchKey(i), dict.Int64Value(int64(i)))
	}
	log.Info("loaded %d keys in %s", n, time.Since(start))

	if batches, err := d.RehashMilliseconds(1000); err != nil {
		log.Warn("rehash drain refused: %v", err)
	} else if batches > 0 {
		log.Info("drained remaining rehash in %d batches", batches)
	}

	hit := 0
	for i := 0; i < n; i++ {
		if _, ok := d.Find(benchKey(i)); ok {
			hit++
		}
	}
	log.Info("lookups: %d/%d hits", hit, n)

	for i := 0; i < n; i += 2 {
		d.Replace(benchKey(i), dict.Int64Value(int64(-i)))
	}
	for i := 0; i < n; i += 3 {
		d.Delete(benchKey(i))
	}
	log.Info("after replace/delete pass: %d entries remain", d.Len())

	visited := 0
	it := d.SafeIterator()
	for it.Next() {
		visited++
	}
	it.Release()
	log.Info("safe iterator visited %d entries", visited)

	distinct := make(map[string]bool, n)
	var cursor uint64
	for {
		cursor = d.Scan(cursor, nil, nil, func(_ any, e *dict.Entry) {
			distinct[dict.EntryKey(e).(string)] = true
		})
		if cursor == 0 {
			break
		}
	}
	log.Info("scan visited %d distinct keys", len(distinct))

	fmt.Print(d.Stats())
}

func runCandidates(d *dict.Dict, cfg *config.Config, n int) {
	for i := 0; i < n; i++ {
		d.Add(benchKey(i), dict.Int64Value(int64(i)))
	}

	candidates := d.SampleK(cfg.SampleBatch)
	log.Info("SampleK(%d) returned %d candidates", cfg.SampleBatch, len(candidates))
	for _, e := range candidates {
		fmt.Printf("candidate: %s\n", dict.EntryKey(e))
	}

	if e, ok := d.FairRandomEntry(); ok {
		fmt.Printf("fair pick: %s\n", dict.EntryKey(e))
	} else {
		fmt.Println("fair pick: none (empty dict)")
	}
}

func benchKey(i int) string {
	return fmt.Sprintf("key:%d", i)
}
