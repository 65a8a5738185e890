// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/zyhnesmr/rdict/pkg/hash"
)

// Config holds the knobs that govern a dictionary's behavior and the
// demo command's ambient concerns (logging, hash seeding). It carries
// nothing about a surrounding server: no network, persistence, or
// protocol settings, since those belong to an application built on top
// of this package, not to the package itself.
type Config struct {
	// InitialCapacity overrides the dictionary's first-allocation size.
	// 0 means "use the package default".
	InitialCapacity int

	// ResizeEnabled gates ordinary load-factor-triggered growth; it still
	// yields to the forced-growth ratio when disabled.
	ResizeEnabled bool

	// HashSeedHex is the 32-character hex encoding of the 128-bit SipHash
	// seed. Empty means "generate one at startup".
	HashSeedHex string

	// LogLevel is one of debug, verbose, notice, warning, error.
	LogLevel string

	// SampleBatch is the default candidate count passed to SampleK by the
	// demo command's eviction-candidate subcommand.
	SampleBatch int

	// ScanBatchMillis is the scan-batch-millis setting, in milliseconds. It
	// is parsed, stored and returned by Get, but no code in this module
	// reads it.
	ScanBatchMillis int64

	mu sync.RWMutex
}

// Default returns the package's default configuration.
func Default() *Config {
	return &Config{
		InitialCapacity: 0,
		ResizeEnabled:   true,
		HashSeedHex:     "",
		LogLevel:        "notice",
		SampleBatch:     15,
		ScanBatchMillis: 1,
	}
}

var (
	globalConfig *Config
	once         sync.Once
)

// Instance returns the process-wide configuration instance.
func Instance() *Config {
	once.Do(func() {
		globalConfig = Default()
	})
	return globalConfig
}

// ParseFlags parses command-line flags into c, optionally loading a
// config file first if -c is given.
func (c *Config) ParseFlags() {
	configFile := flag.String("c", "", "Configuration file path")
	capacity := flag.Int("capacity", 0, "Initial dictionary capacity (0 = package default)")
	resize := flag.Bool("resize", true, "Enable load-factor-triggered growth")
	seed := flag.String("hash-seed", "", "32 hex-character 128-bit hash seed (empty = random)")
	logLevel := flag.String("loglevel", "", "Log level: debug, verbose, notice, warning, error")
	sampleBatch := flag.Int("sample-batch", 0, "Default SampleK candidate count (0 = package default)")
	flag.Parse()

	if *configFile != "" {
		if err := c.LoadFile(*configFile); err != nil {
			fmt.Printf("Failed to load config file: %v\n", err)
			os.Exit(1)
		}
	}
	if *capacity != 0 {
		c.InitialCapacity = *capacity
	}
	c.ResizeEnabled = *resize
	if *seed != "" {
		c.HashSeedHex = *seed
	}
	if *logLevel != "" {
		c.LogLevel = *logLevel
	}
	if *sampleBatch != 0 {
		c.SampleBatch = *sampleBatch
	}
}

// LoadFile loads configuration from a file in the same "key value" line
// format the teacher's server config uses.
func (c *Config) LoadFile(filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return c.Parse(string(content))
}

// Parse parses configuration content.
func (c *Config) Parse(content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.Index(line, "#"); idx > 0 {
			line = strings.TrimSpace(line[:idx])
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		key := strings.ToLower(parts[0])
		value := strings.Join(parts[1:], " ")

		if err := c.setConfig(key, value); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}

func (c *Config) setConfig(key, value string) error {
	switch key {
	case "capacity":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		c.InitialCapacity = n
	case "resize-enabled":
		c.ResizeEnabled = strings.ToLower(value) == "yes"
	case "hash-seed":
		c.HashSeedHex = value
	case "loglevel":
		c.LogLevel = strings.ToLower(value)
	case "sample-batch":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		c.SampleBatch = n
	case "scan-batch-millis":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		c.ScanBatchMillis = n
	default:
		// Unknown config key, ignore.
	}
	return nil
}

// Get returns a configuration value by key.
func (c *Config) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch strings.ToLower(key) {
	case "capacity":
		return strconv.Itoa(c.InitialCapacity), true
	case "resize-enabled":
		return boolToStr(c.ResizeEnabled), true
	case "hash-seed":
		return c.HashSeedHex, true
	case "loglevel":
		return c.LogLevel, true
	case "sample-batch":
		return strconv.Itoa(c.SampleBatch), true
	case "scan-batch-millis":
		return strconv.FormatInt(c.ScanBatchMillis, 10), true
	default:
		return "", false
	}
}

// Set sets a configuration value by key.
func (c *Config) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setConfig(key, value)
}

func boolToStr(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// IsDebugEnabled reports whether the configured log level is debug.
func (c *Config) IsDebugEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.LogLevel == "debug"
}

// IsVerboseEnabled reports whether the configured log level is verbose or
// debug.
func (c *Config) IsVerboseEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.LogLevel == "verbose" || c.LogLevel == "debug"
}

// HashSeed decodes HashSeedHex into a hash.Seed. If the field is empty it
// returns the zero Seed and no error (dictbench then generates a random
// seed); if it is not valid hex or not 16 bytes long it returns an error.
func (c *Config) HashSeed() (hash.Seed, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var s hash.Seed
	if c.HashSeedHex == "" {
		return s, nil
	}
	b, err := hex.DecodeString(c.HashSeedHex)
	if err != nil {
		return s, fmt.Errorf("config: invalid hash-seed: %w", err)
	}
	if len(b) != len(s) {
		return s, fmt.Errorf("config: hash-seed must be %d bytes, got %d", len(s), len(b))
	}
	copy(s[:], b)
	return s, nil
}
