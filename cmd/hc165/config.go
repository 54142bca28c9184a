// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v2"
)

// config is the pin wiring and polling setup. Values are read from the
// config file, then the environment, then the flags, later ones winning.
type config struct {
	Clock       string        `yaml:"clock" env:"HC165_CLK"`
	Latch       string        `yaml:"latch" env:"HC165_LATCH"`
	Data        string        `yaml:"data" env:"HC165_DATA"`
	ClockEnable string        `yaml:"clock_enable" env:"HC165_CE"`
	Interval    time.Duration `yaml:"interval" env:"HC165_INTERVAL"`
	PulseWidth  time.Duration `yaml:"pulse_width" env:"HC165_PULSE"`
	Pull        string        `yaml:"pull" env:"HC165_PULL"`
}

var defaultConfig = config{
	Clock:      "GPIO5",
	Latch:      "GPIO4",
	Data:       "GPIO26",
	Interval:   20 * time.Millisecond,
	PulseWidth: 2 * time.Microsecond,
	Pull:       "down",
}

// loadConfig starts from the defaults, then applies path (if not empty) and
// the environment.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (cfg *config) validate() error {
	if cfg.Clock == "" || cfg.Latch == "" || cfg.Data == "" {
		return errors.New("clock, latch and data pins are required")
	}
	if cfg.Interval < 0 {
		return fmt.Errorf("invalid interval %s", cfg.Interval)
	}
	if _, err := parsePull(cfg.Pull); err != nil {
		return err
	}
	return nil
}
