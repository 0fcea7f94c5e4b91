// Copyright 2024 The TMBASIC Authors
// This file is part of TMBASIC.
//
// TMBASIC is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// TMBASIC is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with TMBASIC. If not, see <http://www.gnu.org/licenses/>.

// Package config loads the VM's optional TOML configuration file using
// github.com/naoina/toml.
package config

import (
	"os"

	"github.com/naoina/toml"
)

// VMConfig holds the knobs an embedding host may want to override:
// stack capacities, the default cycle budget per Run call, and which
// optional system calls are enabled.
type VMConfig struct {
	ValueStackCapacity  int             `toml:"value_stack_capacity"`
	ObjectStackCapacity int             `toml:"object_stack_capacity"`
	DefaultCycleBudget  int             `toml:"default_cycle_budget"`
	EnabledSystemCalls  map[string]bool `toml:"enabled_system_calls"`
}

// Default returns the configuration used when no file is supplied.
func Default() VMConfig {
	return VMConfig{
		ValueStackCapacity:  4096,
		ObjectStackCapacity: 4096,
		DefaultCycleBudget:  100000,
		EnabledSystemCalls:  map[string]bool{},
	}
}

// Load reads and decodes a TOML file at path, starting from Default() so
// an omitted field keeps its default rather than zeroing out.
func Load(path string) (VMConfig, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	if err := toml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
