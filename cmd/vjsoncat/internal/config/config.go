/*
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads vjsoncat's optional TOML configuration file.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds vjsoncat's tunables, overridable by command-line flags.
type Config struct {
	ChunkSize     int      `toml:"chunk_size"`
	MaxDepth      int      `toml:"max_depth"`
	MaxBufferSize int      `toml:"max_buffer_size"`
	Watch         []string `toml:"watch"`
	Skip          []string `toml:"skip"`
	Color         bool     `toml:"color"`
}

// Default returns vjsoncat's built-in defaults.
func Default() *Config {
	return &Config{
		ChunkSize:     16,
		MaxDepth:      256,
		MaxBufferSize: 128 << 20,
		Color:         true,
	}
}

// Load reads and parses path, if non-empty, over the default config. An
// empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
