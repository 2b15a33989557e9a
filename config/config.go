// This file is part of eosd.
//
// eosd is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// eosd is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with eosd.  If not, see <https://www.gnu.org/licenses/>.

// Package config loads the settings every CLI in cmd/ needs before it can
// open an asset and build a Game: PRNG seed, difficulty rank, the numeric
// difficulty ECL scripts read back via variable -10014, and where to find
// asset files. Settings come from a YAML file with environment overrides
// loaded via .env, the same two-layer scheme the teacher's own CLI front
// ends use (flags for the one-off value, a file for everything that rarely
// changes).
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kurokoma/eosd/errors"
	"github.com/kurokoma/eosd/rank"
)

// Config bundles the settings a simulation run is seeded with.
type Config struct {
	Seed       uint16 `yaml:"seed"`
	Rank       string `yaml:"rank"`
	Difficulty int32  `yaml:"difficulty"`
	AssetPath  string `yaml:"asset_path"`

	// DebugAddr, when non-empty, is the address package debugserver should
	// listen on. Empty disables the debug server entirely.
	DebugAddr string `yaml:"debug_addr"`
}

// Default returns the settings used when no file or environment override is
// present: seed 0, Normal rank, difficulty 0, assets in the current working
// directory.
func Default() Config {
	return Config{
		Seed:       0,
		Rank:       "normal",
		Difficulty: 0,
		AssetPath:  ".",
	}
}

// Load reads a YAML config file at path, then applies EOSD_-prefixed
// environment variables on top of it (loading path+".env" first, if
// present, via godotenv, matching the teacher's habit of keeping local
// overrides out of version control). A missing YAML file is not an error:
// Load falls back to Default() and applies only the environment layer.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, errors.Errorf(errors.ConfigError, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, errors.Errorf(errors.ConfigError, err)
		}
	}

	_ = godotenv.Load(path + ".env") // best-effort; absence is normal

	if v, ok := os.LookupEnv("EOSD_SEED"); ok {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return Config{}, errors.Errorf(errors.ConfigError, err)
		}
		cfg.Seed = uint16(n)
	}
	if v, ok := os.LookupEnv("EOSD_RANK"); ok {
		cfg.Rank = v
	}
	if v, ok := os.LookupEnv("EOSD_DIFFICULTY"); ok {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return Config{}, errors.Errorf(errors.ConfigError, err)
		}
		cfg.Difficulty = int32(n)
	}
	if v, ok := os.LookupEnv("EOSD_ASSET_PATH"); ok {
		cfg.AssetPath = v
	}
	if v, ok := os.LookupEnv("EOSD_DEBUG_ADDR"); ok {
		cfg.DebugAddr = v
	}

	return cfg, nil
}

// ParsedRank resolves the configured rank name, falling back to Normal on an
// unrecognised value rather than failing the whole config load over a typo.
func (c Config) ParsedRank() rank.Rank {
	r, ok := rank.Parse(c.Rank)
	if !ok {
		return rank.Normal
	}
	return r
}
