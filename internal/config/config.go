// Package config loads optional on-disk defaults for the encoder options
// the CLI exposes as flags. A config file is never required; flags always
// override whatever it sets (see SPEC_FULL.md §8, "Config precedence").
package config

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/Kreeblah/flexiGIF/lzw"
)

// File is the on-disk shape of a .flexigif.yml config file.
type File struct {
	Alignment           *int  `yaml:"alignment"`
	Greedy              *bool `yaml:"greedy"`
	MinNonGreedyMatch   *int  `yaml:"min_nongreedy_match"`
	MinImprovement      *int  `yaml:"min_improvement"`
	SplitRuns           *bool `yaml:"split_runs"`
	PrettyGood          *bool `yaml:"pretty_good"`
	StartWithClearCode  *bool `yaml:"start_with_clear_code"`
	Compatible          *bool `yaml:"compatible"`
}

// DefaultPaths is where the CLI looks for a config file, in order, when
// $FLEXIGIF_CONFIG isn't set.
var DefaultPaths = []string{".flexigif.yml"}

// Load reads and parses a config file from $FLEXIGIF_CONFIG, or the first
// of DefaultPaths that exists. It returns a nil *File (not an error) when
// no config file is found; a config file is always optional.
func Load() (*File, error) {
	path := os.Getenv("FLEXIGIF_CONFIG")
	if path == "" {
		for _, p := range DefaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Apply overlays non-nil fields of f onto opts, returning the result.
// Called before flag parsing so that flags, applied afterward by the
// caller, always win.
func (f *File) Apply(opts lzw.Options) lzw.Options {
	if f == nil {
		return opts
	}
	if f.Alignment != nil {
		opts.Alignment = *f.Alignment
	}
	if f.Greedy != nil {
		opts.Greedy = *f.Greedy
	}
	if f.MinNonGreedyMatch != nil {
		opts.MinNonGreedyMatch = *f.MinNonGreedyMatch
	}
	if f.MinImprovement != nil {
		opts.MinImprovement = *f.MinImprovement
	}
	if f.SplitRuns != nil {
		opts.SplitRuns = *f.SplitRuns
	}
	if f.PrettyGood != nil {
		opts.PrettyGood = *f.PrettyGood
	}
	if f.StartWithClearCode != nil {
		opts.StartWithClearCode = *f.StartWithClearCode
	}
	if f.Compatible != nil {
		opts.Compatible = *f.Compatible
	}
	return opts
}
