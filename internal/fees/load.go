package fees

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

type TierConfig struct {
	// UpTo is the inclusive upper bound; empty on the last, unbounded tier
	UpTo  string            `yaml:"up_to"`
	Rates map[string]string `yaml:"rates"`
}

type ScheduleConfig struct {
	Tiers []TierConfig `yaml:"tiers"`
}

// LoadSchedule reads a YAML rate table. An empty path yields the default schedule.
func LoadSchedule(scheduleFile string) (*Schedule, error) {
	if scheduleFile == "" {
		return DefaultSchedule(), nil
	}

	var schedulePath string
	if filepath.IsAbs(scheduleFile) {
		schedulePath = scheduleFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		schedulePath = filepath.Join(wd, scheduleFile)
	}

	data, err := os.ReadFile(schedulePath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", scheduleFile, err)
	}

	schedule, err := ParseSchedule(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", scheduleFile, err)
	}
	return schedule, nil
}

// ParseSchedule decodes and validates a YAML rate table
func ParseSchedule(data []byte) (*Schedule, error) {
	var config ScheduleConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	tiers := make([]Tier, len(config.Tiers))
	for i, tc := range config.Tiers {
		if tc.UpTo != "" {
			upTo, err := decimal.NewFromString(tc.UpTo)
			if err != nil {
				return nil, fmt.Errorf("tier at index %d has invalid up_to %q: %w", i, tc.UpTo, err)
			}
			tiers[i].UpTo = &upTo
		}

		tiers[i].Rates = make(map[Plan]decimal.Decimal, len(tc.Rates))
		for name, value := range tc.Rates {
			plan, err := ParsePlan(name)
			if err != nil {
				return nil, fmt.Errorf("tier at index %d: %w", i, err)
			}
			r, err := decimal.NewFromString(value)
			if err != nil {
				return nil, fmt.Errorf("tier at index %d has invalid %s rate %q: %w", i, name, value, err)
			}
			tiers[i].Rates[plan] = r
		}
	}

	return NewSchedule(tiers)
}
