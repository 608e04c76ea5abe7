package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nao1215/privacyscan/internal/model"
	"github.com/nao1215/privacyscan/internal/trackerdb"
)

// TimeoutOverrides are the timeout tiers settable from the config file.
// Values use Go duration syntax ("3s", "500ms").
type TimeoutOverrides struct {
	Master       time.Duration `yaml:"master,omitempty"`
	KeyValueTab  time.Duration `yaml:"keyValueTab,omitempty"`
	DatabaseTab  time.Duration `yaml:"databaseTab,omitempty"`
	DatabaseOpen time.Duration `yaml:"databaseOpen,omitempty"`
	RecordCount  time.Duration `yaml:"recordCount,omitempty"`
}

// File represents the structure of the .privacyscan configuration file.
type File struct {
	// Timeouts override the default timeout tiers.
	Timeouts TimeoutOverrides `yaml:"timeouts,omitempty"`

	// MaxTabs overrides the tab cap.
	MaxTabs int `yaml:"maxTabs,omitempty"`

	// InjectionRate limits script injections per second.
	InjectionRate float64 `yaml:"injectionRate,omitempty"`

	// Trackers adds domains to tracker categories, keyed by category name.
	// Domains listed under "essential" are never treated as trackers.
	Trackers map[string][]string `yaml:"trackers,omitempty"`

	// RiskOverrides pins the risk level of domains and their subdomains.
	RiskOverrides map[string]string `yaml:"riskOverrides,omitempty"`
}

// TrackerOptions converts the file's tracker extensions into tracking
// database options. Unknown categories and risk levels are errors.
// Options are returned in a stable order.
func (f *File) TrackerOptions() ([]trackerdb.Option, error) {
	if f == nil {
		return nil, nil
	}

	var opts []trackerdb.Option
	for _, name := range sortedKeys(f.Trackers) {
		category := model.Category(strings.ToLower(name))
		if !isListCategory(category) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
		}
		opts = append(opts, trackerdb.WithDomains(category, f.Trackers[name]...))
	}

	for _, domain := range sortedKeys(f.RiskOverrides) {
		risk := model.Risk(strings.ToLower(f.RiskOverrides[domain]))
		switch risk {
		case model.RiskLow, model.RiskMedium, model.RiskHigh, model.RiskCritical:
		default:
			return nil, fmt.Errorf("%w: %q for %s", ErrUnknownRisk, f.RiskOverrides[domain], domain)
		}
		opts = append(opts, trackerdb.WithRiskOverride(domain, risk))
	}
	return opts, nil
}

// isListCategory reports whether category has a domain list.
func isListCategory(category model.Category) bool {
	return category.IsTracking() || category == model.CategoryEssential
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
