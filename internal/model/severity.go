package model

import (
	"fmt"
	"strings"
)

// Severity represents the urgency of a recommendation or high-risk item.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. Text marshaling keeps the JSON
// output readable.
type Severity int

const (
	// SeverityInfo is used for positive feedback and purely informational entries.
	SeverityInfo Severity = iota

	// SeverityLow indicates minor issues such as long-lived cookies.
	SeverityLow

	// SeverityMedium indicates moderate issues such as heavy analytics usage.
	SeverityMedium

	// SeverityHigh indicates serious issues such as advertising trackers or
	// cross-site tracking domains.
	SeverityHigh

	// SeverityCritical indicates issues that allow re-identification without
	// consent, such as fingerprinting.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the severity as a lowercase word ("critical", "high", ...).
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

// UnmarshalText decodes a severity word. It is case-insensitive.
func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "info":
		*s = SeverityInfo
	case "low":
		*s = SeverityLow
	case "medium":
		*s = SeverityMedium
	case "high":
		*s = SeverityHigh
	case "critical":
		*s = SeverityCritical
	default:
		return fmt.Errorf("unknown severity %q", string(text))
	}
	return nil
}

// FindingInfo contains display metadata about a recommendation action or
// high-risk item type.
type FindingInfo struct {
	Severity       Severity
	Title          string
	Impact         string
	Recommendation string
}

// findingInfoMapping maps item types and recommendation actions to their metadata.
// This centralized mapping keeps wording and severity consistent between the
// analyzer and the report writers.
var findingInfoMapping = map[string]FindingInfo{
	// High-risk item types
	HighRiskFingerprinting: {
		Severity:       SeverityCritical,
		Title:          "Fingerprinting cookies detected",
		Impact:         "Fingerprinting services derive a stable device identifier that survives cookie deletion.",
		Recommendation: "Remove these cookies and enable fingerprinting protection in the browser.",
	},
	HighRiskExcessiveStorage: {
		Severity:       SeverityMedium,
		Title:          "Excessive local storage",
		Impact:         "Large per-origin storage blobs can hold tracking identifiers and browsing history.",
		Recommendation: "Clear site data for this origin if you do not rely on it offline.",
	},
	HighRiskCrossSiteTracking: {
		Severity:       SeverityHigh,
		Title:          "Cross-site tracking",
		Impact:         "A high-risk tracking domain sets several cookies and can follow you across unrelated sites.",
		Recommendation: "Block third-party cookies for this domain.",
	},
	HighRiskInsecureSensitive: {
		Severity:       SeverityHigh,
		Title:          "Insecure cookies on sensitive sites",
		Impact:         "Cookies without the Secure flag on banking or login domains can leak over plain HTTP.",
		Recommendation: "Sign out and back in over HTTPS, and report the issue to the site operator.",
	},

	// Recommendation actions
	ActionRemoveAdvertising: {
		Severity:       SeverityHigh,
		Title:          "Remove advertising cookies",
		Impact:         "Advertising networks build cross-site interest profiles from these cookies.",
		Recommendation: "Delete advertising cookies and block third-party cookies.",
	},
	ActionRemoveFingerprinting: {
		Severity:       SeverityCritical,
		Title:          "Remove fingerprinting cookies",
		Impact:         "Fingerprinting identifiers re-identify you even after clearing cookies.",
		Recommendation: "Delete these cookies and enable fingerprinting protection.",
	},
	ActionRemoveSocial: {
		Severity:       SeverityMedium,
		Title:          "Remove social media tracking cookies",
		Impact:         "Social networks track visits to any page embedding their widgets or pixels.",
		Recommendation: "Delete Facebook pixel cookies and use a container or separate profile for social media.",
	},
	ActionReduceAnalytics: {
		Severity:       SeverityMedium,
		Title:          "Reduce analytics tracking",
		Impact:         "Many analytics cookies record detailed browsing behaviour.",
		Recommendation: "Delete analytics cookies or install a tracker blocker.",
	},
	ActionClearLongLived: {
		Severity:       SeverityLow,
		Title:          "Clear long-lived cookies",
		Impact:         "Cookies that persist for more than a year allow long-term tracking.",
		Recommendation: "Configure the browser to clear cookies on exit.",
	},
	ActionClearStorage: {
		Severity:       SeverityLow,
		Title:          "Clear unused site storage",
		Impact:         "Large local storage can retain identifiers and cached personal data.",
		Recommendation: "Clear site data for origins you no longer use.",
	},
	ActionSecureSensitive: {
		Severity:       SeverityHigh,
		Title:          "Secure cookies on sensitive sites",
		Impact:         "Sensitive cookies sent without the Secure flag can be intercepted.",
		Recommendation: "Only access these sites over HTTPS and sign out of stale sessions.",
	},
	ActionNone: {
		Severity:       SeverityInfo,
		Title:          "Great privacy hygiene",
		Impact:         "Little or no tracking data was found in this browser.",
		Recommendation: "Keep blocking third-party cookies and review storage periodically.",
	},
}

// GetSeverity returns the severity level for an item type or action.
// Returns SeverityInfo if the type is not in the mapping.
func GetSeverity(findingType string) Severity {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info.Severity
	}
	return SeverityInfo
}

// GetFindingInfo returns the full information for an item type or action.
// Returns a default FindingInfo with SeverityInfo if the type is not in the mapping.
func GetFindingInfo(findingType string) FindingInfo {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info
	}
	return FindingInfo{
		Severity:       SeverityInfo,
		Title:          findingType,
		Impact:         "Unknown finding type. Review manually.",
		Recommendation: "Investigate the finding and assess risk.",
	}
}
