package domain

import "time"

// Level is the Baseline interoperability tier of a web feature.
type Level string

// Baseline levels, ordered from most to least interoperable.
const (
	// LevelWidelyAvailable indicates the feature has a Baseline high date.
	LevelWidelyAvailable Level = "widely"
	// LevelNewlyAvailable indicates the feature has only a Baseline low date.
	LevelNewlyAvailable Level = "newly"
	// LevelLimited indicates partial support across the core browser set.
	LevelLimited Level = "limited"
	// LevelNotBaseline indicates the feature is not interoperable or is discouraged.
	LevelNotBaseline Level = "not-baseline"
)

// DateLayout is the calendar date format used by Baseline status dates.
const DateLayout = "2006-01-02"

// BaselineStatus describes browser support maturity for a feature.
type BaselineStatus struct {
	// BrowserSupport maps browser name to the minimum supporting version.
	BrowserSupport map[string]string `json:"browserSupport,omitempty" msgpack:"browserSupport,omitempty"`
	// HighDate is the date the feature became widely available.
	HighDate *time.Time `json:"highDate,omitempty" msgpack:"highDate,omitempty"`
	// Level is derived from the dates via DeriveLevel.
	Level Level `json:"level" msgpack:"level"`
	// LowDate is the date the feature became newly available.
	LowDate *time.Time `json:"lowDate,omitempty" msgpack:"lowDate,omitempty"`
}

// DeriveLevel computes a Baseline level.
// A high date means widely available, a low date alone means newly available.
// Without dates the explicit flag decides between limited and not-baseline.
func DeriveLevel(low, high *time.Time, limited bool) Level {
	switch {
	case high != nil:
		return LevelWidelyAvailable
	case low != nil:
		return LevelNewlyAvailable
	case limited:
		return LevelLimited
	default:
		return LevelNotBaseline
	}
}

// NewStatus builds a BaselineStatus with its level derived from the dates.
func NewStatus(low, high *time.Time, limited bool, support map[string]string) BaselineStatus {
	return BaselineStatus{
		BrowserSupport: support,
		HighDate:       high,
		Level:          DeriveLevel(low, high, limited),
		LowDate:        low,
	}
}

// Label returns the human-readable name of a level.
func (l Level) Label() string {
	switch l {
	case LevelWidelyAvailable:
		return "Widely Available"
	case LevelNewlyAvailable:
		return "Newly Available"
	case LevelLimited:
		return "Limited Support"
	default:
		return "Not Baseline"
	}
}

// Severity is the editor-facing classification of a match.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)
