// Package merge implements the merger: applying per-plugin deltas to the
// merged landmass in load order using per-layer conflict strategies, and
// recording provenance (spec.md section 4.4).
package merge

// Strategy selects how a conflicting write is resolved for one layer of
// one plugin.
type Strategy string

const (
	Auto      Strategy = "Auto"
	Overwrite Strategy = "Overwrite"
	Ignore    Strategy = "Ignore"
	Keep      Strategy = "Keep"
)

// Severity classifies how consequential a conflict's resolution was.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMinor
	SeverityMajor
)

func (s Severity) String() string {
	switch s {
	case SeverityMinor:
		return "Minor"
	case SeverityMajor:
		return "Major"
	default:
		return "None"
	}
}
