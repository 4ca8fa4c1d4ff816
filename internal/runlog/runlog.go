// Package runlog accumulates the per-kind, per-plugin error and warning
// summary a merge run produces, and renders it for the CLI (spec.md
// section 7). Nothing here retries anything; the pipeline is pure and
// a Log only records what already happened.
package runlog

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Kind is one of the documented error kinds (spec.md section 7).
type Kind string

const (
	MalformedInput     Kind = "malformed_input"
	UnknownMaster      Kind = "unknown_master"
	InvalidDescriptor  Kind = "invalid_patch_descriptor"
	LayerShapeMismatch Kind = "layer_shape_mismatch"
	SeamUnresolvable   Kind = "seam_unresolvable"
	InternalInvariant  Kind = "internal_invariant_violation"
)

// fatalKinds abort the run outright rather than being merely recorded.
var fatalKinds = map[Kind]bool{InternalInvariant: true}

// Entry is one recorded warning or fatal condition.
type Entry struct {
	Kind    Kind
	Plugin  string
	Message string
}

// Log accumulates entries for a single run, identified by RunID.
type Log struct {
	RunID   string
	Entries []Entry
}

// New starts a fresh run log, stamped with a new run ID.
func New() *Log {
	return &Log{RunID: uuid.NewString()}
}

// Warn records a non-fatal entry and returns it for convenience.
func (l *Log) Warn(kind Kind, plugin, format string, args ...interface{}) Entry {
	e := Entry{Kind: kind, Plugin: plugin, Message: fmt.Sprintf(format, args...)}
	l.Entries = append(l.Entries, e)
	return e
}

// Fatal records a fatal entry and returns an error the caller must
// propagate to abort the run; per spec.md section 7 only
// InternalInvariant is fatal, but Fatal accepts any kind so a caller
// can escalate deliberately.
func (l *Log) Fatal(kind Kind, plugin, format string, args ...interface{}) error {
	e := l.Warn(kind, plugin, format, args...)
	return fmt.Errorf("fatal [%s] %s: %s", kind, plugin, e.Message)
}

// IsFatal reports whether kind aborts the run per spec.md section 7.
func IsFatal(kind Kind) bool {
	return fatalKinds[kind]
}

// Counts tallies entries per kind and per plugin.
type Counts struct {
	ByKind   map[Kind]int
	ByPlugin map[string]int
}

// Tally summarizes the log's entries.
func (l *Log) Tally() Counts {
	c := Counts{ByKind: make(map[Kind]int), ByPlugin: make(map[string]int)}
	for _, e := range l.Entries {
		c.ByKind[e.Kind]++
		if e.Plugin != "" {
			c.ByPlugin[e.Plugin]++
		}
	}
	return c
}

// Summary is the final human-readable shape of a run: counts plus
// humanized vertex/cell/byte totals (spec.md section 7, "User-visible
// output is a summary of counts per kind and per-plugin").
type Summary struct {
	RunID       string
	PluginCount int
	CellCount   int
	VertexCount int
	ByteCount   uint64
	Counts      Counts
}

// Render produces the text block printed to the CLI.
func (s Summary) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s: %s plugins, %s cells, %s vertices, %s\n",
		s.RunID,
		humanize.Comma(int64(s.PluginCount)),
		humanize.Comma(int64(s.CellCount)),
		humanize.Comma(int64(s.VertexCount)),
		humanize.Bytes(s.ByteCount),
	)
	if len(s.Counts.ByKind) == 0 {
		b.WriteString("no warnings or errors\n")
		return b.String()
	}
	for kind, n := range s.Counts.ByKind {
		fmt.Fprintf(&b, "  %s: %s\n", kind, humanize.Comma(int64(n)))
	}
	for plugin, n := range s.Counts.ByPlugin {
		fmt.Fprintf(&b, "  %s: %s issue(s)\n", plugin, humanize.Comma(int64(n)))
	}
	return b.String()
}
