// Package plugin defines the data shapes the core exchanges with its
// external collaborators: the parsed plugin the binary codec hands in,
// the ordered plugin list from discovery/ordering, and the merged plugin
// handed back for serialization. It holds no interfaces and no codec,
// policy-loader or report-sink implementation. Per spec.md
// section 1, these collaborators themselves (the binary format, the
// command-line front end, configuration loading, discovery/ordering,
// and log/image emission) are out of scope for this module's core; only
// the shapes the core reads and writes are specified here.
package plugin

import "github.com/Faultbox/merged-lands/internal/coords"

// LandTextureRecord is one entry in a plugin's local land-texture table.
type LandTextureRecord struct {
	LocalID          uint32
	Filename         string
	MasterFormID     uint32
	HasMasterFormID  bool
}

// LandscapeRecord is one cell's raw landscape data as read from a
// plugin, already decoded from the on-disk storage convention into the
// shapes internal/landscape understands, but not yet remapped through
// the texture table or diffed against a reference.
type LandscapeRecord struct {
	Coord  coords.Cell
	Height *RawHeight
	Normal *RawGrid3I8
	Color  *RawGrid3U8
	Index  *RawGridU16 // local texture ids, 1-based, 0 = default
	Map    *RawGridU8
}

// RawHeight mirrors the on-disk height storage: row/column-cumulative
// signed byte deltas plus a scalar offset.
type RawHeight struct {
	Deltas [][]int8
	Offset float32
}

// RawGrid3I8, RawGrid3U8, RawGridU16, and RawGridU8 are untyped grid
// payloads for normals, colors, texture indices, and world-map bytes
// respectively, shaped as the codec produced them.
type RawGrid3I8 struct{ Values [][][3]int8 }
type RawGrid3U8 struct{ Values [][][3]uint8 }
type RawGridU16 struct{ Values [][]uint16 }
type RawGridU8 struct{ Values [][]uint8 }

// CellRecord is read for metadata only; the core never merges it, per
// spec.md section 1's scope note on cell records.
type CellRecord struct {
	Coord  coords.Cell
	CellID string
}

// ParsedPlugin is what the codec collaborator hands the core for one
// plugin file.
type ParsedPlugin struct {
	Identifier string // file stem
	Masters    []string
	Textures   []LandTextureRecord
	Landscapes []LandscapeRecord
	Cells      []CellRecord
}

// Role classifies a plugin as a master (feeds the reference builder) or
// a mod (diffed against the reference and folded into the merge).
type Role int

const (
	RoleMaster Role = iota
	RoleMod
)

// OrderedPlugin pairs a parsed plugin with its role and its position in
// load order, as supplied by the orchestrator's collaborator (plugin
// discovery/ordering is out of scope; the core only consumes the result).
type OrderedPlugin struct {
	Plugin *ParsedPlugin
	Role   Role
	Index  int
}

// MergedTexture is one row of the output land-texture table.
type MergedTexture struct {
	Filename        string
	HasMasterFormID bool
	MasterFormID    uint32
	GlobalID        uint32
}

// MergedLandscape is one cell's fully merged, serialization-ready
// landscape record.
type MergedLandscape struct {
	Coord  coords.Cell
	Height *RawHeight
	Normal *RawGrid3I8
	Color  *RawGrid3U8
	Index  *RawGridU16 // global texture ids
	Map    *RawGridU8
}

// MergedPlugin is the single synthesized plugin the core produces, ready
// for the codec collaborator to serialize.
type MergedPlugin struct {
	Textures    []MergedTexture
	Landscapes  []MergedLandscape
	Description string
}
