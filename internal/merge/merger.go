package merge

import (
	"github.com/Faultbox/merged-lands/internal/coords"
	"github.com/Faultbox/merged-lands/internal/diff"
	"github.com/Faultbox/merged-lands/internal/landscape"
)

// PolicyLookup answers, per (plugin, layer), whether the layer is
// included and which conflict strategy applies (spec.md section 4.7).
// internal/policy.Resolver implements this.
type PolicyLookup interface {
	LayerPolicy(plugin string, layer landscape.LayerName) (included bool, strategy Strategy)
}

// Input pairs one mod plugin's name with its delta, in load order.
type Input struct {
	Plugin string
	Delta  *diff.PluginDelta
}

// Merger applies a sequence of plugin deltas to the merged landmass.
type Merger struct {
	Params ConflictParams
}

// NewMerger returns a Merger with conservative default conflict
// classification parameters.
func NewMerger() *Merger {
	return &Merger{Params: DefaultConflictParams()}
}

// Merge folds every delta in inputs, in order, into a fresh State seeded
// from ref, using policy to select per-(plugin,layer) strategies.
func (m *Merger) Merge(ref *landscape.Landmass, inputs []Input, policy PolicyLookup) *State {
	st := NewState(ref)

	for _, in := range inputs {
		for _, cd := range in.Delta.Cells {
			m.applyCell(st, ref, in.Plugin, cd, policy)
		}
	}

	return st
}

func (m *Merger) applyCell(st *State, ref *landscape.Landmass, pluginName string, cd diff.CellDelta, policy PolicyLookup) {
	cs := st.cell(cd.Coord)
	cp := st.Provenance.cell(cd.Coord)

	if cd.Height != nil {
		if included, strategy := policy.LayerPolicy(pluginName, landscape.LayerHeight); included {
			m.applyHeight(cs, ref, cd.Coord, pluginName, cd.Height, strategy, ensureGrid(&cp.Height, cd.Height.Mask))
		}
	}
	if cd.Colors != nil {
		if included, strategy := policy.LayerPolicy(pluginName, landscape.LayerColors); included {
			m.applyColors(cs, ref, cd.Coord, pluginName, cd.Colors, strategy, ensureGrid(&cp.Colors, cd.Colors.Mask))
		}
	}
	if cd.Indices != nil {
		if included, strategy := policy.LayerPolicy(pluginName, landscape.LayerIndices); included {
			m.applyIndices(cs, cd.Coord, pluginName, cd.Indices, strategy, ensureGrid(&cp.Indices, cd.Indices.Mask))
		}
	}
	if cd.WorldMap != nil {
		if included, _ := policy.LayerPolicy(pluginName, landscape.LayerWorldMap); included {
			m.applyWorldMap(cs, pluginName, cd.WorldMap, ensureGrid(&cp.WorldMap, cd.WorldMap.Mask))
		}
	}
	if cd.Normals != nil {
		// Normals have no direct policy: the merger copies the incoming
		// values (later plugin wins) and records provenance, and seam
		// reconciliation then recomputes the normals of every cell that
		// has a height layer from the reconciled heightmap.
		m.applyNormals(cs, pluginName, cd.Normals, ensureGrid(&cp.Normals, cd.Normals.Mask))
	}

	st.SourcePlugin(cd.Coord, pluginName)
}

// SourcePlugin records the most recent plugin to touch a cell.
func (st *State) SourcePlugin(c coords.Cell, plugin string) {
	st.cell(c).SourcePlugin = plugin
}

func ensureGrid(g *Grid, mask landscape.Mask) Grid {
	if *g == nil {
		*g = NewGrid(len(mask), len(mask[0]))
	}
	return *g
}

func refHeightAt(ref *landscape.Landmass, coord coords.Cell, i, j int) float32 {
	l := ref.Get(coord)
	if l == nil || l.Layers.Height == nil {
		return 0
	}
	return l.Layers.Height.Absolute()[i][j]
}

func refColorAt(ref *landscape.Landmass, coord coords.Cell, i, j int) landscape.RGB {
	l := ref.Get(coord)
	if l == nil || l.Layers.Colors == nil {
		return landscape.RGB{}
	}
	return l.Layers.Colors.Colors[i][j]
}

func (m *Merger) applyHeight(cs *CellState, ref *landscape.Landmass, coord coords.Cell, pluginName string, hd *diff.HeightDelta, strategy Strategy, prov Grid) {
	if cs.Height == nil {
		cs.Height = zeroFloatGrid(len(hd.Mask), len(hd.Mask[0]))
	}

	for i := range hd.Mask {
		for j := range hd.Mask[i] {
			if !hd.Mask[i][j] {
				continue
			}
			current := cs.Height[i][j]
			incoming := hd.Values[i][j]
			prior := prov[i][j]

			if prior.Plugin == "" {
				cs.Height[i][j] = incoming
				prov[i][j] = Entry{Plugin: pluginName, Severity: SeverityNone}
				continue
			}

			switch strategy {
			case Overwrite:
				cs.Height[i][j] = incoming
				prov[i][j] = Entry{Plugin: pluginName, Severity: SeverityMinor}
			case Ignore:
				prov[i][j] = Entry{Plugin: pluginName, Severity: SeverityMinor}
			case Keep:
				// no-op: value and provenance both unchanged.
			default: // Auto
				refVal := refHeightAt(ref, coord, i, j)
				sev := heightSeverity(current, incoming, m.Params)
				if abs32(incoming-refVal) <= abs32(current-refVal) {
					prov[i][j] = Entry{Plugin: prior.Plugin, Severity: sev}
				} else {
					cs.Height[i][j] = incoming
					prov[i][j] = Entry{Plugin: pluginName, Severity: sev}
				}
			}
		}
	}
}

func heightSeverity(current, incoming float32, params ConflictParams) Severity {
	if classifyMagnitude(current, incoming, params) {
		return SeverityMajor
	}
	return SeverityMinor
}

func zeroFloatGrid(rows, cols int) [][]float32 {
	g := make([][]float32, rows)
	for i := range g {
		g[i] = make([]float32, cols)
	}
	return g
}

const colorSmallDeltaMax = 32

func (m *Merger) applyColors(cs *CellState, ref *landscape.Landmass, coord coords.Cell, pluginName string, cd *diff.ColorDelta, strategy Strategy, prov Grid) {
	if cs.Colors == nil {
		cs.Colors = landscape.NewColorField()
	}

	for i := range cd.Mask {
		for j := range cd.Mask[i] {
			if !cd.Mask[i][j] {
				continue
			}
			current := cs.Colors.Colors[i][j]
			incoming := cd.Values[i][j]
			prior := prov[i][j]

			if prior.Plugin == "" {
				cs.Colors.Colors[i][j] = incoming
				prov[i][j] = Entry{Plugin: pluginName, Severity: SeverityNone}
				continue
			}

			switch strategy {
			case Overwrite:
				cs.Colors.Colors[i][j] = incoming
				prov[i][j] = Entry{Plugin: pluginName, Severity: SeverityMinor}
			case Ignore:
				prov[i][j] = Entry{Plugin: pluginName, Severity: SeverityMinor}
			case Keep:
			default: // Auto
				refVal := refColorAt(ref, coord, i, j)
				if colorDeltaSmall(current, refVal) && colorDeltaSmall(incoming, refVal) {
					cs.Colors.Colors[i][j] = averageRGB(current, incoming)
					prov[i][j] = Entry{Plugin: pluginName, Severity: SeverityMinor}
				} else {
					cs.Colors.Colors[i][j] = incoming
					prov[i][j] = Entry{Plugin: pluginName, Severity: SeverityMajor}
				}
			}
		}
	}
}

func colorDeltaSmall(v, ref landscape.RGB) bool {
	return componentDelta(v.R, ref.R) <= colorSmallDeltaMax &&
		componentDelta(v.G, ref.G) <= colorSmallDeltaMax &&
		componentDelta(v.B, ref.B) <= colorSmallDeltaMax
}

func componentDelta(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d
}

func averageRGB(a, b landscape.RGB) landscape.RGB {
	return landscape.RGB{
		R: roundAvg(a.R, b.R),
		G: roundAvg(a.G, b.G),
		B: roundAvg(a.B, b.B),
	}
}

func roundAvg(a, b uint8) uint8 {
	return uint8((int(a) + int(b) + 1) / 2)
}

func (m *Merger) applyIndices(cs *CellState, coord coords.Cell, pluginName string, id *diff.IndexDelta, strategy Strategy, prov Grid) {
	if cs.Indices == nil {
		cs.Indices = landscape.NewIndexField()
	}

	for i := range id.Mask {
		for j := range id.Mask[i] {
			if !id.Mask[i][j] {
				continue
			}
			current := cs.Indices.Indices[i][j]
			incoming := id.Values[i][j]
			prior := prov[i][j]

			if prior.Plugin == "" {
				cs.Indices.Indices[i][j] = incoming
				prov[i][j] = Entry{Plugin: pluginName, Severity: SeverityNone}
				continue
			}

			switch strategy {
			case Overwrite:
				cs.Indices.Indices[i][j] = incoming
				prov[i][j] = Entry{Plugin: pluginName, Severity: SeverityMinor}
			case Ignore:
				prov[i][j] = Entry{Plugin: pluginName, Severity: SeverityMinor}
			case Keep:
			default: // Auto: categorical, no averaging, later plugin always wins.
				sev := SeverityMinor
				if current != incoming {
					sev = SeverityMajor
				}
				cs.Indices.Indices[i][j] = incoming
				prov[i][j] = Entry{Plugin: pluginName, Severity: sev}
			}
		}
	}
}

func (m *Merger) applyWorldMap(cs *CellState, pluginName string, md *diff.MapDelta, prov Grid) {
	if cs.WorldMap == nil {
		cs.WorldMap = landscape.NewMapField()
	}

	for i := range md.Mask {
		for j := range md.Mask[i] {
			if !md.Mask[i][j] {
				continue
			}
			prior := prov[i][j]
			cs.WorldMap.Bytes[i][j] = md.Values[i][j]
			if prior.Plugin == "" {
				prov[i][j] = Entry{Plugin: pluginName, Severity: SeverityNone}
			} else {
				prov[i][j] = Entry{Plugin: pluginName, Severity: SeverityMinor}
			}
		}
	}
}

func (m *Merger) applyNormals(cs *CellState, pluginName string, nd *diff.NormalDelta, prov Grid) {
	if cs.Normals == nil {
		cs.Normals = landscape.NewNormalField()
	}

	for i := range nd.Mask {
		for j := range nd.Mask[i] {
			if !nd.Mask[i][j] {
				continue
			}
			prior := prov[i][j]
			cs.Normals.Vectors[i][j] = nd.Values[i][j]
			if prior.Plugin == "" {
				prov[i][j] = Entry{Plugin: pluginName, Severity: SeverityNone}
			} else {
				prov[i][j] = Entry{Plugin: pluginName, Severity: SeverityMinor}
			}
		}
	}
}
