package seam

import (
	"math"

	"github.com/Faultbox/merged-lands/internal/coords"
	"github.com/Faultbox/merged-lands/internal/landscape"
	"github.com/Faultbox/merged-lands/internal/merge"
)

// recomputeNormals rebuilds every cell's normal field from the fully
// reconciled heightmap, using a central-difference cross product at
// each vertex. This runs globally, after edges and corners are
// reconciled, so a vertex's normal always agrees with its neighbors'
// view of the same height data (spec.md section 4.5).
func recomputeNormals(st *merge.State) {
	n := coords.GridSize
	for coord, cs := range st.Cells {
		if cs.Height == nil {
			continue
		}
		if cs.Normals == nil {
			cs.Normals = landscape.NewNormalField()
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				cs.Normals.Vectors[i][j] = vertexNormal(st, coord, i, j)
			}
		}
	}
}

func vertexNormal(st *merge.State, coord coords.Cell, i, j int) landscape.Vec3I8 {
	hxNeg := heightAt(st, coord, i, j-1)
	hxPos := heightAt(st, coord, i, j+1)
	hyNeg := heightAt(st, coord, i-1, j)
	hyPos := heightAt(st, coord, i+1, j)

	du := hxPos - hxNeg
	dv := hyPos - hyNeg

	x, y, z := -float64(du), -float64(dv), 2.0
	length := math.Sqrt(x*x + y*y + z*z)
	if length == 0 {
		return landscape.Vec3I8{Z: 127}
	}
	x, y, z = x/length, y/length, z/length

	return landscape.Vec3I8{
		X: toInt8Component(x),
		Y: toInt8Component(y),
		Z: toInt8Component(z),
	}
}

func toInt8Component(v float64) int8 {
	scaled := v * 127
	if scaled > 127 {
		return 127
	}
	if scaled < -128 {
		return -128
	}
	return int8(math.Round(scaled))
}

// heightAt reads the absolute height at (i, j) within coord, crossing
// into the appropriate neighbor when the index falls outside the grid.
// It falls back to the nearest in-bounds value when the neighbor cell
// itself is absent from the landmass, so edge cells of the merged
// region still get a well-defined normal.
func heightAt(st *merge.State, coord coords.Cell, i, j int) float32 {
	n := coords.GridSize
	origI, origJ := i, j

	neighbor := coord
	switch {
	case j < 0:
		neighbor, j = coord.West(), n-1
	case j >= n:
		neighbor, j = coord.East(), 0
	}
	switch {
	case i < 0:
		neighbor = shiftSouth(neighbor, coord)
		i = n - 1
	case i >= n:
		neighbor = shiftNorth(neighbor, coord)
		i = 0
	}

	cs := st.Cells[neighbor]
	if cs == nil || cs.Height == nil {
		cs = st.Cells[coord]
		if cs == nil || cs.Height == nil {
			return 0
		}
		i = clamp(origI, 0, n-1)
		j = clamp(origJ, 0, n-1)
		return cs.Height[i][j]
	}
	return cs.Height[i][j]
}

// shiftSouth/shiftNorth apply the Y-axis neighbor shift on top of a
// coordinate that may have already been shifted on the X axis, so a
// diagonal lookup (e.g. i<0 and j>=n at once) still resolves correctly.
func shiftSouth(c, original coords.Cell) coords.Cell {
	if c != original {
		return coords.Cell{X: c.X, Y: c.Y - 1}
	}
	return c.South()
}

func shiftNorth(c, original coords.Cell) coords.Cell {
	if c != original {
		return coords.Cell{X: c.X, Y: c.Y + 1}
	}
	return c.North()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
