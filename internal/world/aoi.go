package world

import "github.com/l1jgo/playerd/internal/geo"

// AOIGrid is a cell-based area of interest index over creature ids.
// A 3x3 neighbourhood of cells covers the default client view range.
// Accessed only from the game loop goroutine, no locks.

const cellSize = 16

type cellKey struct {
	z  uint8
	cx int32
	cy int32
}

func toCellCoord(v int) int32 {
	if v < 0 {
		return int32((v - cellSize + 1) / cellSize)
	}
	return int32(v / cellSize)
}

// AOIGrid tracks which creatures are in which cells.
type AOIGrid struct {
	cells map[cellKey]map[uint32]struct{} // cellKey → set of creature ids
}

func NewAOIGrid() *AOIGrid {
	return &AOIGrid{
		cells: make(map[cellKey]map[uint32]struct{}),
	}
}

func (g *AOIGrid) key(pos geo.Position) cellKey {
	return cellKey{z: pos.Z, cx: toCellCoord(int(pos.X)), cy: toCellCoord(int(pos.Y))}
}

// Add places a creature into the grid.
func (g *AOIGrid) Add(id uint32, pos geo.Position) {
	k := g.key(pos)
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[uint32]struct{})
		g.cells[k] = cell
	}
	cell[id] = struct{}{}
}

// Remove takes a creature out of the grid.
func (g *AOIGrid) Remove(id uint32, pos geo.Position) {
	k := g.key(pos)
	cell := g.cells[k]
	if cell != nil {
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, k)
		}
	}
}

// Move updates a creature's cell when its position changes.
func (g *AOIGrid) Move(id uint32, from, to geo.Position) {
	if g.key(from) == g.key(to) {
		return
	}
	g.Remove(id, from)
	g.Add(id, to)
}

// Nearby appends to buf every id in the cells overlapping the rectangle
// of rangeX by rangeY squares around center. Callers filter by exact
// distance.
func (g *AOIGrid) Nearby(center geo.Position, rangeX, rangeY int, buf []uint32) []uint32 {
	buf = buf[:0]
	x0 := toCellCoord(int(center.X) - rangeX)
	x1 := toCellCoord(int(center.X) + rangeX)
	y0 := toCellCoord(int(center.Y) - rangeY)
	y1 := toCellCoord(int(center.Y) + rangeY)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			for id := range g.cells[cellKey{z: center.Z, cx: cx, cy: cy}] {
				buf = append(buf, id)
			}
		}
	}
	return buf
}
