// Package geo holds map coordinates shared by items, players and tiles.
package geo

import "fmt"

type Position struct {
	X uint16
	Y uint16
	Z uint8
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

func (p Position) IsZero() bool { return p == Position{} }

// Offset returns p moved by dx, dy on the same floor. Coordinates clamp at 0.
func (p Position) Offset(dx, dy int) Position {
	return Position{X: clamp(int(p.X) + dx), Y: clamp(int(p.Y) + dy), Z: p.Z}
}

func clamp(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}

func absDiff(a, b uint16) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// DistX returns the horizontal distance between two positions.
func DistX(a, b Position) int { return absDiff(a.X, b.X) }

// DistY returns the vertical distance between two positions.
func DistY(a, b Position) int { return absDiff(a.Y, b.Y) }

// InRange reports whether b lies within r squares of a on the same floor.
func InRange(a, b Position, r int) bool {
	return a.Z == b.Z && DistX(a, b) <= r && DistY(a, b) <= r
}

// Neighbours returns the eight squares around p.
func (p Position) Neighbours() []Position {
	out := make([]Position, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			out = append(out, p.Offset(dx, dy))
		}
	}
	return out
}
