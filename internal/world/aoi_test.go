package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/world"
)

func TestAOIGrid_Nearby_SpansCells(t *testing.T) {
	g := world.NewAOIGrid()
	g.Add(1, geo.Position{X: 15, Y: 15, Z: 7})
	g.Add(2, geo.Position{X: 17, Y: 15, Z: 7})
	g.Add(3, geo.Position{X: 80, Y: 80, Z: 7})
	g.Add(4, geo.Position{X: 16, Y: 16, Z: 6})

	got := g.Nearby(geo.Position{X: 16, Y: 16, Z: 7}, 8, 6, nil)

	assert.ElementsMatch(t, []uint32{1, 2}, got)
}

func TestAOIGrid_MoveAndRemove(t *testing.T) {
	g := world.NewAOIGrid()
	from := geo.Position{X: 10, Y: 10, Z: 7}
	to := geo.Position{X: 100, Y: 100, Z: 7}
	g.Add(1, from)

	g.Move(1, from, to)
	assert.Empty(t, g.Nearby(from, 8, 6, nil))
	assert.Equal(t, []uint32{1}, g.Nearby(to, 8, 6, nil))

	g.Remove(1, to)
	assert.Empty(t, g.Nearby(to, 8, 6, nil))
}
