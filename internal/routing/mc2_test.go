package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkflow/internal/geo"
	"checkflow/internal/network"
)

// buildCrossGraph builds a checkpoint at the origin with four arms, one per
// cardinal direction, so the incoming/outgoing arm pair determines the
// sense code mechanically.
func buildCrossGraph(t *testing.T) *network.Graph {
	t.Helper()
	g := network.New()
	g.AddNode(network.Node{ID: 1, Point: geo.Point{X: -10, Y: 0}}) // west arm (origin)
	g.AddNode(network.Node{ID: 2, Point: geo.Point{X: 0, Y: 0}})   // checkpoint
	g.AddNode(network.Node{ID: 3, Point: geo.Point{X: 10, Y: 0}})  // east arm (destination)
	g.AddNode(network.Node{ID: 4, Point: geo.Point{X: 0, Y: 10}})  // north arm
	g.AddNode(network.Node{ID: 5, Point: geo.Point{X: 0, Y: -10}}) // south arm

	g.AddEdge(network.Edge{From: 1, To: 2, Length: 10})
	g.AddEdge(network.Edge{From: 2, To: 3, Length: 10})
	g.AddEdge(network.Edge{From: 2, To: 4, Length: 10})
	g.AddEdge(network.Edge{From: 5, To: 2, Length: 10})
	return g
}

func TestMC2_DirectionalSenseCode(t *testing.T) {
	g := buildCrossGraph(t)
	// origin (1, west arm) -> checkpoint (2) -> destination (3, east arm).
	// Inbound bearing from 1->2 points east (E=2); outbound 2->3 points east (E=2).
	res := MC2(g, 1, 2, 3, "cp", true, nil)
	require.Equal(t, "2-2", res.SenseCode)
	assert.InDelta(t, 20.0, res.LengthM, 1e-9)
}

func TestMC2_AggregateCheckpointForcesZero(t *testing.T) {
	g := buildCrossGraph(t)
	res := MC2(g, 1, 2, 3, "cp", false, nil)
	assert.Equal(t, SenseAggregate, res.SenseCode)
	assert.InDelta(t, 20.0, res.LengthM, 1e-9)
}

func TestMC2_NoInboundPathIsInvalid(t *testing.T) {
	g := network.New()
	g.AddNode(network.Node{ID: 1})
	g.AddNode(network.Node{ID: 2})
	g.AddNode(network.Node{ID: 3})
	g.AddEdge(network.Edge{From: 2, To: 3, Length: 5})

	res := MC2(g, 1, 2, 3, "cp", true, nil)
	assert.Equal(t, network.NoPath, res.LengthM)
	assert.Equal(t, SenseInvalid, res.SenseCode)
}

func TestMC2_OriginEqualsCheckpointIsInvalid(t *testing.T) {
	g := buildCrossGraph(t)
	res := MC2(g, 2, 2, 3, "cp", true, nil)
	assert.Equal(t, SenseInvalid, res.SenseCode)
}

func TestMC2_CheckpointEqualsDestinationIsInvalid(t *testing.T) {
	g := buildCrossGraph(t)
	res := MC2(g, 1, 2, 2, "cp", true, nil)
	assert.Equal(t, SenseInvalid, res.SenseCode)
}

func TestMC2_CatalogueRejectsUncataloguedSense(t *testing.T) {
	g := buildCrossGraph(t)
	cat := NewCatalogue()
	cat.Add("cp", "1-3")

	res := MC2(g, 1, 2, 3, "cp", true, cat)
	assert.Equal(t, SenseInvalid, res.SenseCode)
}

func TestMC2_CatalogueAllowsListedSense(t *testing.T) {
	g := buildCrossGraph(t)
	cat := NewCatalogue()
	cat.Add("cp", "2-2")

	res := MC2(g, 1, 2, 3, "cp", true, cat)
	assert.Equal(t, "2-2", res.SenseCode)
}

func TestMC2_CheckpointUnboundFromCatalogueIsUnrestricted(t *testing.T) {
	g := buildCrossGraph(t)
	cat := NewCatalogue()
	cat.Add("other-checkpoint", "1-1")

	res := MC2(g, 1, 2, 3, "cp", true, cat)
	assert.Equal(t, "2-2", res.SenseCode)
}

func TestMC_UnreachableYieldsNoPath(t *testing.T) {
	g := network.New()
	g.AddNode(network.Node{ID: 1})
	g.AddNode(network.Node{ID: 2})
	length, path := MC(g, 1, 2)
	assert.Equal(t, network.NoPath, length)
	assert.Nil(t, path)
}
