package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLine(t *testing.T) *Graph {
	t.Helper()
	g := New()
	g.AddNode(Node{ID: 1})
	g.AddNode(Node{ID: 2})
	g.AddNode(Node{ID: 3})
	g.AddEdge(Edge{From: 1, To: 2, Length: 10})
	g.AddEdge(Edge{From: 2, To: 3, Length: 5})
	g.AddEdge(Edge{From: 1, To: 3, Length: 100})
	return g
}

func TestShortestPath_PrefersCheaperRoute(t *testing.T) {
	g := buildLine(t)
	dist, path := g.ShortestPath(1, 3)
	require.Equal(t, 15.0, dist)
	assert.Equal(t, []NodeID{1, 2, 3}, path)
}

func TestShortestPath_SameNode(t *testing.T) {
	g := buildLine(t)
	dist, path := g.ShortestPath(1, 1)
	assert.Equal(t, 0.0, dist)
	assert.Equal(t, []NodeID{1}, path)
}

func TestShortestPath_Unreachable(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: 1})
	g.AddNode(Node{ID: 2})
	dist, path := g.ShortestPath(1, 2)
	assert.Equal(t, NoPath, dist)
	assert.Nil(t, path)
}

func TestShortestPath_UnknownNode(t *testing.T) {
	g := buildLine(t)
	dist, path := g.ShortestPath(1, 999)
	assert.Equal(t, NoPath, dist)
	assert.Nil(t, path)
}

func TestShortestPath_SelfLoopIgnored(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: 1})
	g.AddNode(Node{ID: 2})
	g.AddEdge(Edge{From: 1, To: 1, Length: 1})
	g.AddEdge(Edge{From: 1, To: 2, Length: 3})
	dist, path := g.ShortestPath(1, 2)
	assert.Equal(t, 3.0, dist)
	assert.Equal(t, []NodeID{1, 2}, path)
}

func TestNeighbourNodesOnPath(t *testing.T) {
	path := []NodeID{10, 20, 30, 40}

	before, hasBefore, after, hasAfter := NeighbourNodesOnPath(path, 30)
	assert.True(t, hasBefore)
	assert.Equal(t, NodeID(20), before)
	assert.True(t, hasAfter)
	assert.Equal(t, NodeID(40), after)

	_, hasBefore, _, hasAfter = NeighbourNodesOnPath(path, 10)
	assert.False(t, hasBefore)
	assert.True(t, hasAfter)

	_, hasBefore, _, hasAfter = NeighbourNodesOnPath(path, 40)
	assert.True(t, hasBefore)
	assert.False(t, hasAfter)

	_, hasBefore, _, hasAfter = NeighbourNodesOnPath(path, 999)
	assert.False(t, hasBefore)
	assert.False(t, hasAfter)
}

func TestNeighbourNodesOnPath_FirstOccurrence(t *testing.T) {
	path := []NodeID{1, 5, 2, 5, 3}
	before, _, after, _ := NeighbourNodesOnPath(path, 5)
	assert.Equal(t, NodeID(1), before)
	assert.Equal(t, NodeID(2), after)
}
