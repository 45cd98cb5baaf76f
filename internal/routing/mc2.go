package routing

import (
	"fmt"

	"checkflow/internal/geo"
	"checkflow/internal/network"
)

// MC2Result is the outcome of the constrained solve for one OD row.
type MC2Result struct {
	LengthM   float64 // network.NoPath if no constrained path exists
	SenseCode string  // SenseAggregate, SenseInvalid, or "a-b"
}

// MC2 computes the shortest path origin→checkpoint→destination and, for
// directional checkpoints, the sense code derived from the two edges
// incident to the checkpoint node on that path (spec §4.3, component C3).
//
// directional selects whether direction derivation runs at all: aggregate
// checkpoints always receive SenseAggregate and no bearings are computed
// (spec §4.3.4). catalogue may be nil, meaning no checkpoint is
// catalogue-restricted.
func MC2(g *network.Graph, origin, checkpoint, destination network.NodeID, checkpointID string, directional bool, catalogue Catalogue) MC2Result {
	inLen, inPath := g.ShortestPath(origin, checkpoint)
	if inLen == network.NoPath {
		return MC2Result{LengthM: network.NoPath, SenseCode: SenseInvalid}
	}
	outLen, outPath := g.ShortestPath(checkpoint, destination)
	if outLen == network.NoPath {
		return MC2Result{LengthM: network.NoPath, SenseCode: SenseInvalid}
	}

	total := inLen + outLen

	if !directional {
		return MC2Result{LengthM: total, SenseCode: SenseAggregate}
	}

	concatenated := concatenate(inPath, outPath)
	sense := deriveSense(g, concatenated, checkpoint)
	if sense == SenseInvalid {
		return MC2Result{LengthM: total, SenseCode: SenseInvalid}
	}
	if !catalogue.Allows(checkpointID, sense) {
		return MC2Result{LengthM: total, SenseCode: SenseInvalid}
	}
	return MC2Result{LengthM: total, SenseCode: sense}
}

// concatenate joins the origin→checkpoint and checkpoint→destination
// segments into a single path, eliding the checkpoint node's duplicate
// appearance at the join.
func concatenate(inPath, outPath []network.NodeID) []network.NodeID {
	combined := make([]network.NodeID, 0, len(inPath)+len(outPath)-1)
	combined = append(combined, inPath...)
	if len(outPath) > 1 {
		combined = append(combined, outPath[1:]...)
	}
	return combined
}

// deriveSense computes the sense code for checkpoint on path, using the
// fixed quadrant partition in internal/geo (spec §4.3.c). It returns
// SenseInvalid if the checkpoint lacks a node on either side — including
// the origin==checkpoint and checkpoint==destination boundary cases (spec
// §4.3, edge cases) — since concatenate and NeighbourNodesOnPath together
// leave no neighbour on the missing side in those cases.
func deriveSense(g *network.Graph, path []network.NodeID, checkpoint network.NodeID) string {
	before, hasBefore, after, hasAfter := network.NeighbourNodesOnPath(path, checkpoint)
	if !hasBefore || !hasAfter {
		return SenseInvalid
	}

	uNode, ok := g.Node(before)
	if !ok {
		return SenseInvalid
	}
	cpNode, ok := g.Node(checkpoint)
	if !ok {
		return SenseInvalid
	}
	wNode, ok := g.Node(after)
	if !ok {
		return SenseInvalid
	}

	thetaIn := geo.Bearing(uNode.Point, cpNode.Point)
	thetaOut := geo.Bearing(cpNode.Point, wNode.Point)

	cardIn := geo.CardinalOf(thetaIn)
	cardOut := geo.CardinalOf(thetaOut)

	return fmt.Sprintf("%s-%s", cardIn.String(), cardOut.String())
}
