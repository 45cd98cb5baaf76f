// Package routing implements the MC and MC2 solvers (spec components C2 and
// C3): unconstrained and checkpoint-constrained shortest-path search over
// the road network, and the direction (sense code) derivation at the
// checkpoint node.
//
// Grounded on services/solver-svc/internal/graph/path.go's thin wrapper
// style around the algorithms package; the sense-code derivation itself has
// no teacher analogue and is written fresh against internal/geo.
package routing

import "checkflow/internal/network"

// SenseInvalid is the sense-code sentinel for a row whose direction could
// not be derived or did not validate against the catalogue (spec §3, §4.3).
const SenseInvalid = "INVALID"

// SenseAggregate is the sense-code sentinel forced for aggregate checkpoints
// (spec §4.3.4).
const SenseAggregate = "0"

// MC computes the unconstrained shortest path origin→destination (spec
// §4.2, component C2). It returns network.NoPath if either node is absent
// from the graph or no path exists.
func MC(g *network.Graph, origin, destination network.NodeID) (lengthM float64, path []network.NodeID) {
	return g.ShortestPath(origin, destination)
}
