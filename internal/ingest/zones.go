package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"checkflow/internal/geo"
	"checkflow/internal/network"
)

// BindCentroids reads a polygon-vertex CSV (columns: id, x, y, one row per
// vertex, vertices for the same id listed consecutively in ring order) and
// returns each id bound to the graph node nearest its polygon's centroid
// (spec §6 "Zone polygon file"). The same loader serves both zone polygons
// and checkpoint polygons; only the column id's meaning differs.
func BindCentroids(r io.Reader, g *network.Graph) (map[string]network.NodeID, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ingest: reading polygon header: %w", err)
	}
	cols, err := indexColumns(header, "id", "x", "y")
	if err != nil {
		return nil, fmt.Errorf("ingest: polygon file: %w", err)
	}
	idIdx, xIdx, yIdx := cols[0], cols[1], cols[2]

	vertices := make(map[string][]geo.Point)
	var order []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: reading polygon row: %w", err)
		}

		id := strings.TrimSpace(record[idIdx])
		x, err := strconv.ParseFloat(strings.TrimSpace(record[xIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("ingest: parsing polygon x %q: %w", record[xIdx], err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(record[yIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("ingest: parsing polygon y %q: %w", record[yIdx], err)
		}

		if _, seen := vertices[id]; !seen {
			order = append(order, id)
		}
		vertices[id] = append(vertices[id], geo.Point{X: x, Y: y})
	}

	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil, fmt.Errorf("ingest: cannot bind polygon centroids: graph has no nodes")
	}

	bindings := make(map[string]network.NodeID, len(order))
	for _, id := range order {
		centroid := geo.Centroid(vertices[id])
		bindings[id] = nearestNode(centroid, nodes)
	}

	return bindings, nil
}

// nearestNode returns the id of the node in nodes closest to p by planar
// distance. nodes must be non-empty.
func nearestNode(p geo.Point, nodes []network.Node) network.NodeID {
	best := nodes[0]
	bestDist := geo.Distance(p, best.Point)
	for _, n := range nodes[1:] {
		d := geo.Distance(p, n.Point)
		if d < bestDist || (d == bestDist && n.ID < best.ID) {
			best = n
			bestDist = d
		}
	}
	return best.ID
}
