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

// LoadNetworkNodes reads a node CSV (columns: id, x, y — planar coordinates
// in the single metric projection spec §3 requires, conventionally UTM
// metres) and populates g.
func LoadNetworkNodes(r io.Reader, g *network.Graph) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("ingest: reading node header: %w", err)
	}
	cols, err := indexColumns(header, "id", "x", "y")
	if err != nil {
		return fmt.Errorf("ingest: node file: %w", err)
	}
	idIdx, xIdx, yIdx := cols[0], cols[1], cols[2]

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("ingest: reading node row: %w", err)
		}

		id, err := strconv.ParseInt(strings.TrimSpace(record[idIdx]), 10, 64)
		if err != nil {
			return fmt.Errorf("ingest: parsing node id %q: %w", record[idIdx], err)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(record[xIdx]), 64)
		if err != nil {
			return fmt.Errorf("ingest: parsing node x %q: %w", record[xIdx], err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(record[yIdx]), 64)
		if err != nil {
			return fmt.Errorf("ingest: parsing node y %q: %w", record[yIdx], err)
		}

		g.AddNode(network.Node{ID: network.NodeID(id), Point: geo.Point{X: x, Y: y}})
	}

	return nil
}

// LoadNetworkEdges reads an edge CSV (columns: from, to, length_m) and
// populates g. Edges are directed, matching spec §3's "Edge" contract;
// a bidirectional road segment must appear as two rows.
func LoadNetworkEdges(r io.Reader, g *network.Graph) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("ingest: reading edge header: %w", err)
	}
	cols, err := indexColumns(header, "from", "to", "length_m")
	if err != nil {
		return fmt.Errorf("ingest: edge file: %w", err)
	}
	fromIdx, toIdx, lengthIdx := cols[0], cols[1], cols[2]

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("ingest: reading edge row: %w", err)
		}

		from, err := strconv.ParseInt(strings.TrimSpace(record[fromIdx]), 10, 64)
		if err != nil {
			return fmt.Errorf("ingest: parsing edge from %q: %w", record[fromIdx], err)
		}
		to, err := strconv.ParseInt(strings.TrimSpace(record[toIdx]), 10, 64)
		if err != nil {
			return fmt.Errorf("ingest: parsing edge to %q: %w", record[toIdx], err)
		}
		length, err := strconv.ParseFloat(strings.TrimSpace(record[lengthIdx]), 64)
		if err != nil {
			return fmt.Errorf("ingest: parsing edge length %q: %w", record[lengthIdx], err)
		}

		g.AddEdge(network.Edge{From: network.NodeID(from), To: network.NodeID(to), Length: length})
	}

	return nil
}

// indexColumns resolves the positions of required, case-insensitive column
// names in a CSV header, in the order requested.
func indexColumns(header []string, names ...string) ([]int, error) {
	lookup := make(map[string]int, len(header))
	for i, name := range header {
		lookup[strings.ToLower(strings.TrimSpace(name))] = i
	}

	indices := make([]int, len(names))
	for i, name := range names {
		idx, ok := lookup[name]
		if !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
		indices[i] = idx
	}
	return indices, nil
}
