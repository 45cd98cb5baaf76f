package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Стандартные ключи атрибутов
const (
	// Граф (C1)
	AttrGraphNodes = "graph.nodes"
	AttrGraphEdges = "graph.edges"

	// Прогон конвейера (C7)
	AttrCheckpointID  = "run.checkpoint_id"
	AttrRowsProcessed = "run.rows_processed"
	AttrWorkers       = "run.workers"

	// Маршрутизация и congruence (C2/C3/C5)
	AttrSenseCode       = "routing.sense_code"
	AttrCongruenceClass = "congruence.class"
	AttrCapacityPresent = "capacity.present"
)

// GraphAttributes returns the span attributes describing the road network
// a run was loaded against (spec §4.1, component C1).
func GraphAttributes(nodes, edges int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrGraphNodes, nodes),
		attribute.Int(AttrGraphEdges, edges),
	}
}

// RunAttributes returns the span attributes describing one pipeline run
// (spec §4.7, component C7): the checkpoint it ran against, how many OD
// rows it processed, and the worker pool size.
func RunAttributes(checkpointID string, rows, workers int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrCheckpointID, checkpointID),
		attribute.Int(AttrRowsProcessed, rows),
		attribute.Int(AttrWorkers, workers),
	}
}

// CongruenceAttributes returns the span attributes describing one row's
// congruence verdict (spec §4.3, §4.5): the derived sense code, the
// resulting congruence class, and whether a capacity record was found for
// it.
func CongruenceAttributes(senseCode string, class int, capacityPresent bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrSenseCode, senseCode),
		attribute.Int(AttrCongruenceClass, class),
		attribute.Bool(AttrCapacityPresent, capacityPresent),
	}
}
