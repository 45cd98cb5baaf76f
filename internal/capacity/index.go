package capacity

// AggregateSense is the sentinel sense code used by checkpoints that report
// a single combined capacity row instead of one row per direction.
const AggregateSense = "0"

// Index is the immutable, exact-match capacity lookup (spec §4.4). It is
// built once by Builder.Build and never mutated afterward, so it requires
// no synchronisation for concurrent reads (spec §5).
type Index struct {
	records map[Key]Record
}

// Lookup returns the capacity record for (checkpointID, senseCode), or
// (Record{}, false) if absent. There is no fallback to the aggregate
// sentinel, no averaging, and no nearest-neighbour substitution: a miss is
// a miss.
func (idx *Index) Lookup(checkpointID, senseCode string) (Record, bool) {
	r, ok := idx.records[Key{CheckpointID: checkpointID, SenseCode: senseCode}]
	return r, ok
}

// IsDirectional reports whether checkpointID has at least one capacity row
// with a sense code other than the aggregate sentinel. Aggregate
// checkpoints report only the combined "0" row. This classification is
// computed once and is fixed for the run (spec §3).
func (idx *Index) IsDirectional(checkpointID string) bool {
	for key := range idx.records {
		if key.CheckpointID == checkpointID && key.SenseCode != AggregateSense {
			return true
		}
	}
	return false
}

// Size returns the number of distinct (checkpoint_id, sense_code) records.
func (idx *Index) Size() int {
	return len(idx.records)
}
