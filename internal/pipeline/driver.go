package pipeline

import (
	"context"
	"math"
	"runtime"
	"strconv"
	"sync"
	"time"

	"checkflow/internal/capacity"
	"checkflow/internal/congruence"
	"checkflow/internal/network"
	"checkflow/internal/routing"
	"checkflow/internal/vehicle"
	"checkflow/pkg/cache"
	"checkflow/pkg/metrics"
	"checkflow/pkg/telemetry"
)

// ZoneBinding maps a zone identifier to its representative graph node
// (spec §3 "Zone descriptor").
type ZoneBinding map[string]network.NodeID

// Checkpoint binds a checkpoint identifier to its graph node (spec §3
// "Checkpoint descriptor").
type Checkpoint struct {
	ID   string
	Node network.NodeID
}

// Driver owns the graph, capacity index, checkpoint binding, and zone
// bindings for one run, and drives every row through C2 → C3 → C4 → C5 →
// C6 (spec §4.7).
type Driver struct {
	Graph      *network.Graph
	Capacity   *capacity.Index
	Catalogue  routing.Catalogue
	Zones      ZoneBinding
	Checkpoint Checkpoint

	// Workers bounds the worker pool size. Zero or negative selects
	// runtime.NumCPU(); 1 runs single-threaded, which spec §5 requires to
	// produce identical output to any worker count.
	Workers int

	// GeneralQuery selects the no-checkpoint output mode (spec §6): every
	// row's vehicle counts are forced to zero and no routing or capacity
	// work runs.
	GeneralQuery bool

	// Routes memoizes MC/MC2 results across rows that repeat an origin,
	// destination, or checkpoint pairing. Nil disables memoization and
	// every row runs Dijkstra directly.
	Routes *cache.RouteCache

	// Metrics records row-processing, routing, and capacity-lookup counters
	// and histograms. Nil disables metrics collection entirely.
	Metrics *metrics.Metrics
}

// Run drives every row in rows through the pipeline, partitioning the rows
// across the worker pool. Each worker writes only into the rows it is
// assigned (spec §5); there is no ordering guarantee between workers, but
// rows are never reordered since each goroutine mutates its row in place.
//
// If ctx is cancelled before Run completes, Run returns ctx.Err() and the
// caller must discard rows — spec §5: "partial outputs are discarded on
// cancellation; a cancelled run produces no output CSV."
func (d *Driver) Run(ctx context.Context, rows []*Row) error {
	if len(rows) == 0 {
		return nil
	}

	directional := !d.GeneralQuery && d.Capacity.IsDirectional(d.Checkpoint.ID)

	workers := d.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(rows) {
		workers = len(rows)
	}

	ctx, span := telemetry.StartSpan(ctx, "pipeline.run")
	telemetry.SetAttributes(ctx, telemetry.RunAttributes(d.Checkpoint.ID, len(rows), workers)...)
	if d.Graph != nil {
		telemetry.SetAttributes(ctx, telemetry.GraphAttributes(d.Graph.NodeCount(), d.Graph.EdgeCount())...)
	}
	defer span.End()

	tasks := make(chan int, len(rows))
	for i := range rows {
		tasks <- i
	}
	close(tasks)

	var wg sync.WaitGroup
	cancelled := make(chan struct{})
	var cancelOnce sync.Once

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range tasks {
				select {
				case <-ctx.Done():
					cancelOnce.Do(func() { close(cancelled) })
					return
				default:
				}
				d.processRow(ctx, rows[idx], directional)
			}
		}()
	}

	wg.Wait()

	select {
	case <-cancelled:
		return ctx.Err()
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// processRow runs one row through C2 (MC), C3 (MC2 + sense), C4 (capacity
// lookup), C5 (congruence), and C6 (vehicle disaggregation), in that order
// (spec §4.7).
func (d *Driver) processRow(ctx context.Context, row *Row, directional bool) {
	start := time.Now()
	defer func() {
		if d.Metrics != nil {
			d.Metrics.RecordRow(d.Checkpoint.ID, time.Since(start), strconv.Itoa(int(row.CongruenceID)))
		}
	}()

	if d.GeneralQuery {
		row.zeroOut()
		return
	}

	originNode, hasOrigin := d.Zones[row.OriginZone]
	destNode, hasDest := d.Zones[row.DestinationZone]

	if !hasOrigin || !hasDest {
		row.McLengthM = network.NoPath
		row.Mc2LengthM = network.NoPath
		row.SenseCode = routing.SenseInvalid
	} else {
		row.McLengthM = d.shortestPath(ctx, row.OriginZone, row.DestinationZone, originNode, destNode)

		mc2 := d.checkpointRoute(ctx, row.OriginZone, row.DestinationZone, originNode, destNode, directional)
		row.Mc2LengthM = mc2.LengthM
		row.SenseCode = mc2.SenseCode
	}

	rec, ok := d.Capacity.Lookup(d.Checkpoint.ID, row.SenseCode)
	row.HasCapacity = ok
	row.CapacityRecord = rec
	if d.Metrics != nil {
		if ok {
			d.Metrics.RecordCapacityLookup("hit")
		} else {
			d.Metrics.RecordCapacityLookup("miss")
		}
		if row.McLengthM == network.NoPath || row.Mc2LengthM == network.NoPath {
			d.Metrics.RecordNoPath()
		}
	}

	capTotal := math.NaN()
	if ok {
		capTotal = rec.Total()
	}

	class, e1, e2 := congruence.Classify(congruence.Inputs{
		McLengthM:       row.McLengthM,
		Mc2LengthM:      row.Mc2LengthM,
		CheckpointIsDir: directional,
		SenseCode:       row.SenseCode,
		CapacityPresent: ok,
		CapTotal:        capTotal,
		TripsPerson:     row.TripsPerson,
	})
	row.CongruenceID = class
	row.E1, row.E2 = e1, e2

	if class == congruence.ClassImpossible {
		telemetry.AddEvent(ctx, "row.impossible",
			telemetry.CongruenceAttributes(row.SenseCode, int(class), ok)...)
	}

	row.Vehicles = vehicle.Disaggregate(row.TripsPerson, row.IntrazonalFactor == 1, class, rec)
}

// shortestPath runs MC (C2), consulting Routes first when memoization is
// enabled. Zone identifiers, not graph node IDs, are the cache key: two rows
// sharing an origin/destination zone pair always resolve to the same pair of
// graph nodes within one run.
func (d *Driver) shortestPath(ctx context.Context, originZone, destZone string, origin, dest network.NodeID) float64 {
	if d.Routes == nil {
		length, _ := routing.MC(d.Graph, origin, dest)
		return length
	}

	if cached, found, err := d.Routes.GetRoute(ctx, originZone, destZone); err == nil && found {
		if d.Metrics != nil {
			d.Metrics.RecordRouteCacheHit("mc")
		}
		return cached.LengthM
	}

	length, _ := routing.MC(d.Graph, origin, dest)
	if d.Metrics != nil {
		d.Metrics.RecordRouteComputed("mc")
	}
	_ = d.Routes.SetRoute(ctx, originZone, destZone, &cache.CachedRoute{LengthM: length}) //nolint:errcheck // best effort memoization
	return length
}

// checkpointRoute runs MC2 (C3), consulting Routes first when memoization is
// enabled.
func (d *Driver) checkpointRoute(ctx context.Context, originZone, destZone string, origin, dest network.NodeID, directional bool) routing.MC2Result {
	if d.Routes == nil {
		return routing.MC2(d.Graph, origin, d.Checkpoint.Node, dest, d.Checkpoint.ID, directional, d.Catalogue)
	}

	if cached, found, err := d.Routes.GetCheckpointRoute(ctx, originZone, d.Checkpoint.ID, destZone); err == nil && found {
		if d.Metrics != nil {
			d.Metrics.RecordRouteCacheHit("mc2")
		}
		return routing.MC2Result{LengthM: cached.LengthM, SenseCode: cached.SenseCode}
	}

	result := routing.MC2(d.Graph, origin, d.Checkpoint.Node, dest, d.Checkpoint.ID, directional, d.Catalogue)
	if d.Metrics != nil {
		d.Metrics.RecordRouteComputed("mc2")
	}
	_ = d.Routes.SetCheckpointRoute(ctx, originZone, d.Checkpoint.ID, destZone, &cache.CachedRoute{ //nolint:errcheck // best effort memoization
		LengthM:   result.LengthM,
		SenseCode: result.SenseCode,
	})
	return result
}
