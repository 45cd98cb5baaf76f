package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkflow/internal/capacity"
	"checkflow/internal/congruence"
	"checkflow/internal/geo"
	"checkflow/internal/network"
	"checkflow/internal/routing"
	"checkflow/pkg/cache"
	"checkflow/pkg/metrics"
)

// buildScenarioGraph gives origin, checkpoint, and destination distinct
// node positions so the checkpoint's incident bearings resolve to the
// "4-2" sense code used throughout spec §8's scenarios.
func buildScenarioGraph() *network.Graph {
	g := network.New()
	g.AddNode(network.Node{ID: 1, Point: geo.Point{X: 0, Y: 10}})   // origin (north arm, travelling south)
	g.AddNode(network.Node{ID: 2, Point: geo.Point{X: 0, Y: 0}})    // checkpoint
	g.AddNode(network.Node{ID: 3, Point: geo.Point{X: 10, Y: 0}})   // destination (east arm)

	g.AddEdge(network.Edge{From: 1, To: 2, Length: 12})
	g.AddEdge(network.Edge{From: 2, To: 3, Length: 8})
	g.AddEdge(network.Edge{From: 1, To: 3, Length: 100})
	return g
}

func s1CapacityIndex() *capacity.Index {
	b := capacity.NewBuilder()
	b.Add(capacity.RawRow{
		CheckpointID: "2003",
		SenseCode:    "4-2",
		FA:           1.1,
		Cap:          [6]float64{100, 50, 30, 20, 10, 5},
		Focup:        [6]float64{1.2, 1.4, 1.3, 1.0, 1.0, 1.0},
	})
	return b.Build()
}

func newDriver(idx *capacity.Index) *Driver {
	return &Driver{
		Graph:    buildScenarioGraph(),
		Capacity: idx,
		Zones: ZoneBinding{
			"1002": 1,
			"1001": 3,
		},
		Checkpoint: Checkpoint{ID: "2003", Node: 2},
		Workers:    1,
	}
}

func TestDriver_S1DirectionalFullMatch(t *testing.T) {
	d := newDriver(s1CapacityIndex())
	row := NewRow("1002", "1001", "250", "2003")

	require.NoError(t, d.Run(context.Background(), []*Row{row}))

	assert.Equal(t, "4-2", row.SenseCode)
	assert.True(t, row.HasCapacity)
	assert.InDelta(t, 226.555415, row.Vehicles.Total, 1e-5)
}

func TestDriver_RouteCacheProducesIdenticalResults(t *testing.T) {
	d := newDriver(s1CapacityIndex())
	d.Routes = cache.NewRouteCache(cache.NewMemoryCache(cache.DefaultOptions()), time.Minute)

	rows := []*Row{
		NewRow("1002", "1001", "250", "2003"),
		NewRow("1002", "1001", "400", "2003"), // same OD pair, different trip count
	}

	require.NoError(t, d.Run(context.Background(), rows))

	for _, row := range rows {
		assert.Equal(t, "4-2", row.SenseCode)
		assert.True(t, row.HasCapacity)
	}
	assert.InDelta(t, 226.555415, rows[0].Vehicles.Total, 1e-5)
	assert.InDelta(t, rows[1].Vehicles.Total, rows[0].Vehicles.Total*400.0/250.0, 1e-6)
}

func TestDriver_S2SenseNotInCapacity(t *testing.T) {
	b := capacity.NewBuilder()
	b.Add(capacity.RawRow{
		CheckpointID: "2003",
		SenseCode:    "1-3",
		FA:           1.0,
		Cap:          [6]float64{10, 10, 10, 10, 10, 10},
		Focup:        [6]float64{1, 1, 1, 1, 1, 1},
	})
	d := newDriver(b.Build())
	row := NewRow("1002", "1001", "250", "2003")

	require.NoError(t, d.Run(context.Background(), []*Row{row}))

	assert.Equal(t, congruence.ClassImpossible, row.CongruenceID)
	assert.Equal(t, 0.0, row.Vehicles.Total)
}

func TestDriver_S3Aggregate(t *testing.T) {
	b := capacity.NewBuilder()
	b.Add(capacity.RawRow{
		CheckpointID: "2002",
		SenseCode:    capacity.AggregateSense,
		FA:           1.1,
		Cap:          [6]float64{100, 50, 30, 20, 10, 5},
		Focup:        [6]float64{1.2, 1.4, 1.3, 1.0, 1.0, 1.0},
	})
	d := newDriver(b.Build())
	d.Checkpoint = Checkpoint{ID: "2002", Node: 2}
	row := NewRow("1002", "1001", "250", "2002")

	require.NoError(t, d.Run(context.Background(), []*Row{row}))

	assert.Equal(t, routing.SenseAggregate, row.SenseCode)
	assert.True(t, row.Vehicles.Total > 0)
}

func TestDriver_S4Intrazonal(t *testing.T) {
	d := newDriver(s1CapacityIndex())
	row := NewRow("1001", "1001", "250", "2003")

	require.NoError(t, d.Run(context.Background(), []*Row{row}))

	assert.Equal(t, 1, row.IntrazonalFactor)
	assert.Equal(t, 0.0, row.Vehicles.Total)
}

func TestDriver_S5CensoredCount(t *testing.T) {
	d := newDriver(s1CapacityIndex())
	full := NewRow("1002", "1001", "250", "2003")
	censored := NewRow("1002", "1001", RawTripsLessThan10, "2003")

	require.NoError(t, d.Run(context.Background(), []*Row{full, censored}))

	assert.Equal(t, 1, censored.TripsPerson)
	assert.InDelta(t, full.Vehicles.Total/250, censored.Vehicles.Total, 1e-9)
}

func TestDriver_S6NoMC2(t *testing.T) {
	g := network.New()
	g.AddNode(network.Node{ID: 1})
	g.AddNode(network.Node{ID: 2}) // checkpoint, isolated
	g.AddNode(network.Node{ID: 3})
	g.AddEdge(network.Edge{From: 1, To: 3, Length: 5}) // direct MC exists, bypasses checkpoint

	d := &Driver{
		Graph:      g,
		Capacity:   s1CapacityIndex(),
		Zones:      ZoneBinding{"1002": 1, "1001": 3},
		Checkpoint: Checkpoint{ID: "2003", Node: 2},
		Workers:    1,
	}
	row := NewRow("1002", "1001", "250", "2003")

	require.NoError(t, d.Run(context.Background(), []*Row{row}))

	assert.Equal(t, network.NoPath, row.Mc2LengthM)
	assert.Equal(t, congruence.ClassImpossible, row.CongruenceID)
	assert.Equal(t, 0.0, row.Vehicles.Total)
}

func TestDriver_GeneralQueryZeroesEveryRow(t *testing.T) {
	d := newDriver(s1CapacityIndex())
	d.GeneralQuery = true
	row := NewRow("1002", "1001", "250", "2003")

	require.NoError(t, d.Run(context.Background(), []*Row{row}))

	assert.Equal(t, congruence.ClassImpossible, row.CongruenceID)
	assert.Equal(t, 0.0, row.Vehicles.Total)
}

func TestDriver_UnboundZoneYieldsNoPath(t *testing.T) {
	d := newDriver(s1CapacityIndex())
	row := NewRow("unknown-zone", "1001", "250", "2003")

	require.NoError(t, d.Run(context.Background(), []*Row{row}))

	assert.Equal(t, network.NoPath, row.McLengthM)
	assert.Equal(t, network.NoPath, row.Mc2LengthM)
	assert.Equal(t, congruence.ClassImpossible, row.CongruenceID)
}

func TestDriver_PreservesRowOrderAcrossWorkers(t *testing.T) {
	d := newDriver(s1CapacityIndex())
	d.Workers = 4

	rows := make([]*Row, 0, 20)
	for i := 0; i < 20; i++ {
		rows = append(rows, NewRow("1002", "1001", "250", "2003"))
	}

	require.NoError(t, d.Run(context.Background(), rows))

	for _, row := range rows {
		assert.InDelta(t, 226.555415, row.Vehicles.Total, 1e-5)
	}
}

func TestDriver_CancellationDiscardsOutput(t *testing.T) {
	d := newDriver(s1CapacityIndex())
	d.Workers = 1

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []*Row{NewRow("1002", "1001", "250", "2003")}
	err := d.Run(ctx, rows)
	assert.Error(t, err)
}

func TestDriver_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg

	d := newDriver(s1CapacityIndex())
	d.Metrics = metrics.InitMetrics("test", "driver_metrics")
	d.Routes = cache.NewRouteCache(cache.NewMemoryCache(cache.DefaultOptions()), time.Minute)

	rows := []*Row{
		NewRow("1002", "1001", "250", "2003"),
		NewRow("1002", "1001", "400", "2003"),
	}
	require.NoError(t, d.Run(context.Background(), rows))

	assert.InDelta(t, 2, testutil.ToFloat64(d.Metrics.RowsProcessedTotal.WithLabelValues("2003")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(d.Metrics.RouteCacheHitsTotal.WithLabelValues("mc")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(d.Metrics.RouteComputedTotal.WithLabelValues("mc")), 1e-9)
}

func TestParseTripsPerson(t *testing.T) {
	assert.Equal(t, 1, ParseTripsPerson("<10"))
	assert.Equal(t, 10, ParseTripsPerson("10"))
	assert.Equal(t, 1, ParseTripsPerson("9"))
	assert.Equal(t, 1, ParseTripsPerson(""))
	assert.Equal(t, 250, ParseTripsPerson("250"))
}
