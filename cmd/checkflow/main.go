package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"checkflow/internal/capacity"
	"checkflow/internal/ingest"
	"checkflow/internal/network"
	"checkflow/internal/output"
	"checkflow/internal/pipeline"
	"checkflow/internal/routing"
	"checkflow/pkg/apperror"
	"checkflow/pkg/audit"
	"checkflow/pkg/cache"
	"checkflow/pkg/config"
	"checkflow/pkg/database"
	"checkflow/pkg/logger"
	"checkflow/pkg/metrics"
	"checkflow/pkg/report"
	"checkflow/pkg/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (overrides CONFIG_PATH)")
	flag.Parse()

	if *configPath != "" {
		os.Setenv("CONFIG_PATH", *configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	ctx := context.Background()

	if cfg.Tracing.Enabled {
		tp, err := telemetry.Init(ctx, telemetry.Config{
			Enabled:     cfg.Tracing.Enabled,
			Endpoint:    cfg.Tracing.Endpoint,
			ServiceName: cfg.App.Name,
			Version:     cfg.App.Version,
			Environment: cfg.App.Environment,
			SampleRate:  cfg.Tracing.SampleRate,
		})
		if err != nil {
			logger.Warn("failed to init telemetry", "error", err)
		} else {
			defer func() {
				if err := tp.Shutdown(context.Background()); err != nil {
					logger.Warn("failed to shutdown telemetry", "error", err)
				}
			}()
		}
	}

	var runMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		runMetrics = metrics.InitMetrics(cfg.Metrics.Namespace, cfg.App.Name)
		go func() {
			if err := metrics.StartMetricsServer(cfg.Metrics.Port); err != nil {
				logger.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	auditLogger, err := audit.New(&audit.Config{
		Enabled:     cfg.Audit.Enabled,
		Backend:     cfg.Audit.Backend,
		FilePath:    cfg.Audit.FilePath,
		BufferSize:  cfg.Audit.BufferSize,
		FlushPeriod: cfg.Audit.FlushPeriod,
	})
	if err != nil {
		logger.Fatal("failed to init audit logger", "error", err)
	}
	audit.SetGlobal(auditLogger)
	defer auditLogger.Close()

	if err := run(ctx, cfg, runMetrics); err != nil {
		logger.Fatal("run failed", "error", err)
	}
}

// run wires the ingest boundary, the C2-C6 driver, and the output boundary
// for one batch of an OD file against one checkpoint (spec §4.7, §6).
func run(ctx context.Context, cfg *config.Config, runMetrics *metrics.Metrics) error {
	start := time.Now()

	checkpointID := ingest.CheckpointIDFromFilename(cfg.Input.ODPath, cfg.Input.CheckpointIDPrefix)

	odFile, err := os.Open(cfg.Input.ODPath)
	if err != nil {
		return fmt.Errorf("opening OD file: %w", err)
	}
	defer odFile.Close()

	rows, err := ingest.ReadOD(odFile, checkpointID)
	if err != nil {
		return fmt.Errorf("reading OD file: %w", err)
	}
	logAudit(ctx, audit.ActionIngest, "od", cfg.Input.ODPath, nil)

	driver := &pipeline.Driver{
		GeneralQuery: cfg.Input.GeneralQuery,
		Workers:      cfg.Pipeline.Workers,
		Metrics:      runMetrics,
	}

	if !cfg.Input.GeneralQuery {
		graph, zones, checkpointNode, catalogue, err := loadNetwork(ctx, cfg)
		if err != nil {
			return err
		}
		capIndex, err := loadCapacity(ctx, cfg)
		if err != nil {
			return err
		}

		driver.Graph = graph
		driver.Zones = zones
		driver.Checkpoint = pipeline.Checkpoint{ID: checkpointID, Node: checkpointNode}
		driver.Catalogue = catalogue
		driver.Capacity = capIndex

		if cfg.Cache.Enabled {
			backend, err := cache.New(cache.FromConfig(&cfg.Cache))
			if err != nil {
				return fmt.Errorf("building route cache: %w", err)
			}
			driver.Routes = cache.NewRouteCache(backend, cfg.Cache.DefaultTTL)
		}
	}

	if err := driver.Run(ctx, rows); err != nil {
		return fmt.Errorf("running pipeline: %w", err)
	}
	logAudit(ctx, audit.ActionRoute, "checkpoint", checkpointID, map[string]any{"rows": len(rows)})
	logAudit(ctx, audit.ActionClassify, "checkpoint", checkpointID, map[string]any{"classes": congruenceHistogram(rows)})

	if err := writeOutput(ctx, cfg, checkpointID, rows); err != nil {
		return err
	}

	logger.Info("run complete",
		"checkpoint", checkpointID,
		"rows", len(rows),
		"duration", time.Since(start),
	)
	return nil
}

// loadNetwork builds the road graph and binds zone/checkpoint centroids to
// their nearest graph node (spec §3, §6). cfg.Input.NetworkPath is a
// directory containing nodes.csv and edges.csv.
func loadNetwork(ctx context.Context, cfg *config.Config) (*network.Graph, pipeline.ZoneBinding, network.NodeID, routing.Catalogue, error) {
	_, span := telemetry.StartSpan(ctx, "ingest.load_network")
	defer span.End()

	graph := network.New()

	nodesFile, err := os.Open(filepath.Join(cfg.Input.NetworkPath, "nodes.csv"))
	if err != nil {
		return nil, nil, 0, nil, fmt.Errorf("opening network nodes file: %w", err)
	}
	defer nodesFile.Close()
	if err := ingest.LoadNetworkNodes(nodesFile, graph); err != nil {
		return nil, nil, 0, nil, err
	}

	edgesFile, err := os.Open(filepath.Join(cfg.Input.NetworkPath, "edges.csv"))
	if err != nil {
		return nil, nil, 0, nil, fmt.Errorf("opening network edges file: %w", err)
	}
	defer edgesFile.Close()
	if err := ingest.LoadNetworkEdges(edgesFile, graph); err != nil {
		return nil, nil, 0, nil, err
	}

	zonesFile, err := os.Open(cfg.Input.ZonesPath)
	if err != nil {
		return nil, nil, 0, nil, fmt.Errorf("opening zones file: %w", err)
	}
	defer zonesFile.Close()
	zoneCentroids, err := ingest.BindCentroids(zonesFile, graph)
	if err != nil {
		return nil, nil, 0, nil, err
	}

	checkpointsFile, err := os.Open(cfg.Input.CheckpointsPath)
	if err != nil {
		return nil, nil, 0, nil, fmt.Errorf("opening checkpoints file: %w", err)
	}
	defer checkpointsFile.Close()
	checkpointCentroids, err := ingest.BindCentroids(checkpointsFile, graph)
	if err != nil {
		return nil, nil, 0, nil, err
	}

	checkpointID := ingest.CheckpointIDFromFilename(cfg.Input.ODPath, cfg.Input.CheckpointIDPrefix)
	checkpointNode, ok := checkpointCentroids[checkpointID]
	if !ok {
		return nil, nil, 0, nil, apperror.New(apperror.CodeZoneUnbound, "checkpoint has no bound node").
			WithField("checkpoint_id").WithDetails("checkpoint_id", checkpointID)
	}

	catalogue := routing.NewCatalogue()
	if cfg.Input.CataloguePath != "" {
		catalogueFile, err := os.Open(cfg.Input.CataloguePath)
		if err != nil {
			return nil, nil, 0, nil, fmt.Errorf("opening catalogue file: %w", err)
		}
		defer catalogueFile.Close()
		catalogue, err = ingest.ReadCatalogue(catalogueFile)
		if err != nil {
			return nil, nil, 0, nil, err
		}
	}

	return graph, pipeline.ZoneBinding(zoneCentroids), checkpointNode, catalogue, nil
}

// loadCapacity loads the capacity index from the configured CSV file or, as
// a supplemented alternative, from Postgres (spec §6's capacity table; the
// database-backed loader is not part of the original CSV-only contract).
func loadCapacity(ctx context.Context, cfg *config.Config) (*capacity.Index, error) {
	if cfg.Input.CapacityFromDB {
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting to capacity database: %w", err)
		}
		defer db.Close()
		repo := ingest.NewPostgresCapacityRepository(db)
		return repo.LoadIndex(ctx)
	}

	capFile, err := os.Open(cfg.Input.CapacityPath)
	if err != nil {
		return nil, fmt.Errorf("opening capacity file: %w", err)
	}
	defer capFile.Close()

	builder := capacity.NewBuilder()
	if err := ingest.ReadCapacityTable(capFile, builder); err != nil {
		return nil, err
	}
	return builder.Build(), nil
}

// writeOutput writes the mandatory output CSV and, when enabled, the
// supplemented XLSX/PDF summary report (spec §6's output boundary plus
// SPEC_FULL.md's reporting addition).
func writeOutput(ctx context.Context, cfg *config.Config, checkpointID string, rows []*pipeline.Row) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Output.CSVPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	csvFile, err := os.Create(cfg.Output.CSVPath)
	if err != nil {
		return fmt.Errorf("creating output CSV: %w", err)
	}
	defer csvFile.Close()
	if err := output.WriteRows(csvFile, rows); err != nil {
		return err
	}
	logAudit(ctx, audit.ActionExport, "csv", cfg.Output.CSVPath, nil)

	if !cfg.Report.Enabled {
		return nil
	}

	summary := report.Summarize(checkpointID, rows)

	if cfg.Report.XLSXPath != "" {
		data, err := report.GenerateExcel(rows, summary)
		if err != nil {
			return fmt.Errorf("generating XLSX report: %w", err)
		}
		if err := os.WriteFile(cfg.Report.XLSXPath, data, 0o644); err != nil {
			return fmt.Errorf("writing XLSX report: %w", err)
		}
		logAudit(ctx, audit.ActionExport, "xlsx", cfg.Report.XLSXPath, nil)
	}

	if cfg.Report.PDFPath != "" {
		data, err := report.GeneratePDF(summary)
		if err != nil {
			return fmt.Errorf("generating PDF report: %w", err)
		}
		if err := os.WriteFile(cfg.Report.PDFPath, data, 0o644); err != nil {
			return fmt.Errorf("writing PDF report: %w", err)
		}
		logAudit(ctx, audit.ActionExport, "pdf", cfg.Report.PDFPath, nil)
	}

	return nil
}

// congruenceHistogram counts rows per congruence class for the audit entry
// logged at the classification boundary (spec §4.5, component C5).
func congruenceHistogram(rows []*pipeline.Row) map[string]int {
	counts := make(map[string]int, 4)
	for _, row := range rows {
		counts[strconv.Itoa(int(row.CongruenceID))]++
	}
	return counts
}

func logAudit(ctx context.Context, action audit.Action, resource, resourceID string, meta map[string]any) {
	b := audit.NewEntry().
		Service("checkflow").
		Action(action).
		Outcome(audit.OutcomeSuccess).
		Resource(resource, resourceID)
	for k, v := range meta {
		b = b.Meta(k, v)
	}
	if err := audit.Log(ctx, b.Build()); err != nil {
		logger.Warn("failed to write audit entry", "error", err)
	}
}
