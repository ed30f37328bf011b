package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pgingest [config.toml]",
	Short: "Control-table driven MySQL/SQLite to PostgreSQL table ingestion",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIngestion,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to optional TOML config file (overrides environment)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runIngestion(cmd *cobra.Command, args []string) error {
	// Resolve config path: positional arg takes precedence over --config flag
	cfgPath := configPath
	if len(args) > 0 {
		cfgPath = args[0]
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	start := time.Now()

	log.Printf("pgingest — %s → PostgreSQL ingestion", cfg.SourceType)
	log.Printf(
		"config: load_mode=%s batch_size=%d schema=%s use_target_schema=%t control_table=%s",
		cfg.LoadMode, cfg.BatchSize, cfg.TargetSchema, cfg.UseTargetSchema, cfg.MetadataTable,
	)

	src, err := newSourceDB(cfg.SourceType)
	if err != nil {
		return err
	}

	log.Printf("connecting to %s...", src.Name())
	srcDB, err := src.Open(cfg)
	if err != nil {
		return err
	}
	defer srcDB.Close()
	if err := srcDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", src.Name(), err)
	}

	log.Printf("connecting to PostgreSQL...")
	pgPool, err := pgxpool.New(ctx, cfg.TargetDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pgPool.Close()
	if err := pgPool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}

	specs, err := loadIngestionSpecs(srcDB, src, cfg.MetadataTable)
	if err != nil {
		return fmt.Errorf("load ingestion specs: %w", err)
	}
	if len(specs) == 0 {
		log.Printf("no active ingestion specs in %s", cfg.MetadataTable)
		return nil
	}
	log.Printf("found %d active ingestion spec(s)", len(specs))

	// One spec fully processed before the next begins; both connections are
	// reused sequentially across specs.
	for _, spec := range specs {
		if spec.SourceType != "table" || spec.TargetType != "table" {
			log.Printf("[skip] %s: only table→table is supported (source_type=%q target_type=%q)",
				spec.Name, spec.SourceType, spec.TargetType)
			continue
		}
		if err := runSpec(ctx, cfg, src, srcDB, pgPool, spec); err != nil {
			return fmt.Errorf("ingestion %s: %w", spec.Name, err)
		}
	}

	log.Printf("run completed in %s", time.Since(start).Round(time.Millisecond))
	return nil
}

// runSpec copies one source table into its target: introspect, materialize
// the target table, apply the load mode, then stream the rows in batches.
func runSpec(ctx context.Context, cfg *Config, src SourceDB, srcDB *sql.DB, pgPool *pgxpool.Pool, spec IngestionSpec) error {
	targetSchema := cfg.TargetSchema
	if cfg.UseTargetSchema {
		targetSchema = spec.Target.Database
	}

	log.Printf("[spec] %s: %s.%s → %s.%s",
		spec.Name, spec.Source.Database, spec.Source.Table, targetSchema, spec.Target.Table)

	cols, err := src.Columns(srcDB, spec.Source.Database, spec.Source.Table)
	if err != nil {
		return fmt.Errorf("introspect columns: %w", err)
	}
	pk, err := src.PrimaryKey(srcDB, spec.Source.Database, spec.Source.Table)
	if err != nil {
		return fmt.Errorf("introspect primary key: %w", err)
	}

	target, err := ensureTable(ctx, pgPool, targetSchema, spec.Target.Table, cols, pk)
	if err != nil {
		return err
	}

	if err := prepareForLoad(ctx, pgPool, target, cfg.LoadMode); err != nil {
		return err
	}

	total, err := loadTable(ctx, srcDB, src, pgPool, spec.Source, target, cfg.BatchSize)
	if err != nil {
		return err
	}
	log.Printf("[done] %s: %d rows loaded", spec.Name, total)
	return nil
}
