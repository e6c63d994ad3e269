package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/orcamath/internal/app"
	"github.com/abhisek/orcamath/internal/config"
	"github.com/abhisek/orcamath/internal/problemgen"
	"github.com/abhisek/orcamath/internal/profile"
	"github.com/abhisek/orcamath/internal/skillgraph"
	"github.com/abhisek/orcamath/internal/store"
	"github.com/abhisek/orcamath/internal/store/redisstore"
)

var (
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "orcamath",
	Short: "Arithmetic fluency practice",
	Long: `orcamath generates arithmetic practice lessons, grades answers and
tracks each learner's progress through a curriculum of skills.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		if p, _ := cmd.Flags().GetString("db"); p != "" {
			cfg.Storage.SQLitePath = p
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}

		logger, err = buildLogger(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $XDG_CONFIG_HOME/orcamath/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ORCAMATH_DB env var)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

func buildLogger(lc config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// backend is a storage implementation holding all three repositories.
type backend interface {
	ProfileRepo() store.ProfileRepo
	ProgressRepo() store.ProgressRepo
	SessionRepo() store.SessionRepo
	Close() error
}

func openBackend(ctx context.Context) (backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		s := cfg.Storage
		return redisstore.Open(ctx, s.RedisAddr, s.RedisPassword, s.RedisDB, s.RedisPrefix)
	default:
		dbPath := cfg.Storage.SQLitePath
		if dbPath == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve DB path: %w", err)
			}
			dbPath = p
		} else if err := store.EnsureDir(dbPath); err != nil {
			return nil, fmt.Errorf("create DB directory: %w", err)
		}
		logger.Debug("Opening store", zap.String("path", dbPath))
		return store.Open(dbPath)
	}
}

// loadGraph returns the configured curriculum.
func loadGraph() (*skillgraph.Graph, error) {
	if cfg.Curriculum.Path == "" {
		return skillgraph.Default(), nil
	}
	g, err := skillgraph.LoadFile(cfg.Curriculum.Path)
	if err != nil {
		return nil, fmt.Errorf("load curriculum: %w", err)
	}
	return g, nil
}

// practiceRand returns the seeded source when a seed is configured.
func practiceRand() problemgen.Rand {
	if cfg.Practice.Seed != 0 {
		return problemgen.NewRand(cfg.Practice.Seed)
	}
	return nil
}

// withService opens the store, builds the app service and runs fn.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *app.Service) error) error {
	ctx := cmd.Context()
	graph, err := loadGraph()
	if err != nil {
		return err
	}
	b, err := openBackend(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer b.Close()

	svc, err := app.New(app.Options{
		Graph:    graph,
		Profiles: b.ProfileRepo(),
		Progress: b.ProgressRepo(),
		Sessions: b.SessionRepo(),
		Rand:     practiceRand(),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	return fn(ctx, svc)
}

// profileIDFlag returns the --profile flag after checking it is a
// well-formed profile ID. An unset flag is returned as "".
func profileIDFlag(cmd *cobra.Command) (string, error) {
	id, _ := cmd.Flags().GetString("profile")
	if id != "" && !profile.ValidID(id) {
		return "", fmt.Errorf("invalid profile ID %q (see: orcamath profile list)", id)
	}
	return id, nil
}
