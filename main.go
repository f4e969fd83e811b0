package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aktagon/asset-seeder/internal/objstore"
)

var (
	settingsPath string
	seedsPath    string
	outputDir    string
	databaseURL  string
	dryRun       bool
	debugMode    bool
	debugEnabled bool
)

var rootCmd = &cobra.Command{
	Use:   "asset-seeder",
	Short: "Re-host seed assets in object storage and generate SQL inserts",
	Long: `Uploads the images, videos and documents referenced by the site's seed lists
to the R2 bucket, then writes one INSERT statement per content type
(<content-type>-insert.sql) for manual execution against the database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; real environment variables win
		_ = godotenv.Load()
		SetDebugMode(debugMode)
	},
}

var allCmd = &cobra.Command{
	Use:   "all [content-type...]",
	Short: "Seed every content type in order, or only the ones named",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedsPath != "" {
			return fmt.Errorf("--seeds applies to a single content type")
		}

		selected := contentTypes
		if len(args) > 0 {
			selected = make([]*ContentType, 0, len(args))
			for _, name := range args {
				ct, err := LookupContentType(name)
				if err != nil {
					return err
				}
				selected = append(selected, ct)
			}
		}

		processor, err := newProcessor(cmd.Context())
		if err != nil {
			return err
		}

		var errs *multierror.Error
		for _, ct := range selected {
			if cmd.Context().Err() != nil {
				break
			}
			if _, err := processor.Run(cmd.Context(), ct); err != nil {
				log.Printf("✗ %s: %v", ct.Name, err)
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", ct.Name, err))
			}
		}
		return errs.ErrorOrNil()
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <file.sql>",
	Short: "Execute a generated insert file against DATABASE_URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if databaseURL == "" {
			databaseURL = os.Getenv("DATABASE_URL")
		}
		if databaseURL == "" {
			return fmt.Errorf("database URL required: use --database-url flag or DATABASE_URL environment variable")
		}

		rows, err := ApplySQLFile(cmd.Context(), databaseURL, args[0])
		if err != nil {
			return err
		}
		log.Printf("✓ Applied %s (%d rows)", args[0], rows)
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, created, err := ensureConfigExists(defaultConfigDir)
		if err != nil {
			return err
		}
		if created {
			log.Printf("✓ Created %s", path)
		} else {
			log.Printf("%s already exists", path)
		}
		return nil
	},
}

func newContentTypeCmd(ct *ContentType) *cobra.Command {
	return &cobra.Command{
		Use:   ct.Name,
		Short: fmt.Sprintf("Seed the %s table (writes %s)", ct.Table, ct.OutputFileName()),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			processor, err := newProcessor(cmd.Context())
			if err != nil {
				return err
			}
			_, err = processor.Run(cmd.Context(), ct)
			return err
		},
	}
}

// newProcessor builds the pipeline from flags and environment. Configuration
// errors surface here, before any record is touched.
func newProcessor(ctx context.Context) (*SeedProcessor, error) {
	overrides := &ConfigOverrides{DryRun: dryRun}
	if settingsPath != "" {
		overrides.SettingsPath = &settingsPath
	}
	if seedsPath != "" {
		overrides.SeedsPath = &seedsPath
	}
	if outputDir != "" {
		overrides.OutputDir = &outputDir
	}

	config, err := NewConfig(overrides)
	if err != nil {
		return nil, err
	}

	var store objstore.ObjectStore
	if dryRun {
		store = objstore.NewMemoryStore()
	} else {
		store, err = objstore.NewS3StoreFromConfig(ctx, config.Storage)
		if err != nil {
			return nil, fmt.Errorf("creating storage client: %w", err)
		}
	}

	return NewSeedProcessor(config, store), nil
}

// SetDebugMode enables or disables debug logging
func SetDebugMode(enabled bool) {
	debugEnabled = enabled
}

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("[DEBUG] "+format, args...)
	}
}

func init() {
	for _, ct := range contentTypes {
		rootCmd.AddCommand(newContentTypeCmd(ct))
	}
	rootCmd.AddCommand(allCmd, applyCmd, initCmd)

	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to a settings file (default .asset-seeder/settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&seedsPath, "seeds", "", "Path to a seed list replacing the embedded one")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "Directory for generated .sql files")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Download assets but keep uploads in memory and write no file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	applyCmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres connection string")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
