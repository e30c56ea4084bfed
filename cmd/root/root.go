// Package root contains the root command and the shared wiring every
// subcommand builds on: configuration, logging and dependency constructors.
package root

import (
	"context"
	"fmt"
	"time"

	"fjacquet/finance-assistant/internal/ai"
	"fjacquet/finance-assistant/internal/config"
	"fjacquet/finance-assistant/internal/logging"
	"fjacquet/finance-assistant/internal/models"
	"fjacquet/finance-assistant/internal/store"

	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands.
	Log = logging.GetLogger()

	// Cfg is the loaded configuration, populated before any command runs.
	Cfg *config.Config

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "finance-assistant",
		Short: "A personal finance assistant that understands plain language.",
		Long: `finance-assistant tracks income and expenses from natural-language
messages, watches monthly budgets and answers questions about your spending.
Start a conversation with "finance-assistant chat".`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to finance-assistant!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			Cfg = cfg

			// Flags beat config file and environment.
			if User != "" {
				Cfg.Owner.ID = User
			}
			if DBFile != "" {
				Cfg.Data.DatabaseFile = DBFile
			}

			Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLogging(Cfg))
			return nil
		},
		SilenceUsage: true,
	}

	// Persistent flags shared by all commands.
	User   string
	DBFile string
	Month  int
	Year   int
)

// Init initializes the root command and all persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&User, "user", "u", "", "Owner id for all operations (default from config)")
	Cmd.PersistentFlags().StringVar(&DBFile, "db", "", "Path to the database file (default from config)")
	Cmd.PersistentFlags().IntVarP(&Month, "month", "m", 0, "Month to operate on, 1-12 (default: current)")
	Cmd.PersistentFlags().IntVarP(&Year, "year", "y", 0, "Year to operate on (default: current)")
}

// Period resolves the --month/--year flags against the current date.
func Period() (int, time.Month, error) {
	now := time.Now()
	year, month := Year, Month
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	return year, time.Month(month), nil
}

// OpenStore opens the configured database and ensures the category taxonomy
// is seeded. Callers own the returned store and must Close it.
func OpenStore(ctx context.Context) (*store.Store, error) {
	s, err := store.New(Cfg.Data.DatabaseFile, Log)
	if err != nil {
		return nil, err
	}

	tax := store.DefaultTaxonomy
	if path := Cfg.Data.CategoriesFile; path != "" {
		if tax, err = store.LoadTaxonomyFile(path); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	if err := s.SeedTaxonomy(ctx, tax); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Taxonomy loads the seeded taxonomy from the store, falling back to the
// built-in default when the store holds none.
func Taxonomy(ctx context.Context, s *store.Store) (models.Taxonomy, error) {
	tax, err := s.Taxonomy(ctx)
	if err != nil {
		return models.Taxonomy{}, err
	}
	if len(tax.Income) == 0 && len(tax.Expense) == 0 {
		return store.DefaultTaxonomy, nil
	}
	return tax, nil
}

// NewAIClient builds the completion client from configuration. With no API
// key configured the client is created unavailable rather than failing.
func NewAIClient(ctx context.Context) (*ai.GeminiClient, error) {
	return ai.NewGeminiClient(ctx, Cfg.AI.APIKey, Cfg.AI.Model,
		time.Duration(Cfg.AI.TimeoutSeconds)*time.Second, Log)
}
