package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"example.com/ecosangam/internal/advisor"
	"example.com/ecosangam/internal/domain"
	"example.com/ecosangam/internal/emissions"
	"example.com/ecosangam/internal/observability"
	"example.com/ecosangam/internal/persistence/sqlite"
)

// app carries the state shared by ecoctl subcommands.
type app struct {
	v      *viper.Viper
	out    io.Writer
	logger zerolog.Logger

	repo      *sqlite.Repository
	service   *domain.Service
	estimator *emissions.Estimator
}

func newApp() *app {
	return &app{v: viper.New(), out: os.Stdout, logger: zerolog.Nop()}
}

func (a *app) rootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "ecoctl",
		Short: "🌱 EcoSangam carbon footprint and eco goal tracker",
		Long: `ecoctl estimates household and travel emissions, keeps a running footprint
and tracks time-boxed sustainability goals in a local database.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.out = cmd.OutOrStdout()
			return a.initConfig(cfgFile)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/ecosangam/ecoctl.yaml)")
	flags.String("db", defaultDBPath(), "path of the local database")
	flags.StringP("output", "o", "text", "output format (text, json, yaml)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("user", "local", "user id goals and estimates are stored under")
	flags.String("name", "", "display name used on completion certificates")
	flags.String("email", "", "email address used on completion certificates")
	for _, name := range []string{"db", "output", "log-level", "user", "name", "email"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		a.calcCmd(),
		a.footprintCmd(),
		a.goalsCmd(),
		a.goalTypesCmd(),
		a.tipCmd(),
		a.eventsCmd(),
		versionCmd(),
	)
	return root
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ecoctl.db"
	}
	return filepath.Join(home, ".config", "ecosangam", "ecoctl.db")
}

func (a *app) initConfig(cfgFile string) error {
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "ecosangam"))
		}
		a.v.SetConfigName("ecoctl")
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix("ECOCTL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindEnv("gemini-api-key", "GEMINI_API_KEY")
	_ = a.v.BindEnv("gemini-model", "GEMINI_MODEL")
	_ = a.v.BindEnv("electricity-factor", "ELECTRICITY_FACTOR")

	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	switch format := a.v.GetString("output"); format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("invalid output format: %s", format)
	}

	a.logger = observability.NewLogger(a.v.GetString("log-level"), "console")
	a.estimator = emissions.NewEstimator(emissions.WithElectricityFactor(a.v.GetFloat64("electricity-factor")))
	return nil
}

// open lazily opens the local database.
func (a *app) open(ctx context.Context) (*domain.Service, error) {
	if a.service != nil {
		return a.service, nil
	}
	repo, err := sqlite.Open(ctx, a.v.GetString("db"), a.logger)
	if err != nil {
		return nil, err
	}
	a.repo = repo
	a.service = domain.NewService(repo, repo)
	return a.service, nil
}

// close releases the database, if a command opened it.
func (a *app) close() error {
	if a.repo == nil {
		return nil
	}
	err := a.repo.Close()
	a.repo, a.service = nil, nil
	return err
}

func (a *app) user() domain.User {
	return domain.User{
		ID:    a.v.GetString("user"),
		Name:  a.v.GetString("name"),
		Email: a.v.GetString("email"),
	}
}

// advisor returns a Gemini backed advisor, or one that always reports
// advisor.ErrUnavailable when no API key is configured.
func (a *app) advisor() *advisor.Advisor {
	key := a.v.GetString("gemini-api-key")
	if key == "" {
		return advisor.New(nil, advisor.WithLogger(a.logger))
	}
	client, err := advisor.NewGeminiClient(advisor.GeminiConfig{APIKey: key, Model: a.v.GetString("gemini-model")})
	if err != nil {
		a.logger.Warn().Err(err).Msg("gemini client unavailable")
		return advisor.New(nil, advisor.WithLogger(a.logger))
	}
	return advisor.New(client, advisor.WithLogger(a.logger))
}

// render writes v in the selected output format; text output uses the text callback.
func (a *app) render(v any, text func() string) error {
	switch a.v.GetString("output") {
	case "json":
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(a.out, text())
		return err
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ecoctl %s\n", version)
		},
	}
}
