package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-scorer/internal/shortlist"
	"github.com/spigell/resume-scorer/internal/store"
)

const (
	app = "resume-scorer"
)

type Config struct {
	AI        AIConfig        `mapstructure:"ai"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Store     store.Config    `mapstructure:"store"`
	Shortlist ShortlistConfig `mapstructure:"shortlist"`
}

type AIConfig struct {
	Enabled bool         `mapstructure:"enabled"`
	Gemini  GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey          string        `mapstructure:"api-key"`
	APIKeyFile      string        `mapstructure:"api-key-file"`
	Model           string        `mapstructure:"model"`
	MaxOutputTokens int           `mapstructure:"max-output-tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxRetries      int           `mapstructure:"max-retries"`
	Backoff         time.Duration `mapstructure:"backoff"`
	MaxLogLength    int           `mapstructure:"max-log-length"`
}

type EmbeddingConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ModelsDir string `mapstructure:"models-dir"`
	Model     string `mapstructure:"model"`
	Download  bool   `mapstructure:"download"`
}

type ShortlistConfig struct {
	// Weightings are keyed by job id. Jobs without an entry use the defaults.
	Weightings map[int64]shortlist.Weightings `mapstructure:"weightings"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-scorer matches resumes to job descriptions, scores assessments and ranks candidates",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("store.dsn", "DATABASE_URL"); err != nil {
		log.Fatalf("binding DATABASE_URL environment variable: %v", err)
	}

	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("embedding.enabled", true)
	viper.SetDefault("store.driver", store.DriverFile)
	viper.SetDefault("store.path", "assessments.json")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-scorer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if versionCmd.CalledAs() != "" {
		return
	}

	// A missing .env is fine, a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Every setting has a usable default, so only an explicitly requested or
	// unparsable config file stops us.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
