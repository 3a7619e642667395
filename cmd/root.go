package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fwc-ai/hr-agent/internal/ai/gemini"
	"github.com/fwc-ai/hr-agent/internal/interview"
	"github.com/fwc-ai/hr-agent/internal/secrets"
)

const (
	app = "hr-agent"

	defaultDurationMinutes = 10
	defaultSessionTTL      = 60 * time.Minute
)

type Config struct {
	Listen    string           `mapstructure:"listen"`
	AuditFile string           `mapstructure:"audit-file"`
	Interview *InterviewConfig `mapstructure:"interview"`
	Mongo     *MongoConfig     `mapstructure:"mongo"`
	Redis     *RedisConfig     `mapstructure:"redis"`
	AI        *AIConfig        `mapstructure:"ai"`
	SMTP      *SMTPConfig      `mapstructure:"smtp"`
	Screening *ScreeningConfig `mapstructure:"screening"`
}

type InterviewConfig struct {
	DurationMinutes   int `mapstructure:"duration-minutes"`
	SessionTTLMinutes int `mapstructure:"session-ttl-minutes"`
}

type MongoConfig struct {
	URI                  string   `mapstructure:"uri"`
	Database             string   `mapstructure:"database"`
	InterviewsCollection string   `mapstructure:"interviews-collection"`
	CandidatesCollection string   `mapstructure:"candidates-collection"`
	KnowledgeCollections []string `mapstructure:"knowledge-collections"`
}

type RedisConfig struct {
	URL             string `mapstructure:"url"`
	CacheTTLMinutes int    `mapstructure:"cache-ttl-minutes"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	MaxRetries     int    `mapstructure:"max-retries"`
	MaxLogLength   int    `mapstructure:"max-log-length"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type ScreeningConfig struct {
	Cutoff float64 `mapstructure:"cutoff"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hr-agent screens resumes, runs AI interviews and answers HR questions",
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
	if err := viper.BindEnv("mongo.uri", "MONGODB_URI"); err != nil {
		log.Fatalf("binding MONGODB_URI environment variable: %v", err)
	}
	if err := viper.BindEnv("redis.url", "REDIS_URL"); err != nil {
		log.Fatalf("binding REDIS_URL environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hr-agent.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// A .env file is optional, environment variables win either way.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	return config, nil
}

func (c *Config) interviewDuration() time.Duration {
	if c.Interview != nil && c.Interview.DurationMinutes > 0 {
		return time.Duration(c.Interview.DurationMinutes) * time.Minute
	}
	return defaultDurationMinutes * time.Minute
}

func (c *Config) sessionTTL() time.Duration {
	if c.Interview != nil && c.Interview.SessionTTLMinutes > 0 {
		return time.Duration(c.Interview.SessionTTLMinutes) * time.Minute
	}
	return defaultSessionTTL
}

// newGenerator builds the shared Gemini client from the config.
func newGenerator(ctx context.Context, config *Config, logger *zap.Logger) (*gemini.Generator, error) {
	var geminiCfg GeminiConfig
	if config.AI != nil && config.AI.Gemini != nil {
		geminiCfg = *config.AI.Gemini
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: geminiCfg.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", geminiCfg.Model),
		zap.Int("ai_retry_attempts", geminiCfg.MaxRetries),
	)

	return gemini.NewGenerator(ctx, gemini.Config{
		APIKey:         apiKey,
		Model:          geminiCfg.Model,
		EmbeddingModel: geminiCfg.EmbeddingModel,
		MaxRetries:     geminiCfg.MaxRetries,
		MaxLogLength:   geminiCfg.MaxLogLength,
	}, genLogger)
}

// newInterviewService assembles the interview collaborators around one
// generator and persistence sink.
func newInterviewService(generator *gemini.Generator, sink interview.Sink, duration, ttl time.Duration, logger *zap.Logger) *interview.Service {
	return interview.NewService(interview.ServiceDeps{
		Store:     interview.NewStore(ttl),
		Supplier:  interview.NewSupplier(generator, logger),
		Scorer:    interview.NewScorer(generator, logger),
		Evaluator: interview.NewEvaluator(generator, logger),
		Sink:      sink,
		Logger:    logger,
	}, duration)
}
