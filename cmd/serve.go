package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fwc-ai/hr-agent/internal/ai/gemini"
	"github.com/fwc-ai/hr-agent/internal/audit"
	"github.com/fwc-ai/hr-agent/internal/chatbot"
	"github.com/fwc-ai/hr-agent/internal/docstore"
	"github.com/fwc-ai/hr-agent/internal/httpapi"
	"github.com/fwc-ai/hr-agent/internal/interview"
	"github.com/fwc-ai/hr-agent/internal/logger"
	"github.com/fwc-ai/hr-agent/internal/screening"
)

const defaultListen = ":8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interview, screening and chatbot APIs over HTTP",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address, for example :8080")

	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func serve(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the hr-agent server", zap.String("version", version))

	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	generator, err := newGenerator(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the gemini client", zap.Error(err))
	}

	store := connectDocstore(ctx, config, logger)
	if store != nil {
		defer store.Close(context.Background())
	}

	var sinks []interview.Sink
	if store != nil {
		sinks = append(sinks, docstore.NewInterviewSink(store))
	}
	if config.AuditFile != "" {
		sinks = append(sinks, audit.NewInterviewSink(audit.NewLog(config.AuditFile)))
	}

	service := newInterviewService(
		generator,
		interview.NewMultiSink(logger, sinks...),
		config.interviewDuration(),
		config.sessionTTL(),
		logger,
	)

	sweeper := cron.New()
	if err := service.ScheduleSweeper(sweeper, logger); err != nil {
		logger.Fatal("scheduling the session sweeper", zap.Error(err))
	}
	sweeper.Start()
	defer sweeper.Stop()

	pipeline := screening.NewPipeline(generator, newMailer(config, logger), logger)
	bot := newBot(ctx, generator, store, config, logger)

	var history httpapi.HistoryReader
	if store != nil {
		history = store
	}

	mux := http.NewServeMux()
	httpapi.NewServer(service, pipeline, bot, history, logger).RegisterRoutes(mux)

	listen := config.Listen
	if viper.GetString("listen") != "" {
		listen = viper.GetString("listen")
	}
	if listen == "" {
		listen = defaultListen
	}

	server := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", listen))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

// connectDocstore connects to MongoDB when configured. A missing or failing
// store downgrades persistence instead of refusing to start.
func connectDocstore(ctx context.Context, config *Config, logger *zap.Logger) *docstore.Store {
	if config.Mongo == nil || config.Mongo.URI == "" {
		logger.Warn("mongodb not configured, interview persistence disabled")
		return nil
	}

	store, err := docstore.Connect(ctx, docstore.Config{
		URI:                  config.Mongo.URI,
		Database:             config.Mongo.Database,
		InterviewsCollection: config.Mongo.InterviewsCollection,
		CandidatesCollection: config.Mongo.CandidatesCollection,
	}, logger)
	if err != nil {
		logger.Warn("mongodb unavailable, interview persistence disabled", zap.Error(err))
		return nil
	}

	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Warn("creating indexes failed", zap.Error(err))
	}

	return store
}

// newMailer builds the SMTP notifier when configured, nil otherwise.
func newMailer(config *Config, logger *zap.Logger) screening.Notifier {
	if config.SMTP == nil || config.SMTP.Host == "" {
		return nil
	}

	mailer, err := screening.NewMailer(screening.MailerConfig{
		Host:     config.SMTP.Host,
		Port:     config.SMTP.Port,
		Username: config.SMTP.Username,
		Password: config.SMTP.Password,
		From:     config.SMTP.From,
	}, logger)
	if err != nil {
		logger.Warn("smtp misconfigured, notifications disabled", zap.Error(err))
		return nil
	}
	return mailer
}

// newBot wires the chatbot with its knowledge source and optional cache.
func newBot(ctx context.Context, generator *gemini.Generator, store *docstore.Store, config *Config, logger *zap.Logger) *chatbot.Bot {
	if store == nil {
		return chatbot.New(generator, nil, logger)
	}

	collections := []string{"interviews", "candidates"}
	var cacheTTL time.Duration
	var cache *redis.Client
	if config.Mongo != nil && len(config.Mongo.KnowledgeCollections) > 0 {
		collections = config.Mongo.KnowledgeCollections
	}
	if config.Redis != nil && config.Redis.URL != "" {
		opts, err := redis.ParseURL(config.Redis.URL)
		if err != nil {
			logger.Warn("invalid redis url, knowledge cache disabled", zap.Error(err))
		} else {
			client := redis.NewClient(opts)
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("redis unavailable, knowledge cache disabled", zap.Error(err))
				client.Close()
			} else {
				cache = client
				if config.Redis.CacheTTLMinutes > 0 {
					cacheTTL = time.Duration(config.Redis.CacheTTLMinutes) * time.Minute
				}
			}
		}
	}

	knowledge := chatbot.NewMongoKnowledge(store, collections, cache, cacheTTL, logger)
	return chatbot.New(generator, knowledge, logger)
}
