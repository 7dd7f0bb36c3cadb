package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizbot/internal/app"
	"quizbot/internal/config"
	"quizbot/internal/infra/jsonfile"
	"quizbot/internal/infra/memory"
	"quizbot/internal/infra/postgres"
	redisinfra "quizbot/internal/infra/redis"
	"quizbot/internal/pollfetch"
	"quizbot/internal/telegram"
	transport "quizbot/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the bot and status server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz bot and status server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token not configured (set telegram.token or TELEGRAM_BOT_TOKEN)")
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "5000"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	questionsFile := cfg.Storage.QuestionsFile
	if questionsFile == "" {
		questionsFile = "data/questions.json"
	}
	usersFile := cfg.Storage.UsersFile
	if usersFile == "" {
		usersFile = "data/users.json"
	}

	var questions app.QuestionStore = jsonfile.NewQuestionStore(questionsFile)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		questions = postgres.NewQuestionStore(pool)
	}
	users := jsonfile.NewUserStore(usersFile)

	poolTTL := config.TTLDuration(cfg.Quiz.PoolTTL, 30*time.Second)
	var source app.QuestionSource
	if redisClient != nil {
		source = redisinfra.NewPoolCache(redisClient, questions, poolTTL)
	} else {
		source = memory.NewPoolCache(questions, poolTTL)
	}

	sessionTTL := config.TTLDuration(cfg.Quiz.SessionTTL, 0)
	var registry app.SessionRegistry
	if redisClient != nil {
		redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
		registry = redisinfra.NewSessionRegistry(redisClient, redisTTL)
	} else {
		registry = memory.NewSessionRegistry()
	}

	engine := app.NewEngine(registry, source, users, sessionTTL)
	authoring := app.NewAuthoring(questions)
	aggregator := app.NewAggregator(questions, users)

	bot, err := telegram.NewBot(cfg.Telegram.Token, engine, authoring, pollfetch.NewClient(nil))
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	transport.NewStatusHandler(aggregator).Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	botCtx, cancelBot := context.WithCancel(ctx)
	defer cancelBot()
	go bot.Start(botCtx)

	go func() {
		log.Printf("starting status server on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down...")
	}
	cancelBot()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
