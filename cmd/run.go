package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meetsched/meetsched/internal/agent"
	"github.com/meetsched/meetsched/internal/calendar"
	"github.com/meetsched/meetsched/internal/gmail"
	"github.com/meetsched/meetsched/internal/google"
	"github.com/meetsched/meetsched/internal/instrumentation"
	"github.com/meetsched/meetsched/internal/llm"
	"github.com/meetsched/meetsched/internal/logging"
	"github.com/meetsched/meetsched/internal/server"
	"github.com/meetsched/meetsched/internal/store"
)

func newRunCmd() *cobra.Command {
	var (
		accounts      []string
		pollInterval  time.Duration
		maxResults    int64
		timeZone      string
		redisAddr     string
		redisPassword string
		redisDB       int
		metricsAddr   string
		openaiModel   string
		openaiBaseURL string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduling agent for one or more accounts",
		Long: `Start a background agent loop per account. Each loop polls the account's
Gmail inbox, schedules extracted meetings on its Google Calendar, and keeps
its own seen-message and confirmation state in Redis. Accounts must have
been authorized with 'meetsched auth' first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(accounts) == 0 {
				return fmt.Errorf("at least one --account is required")
			}

			zone, err := time.LoadLocation(timeZone)
			if err != nil {
				return fmt.Errorf("invalid timezone %q: %w", timeZone, err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
			slog.SetDefault(logger)

			instCfg := instrumentation.DefaultConfig()
			provider, err := instrumentation.NewProvider(ctx, instCfg)
			if err != nil {
				return fmt.Errorf("failed to initialize instrumentation: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
				defer cancel()
				if err := provider.Shutdown(shutdownCtx); err != nil {
					logger.Warn("instrumentation shutdown failed", logging.Err(err))
				}
			}()

			st := store.NewStore(store.Config{
				Addr:     redisAddr,
				Password: redisPassword,
				DB:       redisDB,
			})
			defer st.Close()
			if err := st.WaitReady(ctx, 30*time.Second); err != nil {
				return fmt.Errorf("redis not available: %w", err)
			}

			completer, err := llm.NewClient(llm.Config{
				APIKey:  viper.GetString("openai_api_key"),
				Model:   openaiModel,
				BaseURL: openaiBaseURL,
			})
			if err != nil {
				return fmt.Errorf("failed to create completion client: %w", err)
			}

			registry := agent.NewRegistry()
			for _, account := range accounts {
				loop, err := buildLoop(ctx, account, loopSettings{
					zone:         zone,
					pollInterval: pollInterval,
					maxResults:   maxResults,
					completer:    completer,
					store:        st,
					logger:       logger,
					metrics:      provider.Metrics(),
				})
				if err != nil {
					// Startup credential failures are fatal for the
					// affected account; no retry is scheduled.
					logger.Error("agent failed to start",
						logging.User(logging.AnonymizeEmail(account)), logging.Err(err))
					continue
				}
				if err := registry.Start(ctx, account, loop); err != nil {
					logger.Error("failed to register agent",
						logging.User(logging.AnonymizeEmail(account)), logging.Err(err))
				}
			}
			if registry.Running() == 0 {
				return fmt.Errorf("no agent could be started")
			}

			var metricsServer *server.MetricsServer
			if provider.Enabled() {
				metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
					Addr:                    metricsAddr,
					InstrumentationProvider: provider,
					Healthcheck:             st.Ping,
				})
				if err != nil {
					return fmt.Errorf("failed to create metrics server: %w", err)
				}
				go func() {
					if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
						logger.Error("metrics server failed", logging.Err(err))
					}
				}()
			}

			logger.Info("meetsched started",
				slog.Int("agents", registry.Running()),
				slog.String("poll_interval", pollInterval.String()))

			<-ctx.Done()
			logger.Info("shutting down")

			registry.StopAll()
			if metricsServer != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
				defer cancel()
				if err := metricsServer.Shutdown(shutdownCtx); err != nil {
					logger.Warn("metrics server shutdown failed", logging.Err(err))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&accounts, "account", nil, "Google account name to run an agent for (repeatable)")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", agent.DefaultPollInterval, "Pause between inbox polls")
	cmd.Flags().Int64Var(&maxResults, "max-results", agent.DefaultMaxResults, "Unread messages examined per cycle")
	cmd.Flags().StringVar(&timeZone, "timezone", "UTC", "IANA time zone for booked events")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "Redis address for durable agent state")
	cmd.Flags().StringVar(&redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Address for the metrics and health server")
	cmd.Flags().StringVar(&openaiModel, "openai-model", llm.DefaultModel, "Chat model used for extraction and negotiation")
	cmd.Flags().StringVar(&openaiBaseURL, "openai-base-url", llm.DefaultBaseURL, "OpenAI-compatible API base URL")

	_ = viper.BindPFlag("redis_addr", cmd.Flags().Lookup("redis-addr"))
	_ = viper.BindPFlag("timezone", cmd.Flags().Lookup("timezone"))
	_ = viper.BindPFlag("openai_model", cmd.Flags().Lookup("openai-model"))

	return cmd
}

type loopSettings struct {
	zone         *time.Location
	pollInterval time.Duration
	maxResults   int64
	completer    agent.Completer
	store        *store.Store
	logger       *slog.Logger
	metrics      *instrumentation.Metrics
}

// buildLoop acquires the account's Google clients and assembles its loop.
// A missing or invalid token surfaces here, before the loop ever starts.
func buildLoop(ctx context.Context, account string, s loopSettings) (*agent.Loop, error) {
	tokens := google.NewFileTokenProvider()
	if !tokens.HasTokenForAccount(account) {
		return nil, fmt.Errorf("no stored token for account %s, run 'meetsched auth --account %s' first", account, account)
	}

	gmailClient, err := gmail.NewClientForAccountWithProvider(ctx, account, tokens)
	if err != nil {
		s.logger.Error("failed to create client",
			logging.Service(instrumentation.ServiceGmail), logging.Err(err))
		return nil, err
	}
	calendarClient, err := calendar.NewClientForAccountWithProvider(ctx, account, tokens)
	if err != nil {
		s.logger.Error("failed to create client",
			logging.Service(instrumentation.ServiceCalendar), logging.Err(err))
		return nil, err
	}

	inbox := agent.NewInstrumentedInbox(agent.NewGmailInbox(gmailClient), s.metrics, s.logger)
	cal := agent.NewInstrumentedCalendar(agent.NewGoogleCalendar(calendarClient, s.zone.String()), s.metrics, s.logger)
	tracker := agent.NewTracker(s.store, account)

	extract := agent.NewInstrumentedCompleter(s.completer, agent.LLMOperationExtract, s.metrics, s.logger)
	alternates := agent.NewInstrumentedCompleter(s.completer, agent.LLMOperationAlternates, s.metrics, s.logger)
	resolve := agent.NewInstrumentedCompleter(s.completer, agent.LLMOperationResolve, s.metrics, s.logger)

	return agent.NewLoop(agent.LoopConfig{
		User:         account,
		PollInterval: s.pollInterval,
		MaxResults:   s.maxResults,
	}, agent.Deps{
		Inbox:     inbox,
		Extractor: agent.NewExtractor(extract),
		Scheduler: agent.NewScheduler(cal, agent.NewNegotiator(alternates, inbox, tracker), s.zone),
		Resolver:  agent.NewResolver(resolve),
		Tracker:   tracker,
		Store:     s.store,
		Activity:  agent.NewActivityLog(s.store, account, s.logger),
		Logger:    s.logger,
		Metrics:   s.metrics,
	})
}
