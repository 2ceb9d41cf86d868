package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meetsched/meetsched/internal/agent"
	"github.com/meetsched/meetsched/internal/instrumentation"
	"github.com/meetsched/meetsched/internal/llm"
	"github.com/meetsched/meetsched/internal/store"
)

func newOnceCmd() *cobra.Command {
	var (
		account       string
		maxResults    int64
		timeZone      string
		redisAddr     string
		redisPassword string
		redisDB       int
		openaiModel   string
		openaiBaseURL string
	)

	cmd := &cobra.Command{
		Use:   "once",
		Short: "Run a single agent cycle for one account and exit",
		Long: `Perform one poll-process-resolve pass for the given account: examine
unread messages, schedule or negotiate extracted meetings, resolve any
pending confirmation replies, then exit. Useful for cron-style setups and
for trying the agent out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			zone, err := time.LoadLocation(timeZone)
			if err != nil {
				return fmt.Errorf("invalid timezone %q: %w", timeZone, err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			st := store.NewStore(store.Config{
				Addr:     redisAddr,
				Password: redisPassword,
				DB:       redisDB,
			})
			defer st.Close()
			if err := st.Ping(ctx); err != nil {
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

			loop, err := buildLoop(ctx, account, loopSettings{
				zone:       zone,
				maxResults: maxResults,
				completer:  completer,
				store:      st,
				logger:     logger,
				metrics:    instrumentation.NewNoopMetrics(),
			})
			if err != nil {
				return fmt.Errorf("failed to build agent for account %s: %w", account, err)
			}

			return loop.RunOnce(ctx)
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")
	cmd.Flags().Int64Var(&maxResults, "max-results", agent.DefaultMaxResults, "Unread messages examined in the cycle")
	cmd.Flags().StringVar(&timeZone, "timezone", "UTC", "IANA time zone for booked events")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "Redis address for durable agent state")
	cmd.Flags().StringVar(&redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().StringVar(&openaiModel, "openai-model", llm.DefaultModel, "Chat model used for extraction and negotiation")
	cmd.Flags().StringVar(&openaiBaseURL, "openai-base-url", llm.DefaultBaseURL, "OpenAI-compatible API base URL")

	return cmd
}
