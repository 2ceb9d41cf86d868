package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meetsched/meetsched/internal/agent"
	"github.com/meetsched/meetsched/internal/store"
)

func newActivityCmd() *cobra.Command {
	var (
		account       string
		limit         int64
		redisAddr     string
		redisPassword string
		redisDB       int
	)

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent agent activity for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			st := store.NewStore(store.Config{
				Addr:     redisAddr,
				Password: redisPassword,
				DB:       redisDB,
			})
			defer st.Close()
			if err := st.Ping(ctx); err != nil {
				return fmt.Errorf("redis not available: %w", err)
			}

			entries, err := st.RecentActivity(ctx, account, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No activity recorded.")
				return nil
			}

			for _, raw := range entries {
				var entry agent.ActivityEntry
				if err := json.Unmarshal(raw, &entry); err != nil {
					fmt.Printf("(unreadable entry: %v)\n", err)
					continue
				}
				fmt.Printf("%s  %-16s %s\n",
					entry.Timestamp.Format(time.RFC3339), entry.EventType, entry.Details)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to inspect")
	cmd.Flags().Int64Var(&limit, "limit", 20, "Number of entries to show")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "Redis address for durable agent state")
	cmd.Flags().StringVar(&redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&redisDB, "redis-db", 0, "Redis database number")

	return cmd
}
