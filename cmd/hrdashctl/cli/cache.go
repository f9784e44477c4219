package cli

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/cinescope/hrdash/internal/upstream"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the upstream response cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "bump",
		Short: "Invalidate every cached upstream response",
		Long: `Increment the cache version and notify running servers. Cached
responses under the previous version are ignored and expire on their own.

Example:
  hrdashctl cache bump`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.RedisAddr == "" {
				return errors.New("cache bump needs REDIS_ADDR")
			}
			client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			defer func() { _ = client.Close() }()
			return bumpCache(cmd, upstream.NewCache(client, cfg.CacheTTL, logger))
		},
	})
	return cmd
}

func bumpCache(cmd *cobra.Command, cache *upstream.Cache) error {
	version, err := cache.Bump(cmd.Context())
	if err != nil {
		return fmt.Errorf("bump cache: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s cache version is now %d\n", okStyle.Render("bumped"), version)
	return nil
}
