package main

import (
	"context"
	"time"

	"github.com/aretw0/robotstudio/pkg/adapters/redis"
	"github.com/spf13/cobra"
)

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("redis", "", "Mirror frames to this Redis address (host:port)")
	cmd.Flags().String("redis-password", "", "Redis password")
	cmd.Flags().Int("redis-db", 0, "Redis database")
	cmd.Flags().String("redis-prefix", redis.DefaultPrefix, "Prefix for Redis keys and the frame channel")
	cmd.Flags().Duration("redis-ttl", 0, "Expiration of the mirrored frame and log (0 keeps them)")
}

// openStore connects the Redis snapshot store, or returns nil when --redis is unset.
func openStore(ctx context.Context, cmd *cobra.Command) (*redis.Store, error) {
	addr, _ := cmd.Flags().GetString("redis")
	if addr == "" {
		return nil, nil
	}
	password, _ := cmd.Flags().GetString("redis-password")
	db, _ := cmd.Flags().GetInt("redis-db")
	prefix, _ := cmd.Flags().GetString("redis-prefix")
	ttl, _ := cmd.Flags().GetDuration("redis-ttl")

	store := redis.New(addr, password, db, redis.WithPrefix(prefix), redis.WithTTL(ttl))

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
