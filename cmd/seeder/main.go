package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/picfeed/picfeed/internal/db"
	"github.com/picfeed/picfeed/internal/seeder"
	"github.com/picfeed/picfeed/pkg/config"
	"github.com/picfeed/picfeed/pkg/logging"
)

func main() {
	pflag.Int("users", 10000, "number of users to create")
	pflag.Int("posts", 1, "posts per user")
	pflag.Int64("seed", 0, "random seed, 0 picks one from the clock")
	pflag.Parse()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()

	opts := seeder.Options{
		Users:        viper.GetInt("users"),
		PostsPerUser: viper.GetInt("posts"),
	}
	if opts.Users < 0 || opts.PostsPerUser < 0 {
		logger.Fatal("users and posts must not be negative")
	}
	logger.Info("Seeding database", zap.Int("users", opts.Users), zap.Int("posts_per_user", opts.PostsPerUser))

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	repo := db.NewRepository(database.DB)
	s := seeder.New(
		db.NewUserRepository(repo),
		db.NewFollowRepository(repo),
		db.NewPostRepository(repo),
		db.NewCommentRepository(repo),
		viper.GetInt64("seed"),
	)

	summary, err := s.Run(ctx, opts)
	if err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}
	if summary.Skipped {
		logger.Info("Nothing to do")
		return
	}
	logger.Info("Seeding completed")
}
