package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"laundry-cycle-backend/config"
	"laundry-cycle-backend/internal/db"
	"laundry-cycle-backend/internal/events"
	"laundry-cycle-backend/internal/laundry"
	"laundry-cycle-backend/internal/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "laundryctl",
	Short:         "Manage laundry loads from the command line",
	Long:          "laundryctl talks to the same database as laundryd and applies the same rules.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "./config/config.yaml"
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "path to the config file")

	rootCmd.AddCommand(loadsCmd, dryersCmd, tokenCmd)
}

func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", configPath, err)
	}
	return cfg, nil
}

// openManager wires a manager against the configured database. Changes are
// announced on Redis when configured so running servers refresh.
func openManager() (*laundry.Manager, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			sqlDB.Close()
		}
	}}

	var publisher events.Publisher = events.Nop{}
	if cfg.Events.RedisAddr != "" {
		client, err := events.NewRedisClient(cfg.Events.RedisAddr)
		if err != nil {
			closers[0]()
			return nil, nil, err
		}
		closers = append(closers, client.Close)
		publisher = events.NewRedisPublisher(client, cfg.Events.Channel, uuid.NewString())
	}

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return laundry.NewManager(store.NewGormStore(gormDB), cfg.Laundry, publisher), cleanup, nil
}
