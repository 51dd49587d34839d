// Command labourctl runs one-off maintenance tasks against the configured store.
package main

import (
	"context"
	"fmt"
	"os"

	"labourhub/internal/service"
	"labourhub/pkg/config"
	"labourhub/pkg/interfaces"
	"labourhub/pkg/logger"
	redisstore "labourhub/pkg/store/redis"

	"github.com/spf13/cobra"
)

// cli holds dependencies shared by subcommands
type cli struct {
	ctx        context.Context
	configPath string
	cfg        *config.Config
	store      interfaces.Store
	engine     *service.Engine
	redis      *redisstore.RedisClient
}

func main() {
	c := &cli{ctx: context.Background()}

	rootCmd := &cobra.Command{
		Use:   "labourctl",
		Short: "labourhub admin CLI",
		Long:  `Maintenance commands for the labour coordination engine: schema migration, demo data and reliability rescoring.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.close()
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Config file (default $CONFIG_PATH or config/config.yaml)")

	rootCmd.AddCommand(migrateCmd(c))
	rootCmd.AddCommand(seedCmd(c))
	rootCmd.AddCommand(rescoreCmd(c))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (c *cli) loadConfig() error {
	path := c.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config/config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.cfg = cfg
	config.GlobalConfig = cfg
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func (c *cli) close() {
	if c.store != nil {
		c.store.Close()
	}
	if c.redis != nil {
		c.redis.Close()
	}
	logger.Sync()
}
