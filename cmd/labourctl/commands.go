package main

import (
	"fmt"
	"time"

	"labourhub/internal/jobs"
	"labourhub/internal/service"
	"labourhub/pkg/lock"
	"labourhub/pkg/store"
	redisstore "labourhub/pkg/store/redis"

	"github.com/spf13/cobra"
)

func (c *cli) openEngine(migrate bool) error {
	if migrate {
		c.cfg.MySQL.AutoMigrate = true
	}
	s, err := store.Open(c.ctx, c.cfg)
	if err != nil {
		return err
	}
	c.store = s
	c.engine = service.NewEngine(s, c.cfg.Engine)
	return nil
}

func migrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the MySQL schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Storage.Driver != store.DriverMySQL {
				return fmt.Errorf("migrate needs storage.driver=mysql, got %s", c.cfg.Storage.Driver)
			}
			if err := c.openEngine(true); err != nil {
				return err
			}
			fmt.Println("schema is up to date")
			return nil
		},
	}
}

func seedCmd(c *cli) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the demo coordinator, worker pool and requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.openEngine(false); err != nil {
				return err
			}
			var (
				result *service.SeedResult
				err    error
			)
			if reset {
				result, err = service.ResetDemo(c.ctx, c.engine, time.Now())
			} else {
				result, err = service.Seed(c.ctx, c.engine, time.Now())
			}
			if err != nil {
				return err
			}
			if result.Existing {
				fmt.Printf("demo data already present (coordinator %s)\n", result.CoordinatorID)
				return nil
			}
			fmt.Printf("seeded coordinator %s with %d workers and %d requests\n",
				result.CoordinatorID, len(result.WorkerIDs), len(result.RequestIDs))
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Wipe the store before seeding (memory store only)")
	return cmd
}

func rescoreCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rescore",
		Short: "Recompute every reliability score and worker count once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.openEngine(false); err != nil {
				return err
			}
			// share the lease with running servers when redis is configured
			if c.cfg.Redis.Addr != "" {
				client, err := redisstore.NewRedisClient(c.cfg.Redis)
				if err != nil {
					return err
				}
				c.redis = client
			}
			l := lock.NewRedisLock(c.redis.GetClient(), jobs.ReliabilityRescanLockKey, 0)
			job := jobs.NewReliabilityRescanJob(0, c.engine.Scorer, l)
			if err := jobs.RunOnce(c.ctx, job); err != nil {
				return err
			}
			result := job.LastResult()
			if result == nil {
				fmt.Println("another instance holds the rescan lock, nothing done")
				return nil
			}
			fmt.Printf("rescanned %d coordinators and %d workers: %d scores changed, %d worker counts fixed\n",
				result.Coordinators, result.Workers, result.ScoresChanged, result.WorkerCountsFixed)
			return nil
		},
	}
}
