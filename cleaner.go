package main

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/datapod/health-parser/storage"
)

var cleanInterval time.Duration

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete table versions older than the newest KEEP_VERSIONS",
	RunE: func(cmd *cobra.Command, args []string) error {
		sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.SentryEnv,
		})
		defer sentry.Flush(2 * time.Second)

		var db *gorm.DB
		if cfg.DBURI != "" {
			var err error
			if db, err = storage.NewORMDB(cfg.DBDialect, cfg.DBURI); err != nil {
				return err
			}
			defer db.Close()
		}
		c := &cleaner{
			store: storage.NewTableStore(cfg.TableRoot, log.WithField("component", "cleaner")),
			db:    db,
			keep:  cfg.KeepVersions,
			log:   log.WithField("component", "cleaner"),
		}

		ctx := cmd.Context()
		if cleanInterval <= 0 {
			_, err := c.clean(ctx)
			return err
		}
		c.log.Info("start checking stale table versions")
		for {
			if _, err := c.clean(ctx); err != nil {
				sentry.CaptureException(err)
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(cleanInterval):
			}
		}
	},
}

func init() {
	cleanCmd.Flags().DurationVar(&cleanInterval, "interval", 0, "repeat every interval instead of running once")
}

type cleaner struct {
	store *storage.TableStore
	db    *gorm.DB
	keep  int
	log   *log.Entry
}

// clean deletes every version except the keep newest ones and the published one.
// Nothing is deleted while a parse task is running.
func (c *cleaner) clean(ctx context.Context) ([]string, error) {
	if c.db != nil {
		var running int
		if err := c.db.Model(&storage.Task{}).Where("status = ?", storage.TaskStatusRunning).Count(&running).Error; err != nil {
			return nil, err
		}
		if running > 0 {
			c.log.Info("there are running tasks, skip cleaning")
			return nil, nil
		}
	}

	versions, err := c.store.Versions(ctx)
	if err != nil {
		return nil, err
	}
	current, err := c.store.Current(ctx)
	if err != nil {
		return nil, err
	}
	if len(versions) <= c.keep {
		return nil, nil
	}

	deleted := make([]string, 0)
	for _, v := range versions[:len(versions)-c.keep] {
		if v == current {
			continue
		}
		c.log.WithField("version", v).Info("delete table version")
		if err := c.store.DeleteVersion(ctx, v); err != nil {
			return deleted, fmt.Errorf("unable to delete version %s: %w", v, err)
		}
		deleted = append(deleted, v)
	}
	return deleted, nil
}
