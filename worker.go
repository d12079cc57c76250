package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/getsentry/raven-go"
	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/datapod/health-parser/parser"
	"github.com/datapod/health-parser/schema/job"
	"github.com/datapod/health-parser/storage"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume upload messages and parse the uploaded archives",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWorker(ctx, cfg)
	},
}

type worker struct {
	db     *gorm.DB
	queue  *storage.SQS
	stager *storage.Stager
	store  *storage.TableStore
	walker *parser.Walker
	log    *log.Entry
}

func runWorker(ctx context.Context, cfg *Config) error {
	raven.SetDSN(cfg.SentryDSN)
	raven.SetEnvironment(cfg.SentryEnv)

	sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.AWSRegion)})
	if err != nil {
		return err
	}
	db, err := storage.NewORMDB(cfg.DBDialect, cfg.DBURI)
	if err != nil {
		return err
	}
	defer db.Close()

	logger := log.WithField("component", "worker")
	w := &worker{
		db:     db,
		queue:  storage.NewSQS(sess, cfg.SQSURI),
		stager: storage.NewStager(sess, afero.NewOsFs(), cfg.WorkDir),
		store:  storage.NewTableStore(cfg.TableRoot, logger),
		walker: parser.NewWalker(cfg.Layout, logger),
		log:    logger,
	}

	logger.Info("start polling")
	for {
		select {
		case <-ctx.Done():
			logger.Info("stop polling")
			return nil
		default:
		}

		messages, err := w.queue.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			raven.CaptureErrorAndWait(err, nil)
			time.Sleep(time.Second)
			continue
		}

		for _, m := range messages {
			msg, err := job.Parse([]byte(aws.StringValue(m.Body)))
			if err != nil {
				raven.CaptureError(fmt.Errorf("unknown message format: %s: %w", aws.StringValue(m.Body), err), nil)
			} else if _, err := storage.EnqueueArchive(w.db, archiveOf(msg)); err != nil {
				// keep the message so it is delivered again
				raven.CaptureErrorAndWait(err, map[string]string{"archive": msg.ArchiveID})
				continue
			}
			if err := w.queue.DeleteMessage(ctx, m); err != nil {
				raven.CaptureError(err, nil)
			}
		}

		w.drain(ctx)
	}
}

// drain parses pending tasks until none can be claimed.
func (w *worker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		task, err := storage.ClaimNextTask(w.db)
		if err != nil {
			raven.CaptureErrorAndWait(err, nil)
			return
		}
		if task == nil {
			return
		}
		w.handle(ctx, task)
	}
}

func (w *worker) handle(ctx context.Context, task *storage.Task) {
	errLogTags := map[string]string{"task": task.ID, "archive": task.ArchiveID}
	logger := w.log.WithFields(log.Fields{"task": task.ID, "archive": task.ArchiveID})
	logger.Info("start parsing")

	version, err := w.parse(ctx, task)
	if err != nil {
		logger.WithError(err).Error("parse failed")
		raven.CaptureErrorAndWait(err, errLogTags)
		if err := storage.FailTask(w.db, task, err); err != nil {
			raven.CaptureErrorAndWait(err, errLogTags)
		}
		return
	}
	logger.WithField("version", version).Info("tables published")
}

func (w *worker) parse(ctx context.Context, task *storage.Task) (string, error) {
	path, err := w.stager.Stage(task.Archive.Bucket, task.Archive.Key, task.ArchiveID)
	if err != nil {
		return "", err
	}
	defer w.stager.Release(path)

	return parseAndPublish(ctx, w.walker, w.store, w.db, task, path)
}

// parseAndPublish walks one archive and makes its tables the current ones.
// Nothing is published when the walk fails.
func parseAndPublish(ctx context.Context, walker *parser.Walker, store *storage.TableStore, db *gorm.DB, task *storage.Task, path string) (string, error) {
	result, err := walker.Walk(path)
	if err != nil {
		return "", err
	}
	version := storage.NewVersion(time.Now())
	if err := store.Commit(ctx, version, result.Tables); err != nil {
		return "", err
	}
	if db != nil && task != nil {
		if err := storage.FinishTask(db, task, version, result.Tables); err != nil {
			return version, err
		}
	}
	return version, nil
}

func archiveOf(m *job.Message) storage.Archive {
	return storage.Archive{
		ID:       m.ArchiveID,
		Bucket:   m.Bucket,
		Key:      m.Key,
		FileName: m.FileName,
		FileSize: m.FileSize,
	}
}
