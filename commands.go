package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/datapod/health-parser/parser"
	"github.com/datapod/health-parser/query"
	"github.com/datapod/health-parser/storage"
)

var (
	outputFormat string
	queryDate    string
	chartType    string
	chartStart   string
	chartEnd     string
)

var parseCmd = &cobra.Command{
	Use:   "parse <archive.zip>",
	Short: "Parse a local export archive and publish its tables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.WithField("component", "parse")
		walker := parser.NewWalker(cfg.Layout, logger)
		store := storage.NewTableStore(cfg.TableRoot, logger)
		version, err := parseAndPublish(cmd.Context(), walker, store, nil, nil, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), version)
		return nil
	},
}

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List the dates that have workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newQueryService()
		if err != nil {
			return err
		}
		dates, err := svc.WorkoutDates(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), dates)
	},
}

var workoutsCmd = &cobra.Command{
	Use:   "workouts",
	Short: "Show the workouts of a date with statistics, vitals and route",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newQueryService()
		if err != nil {
			return err
		}
		details, err := svc.WorkoutsOn(cmd.Context(), queryDate)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), details)
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Chart one record type over a time window",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := query.ParseTimestamp(chartStart)
		if err != nil {
			return err
		}
		end, err := query.ParseTimestamp(chartEnd)
		if err != nil {
			return err
		}
		svc, err := newQueryService()
		if err != nil {
			return err
		}
		chart, err := svc.Chart(cmd.Context(), chartType, start, end)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), chart)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the activity summary of a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newQueryService()
		if err != nil {
			return err
		}
		summary, err := svc.ActivitySummaryOn(cmd.Context(), queryDate)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), summary)
	},
}

type status struct {
	Current  string   `json:"current" yaml:"current"`
	Versions []string `json:"versions" yaml:"versions"`
	Export   bool     `json:"export" yaml:"export"`
	Finished []string `json:"finished,omitempty" yaml:"finished,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the published table version",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store := storage.NewTableStore(cfg.TableRoot, log.WithField("component", "status"))
		svc, err := query.NewService(store, cfg.Layout, cfg.CacheSize, nil)
		if err != nil {
			return err
		}

		var st status
		if st.Current, err = store.Current(ctx); err != nil {
			return err
		}
		if st.Versions, err = store.Versions(ctx); err != nil {
			return err
		}
		if st.Export, err = svc.ExportPresent(ctx); err != nil {
			return err
		}
		if cfg.DBURI != "" {
			db, err := storage.NewORMDB(cfg.DBDialect, cfg.DBURI)
			if err != nil {
				return err
			}
			defer db.Close()
			if st.Finished, err = storage.PublishedVersions(db); err != nil {
				return err
			}
		}
		return render(cmd.OutOrStdout(), st)
	},
}

func init() {
	for _, c := range []*cobra.Command{datesCmd, workoutsCmd, chartCmd, summaryCmd, statusCmd} {
		c.Flags().StringVarP(&outputFormat, "output", "o", "json", "output format: json or yaml")
	}
	for _, c := range []*cobra.Command{workoutsCmd, summaryCmd} {
		c.Flags().StringVar(&queryDate, "date", time.Now().Format(query.DateLayout), "calendar date, e.g. 2024-03-28")
	}
	chartCmd.Flags().StringVar(&chartType, "type", "HeartRate", "record type without its HealthKit prefix")
	chartCmd.Flags().StringVar(&chartStart, "start", "", "window start, e.g. \"2024-03-28 06:00:00 -0700\"")
	chartCmd.Flags().StringVar(&chartEnd, "end", "", "window end")
	chartCmd.MarkFlagRequired("start")
	chartCmd.MarkFlagRequired("end")
}

func newQueryService() (*query.Service, error) {
	logger := log.WithField("component", "query")
	store := storage.NewTableStore(cfg.TableRoot, logger)
	return query.NewService(store, cfg.Layout, cfg.CacheSize, logger)
}

func render(w io.Writer, v interface{}) error {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown output format %q", outputFormat)
}
