package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"calendr/internal/calendar"
	"calendr/internal/capture"
	"calendr/internal/ics"
	"calendr/internal/model"
	"calendr/internal/termview"
)

func monthCmd() *cobra.Command {
	var year, month int
	var region string

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Print a month grid with its holidays",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			loc := cfg.Location()
			now := time.Now().In(loc)
			if year == 0 {
				year = now.Year()
			}
			if month == 0 {
				month = int(now.Month())
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("invalid month %d, want 1-12", month)
			}
			if region == "" {
				region = cfg.DefaultRegion
			}

			cells := calendar.BuildMonthGrid(year, time.Month(month), loc)
			snap, err := buildStore(cfg, loc).Span(cmd.Context(), region, cells[0].Date, cells[len(cells)-1].Date)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), termview.RenderMonth(year, time.Month(month), snap.Index, snap.Events, loc))
			return err
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (default: current)")
	cmd.Flags().StringVar(&region, "region", "", "Region code (default: config default_region)")
	return cmd
}

func exportCmd() *cobra.Command {
	var year int
	var region, id, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write events as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			loc := cfg.Location()
			if year == 0 {
				year = time.Now().In(loc).Year()
			}
			if region == "" {
				region = cfg.DefaultRegion
			}

			snap, err := buildStore(cfg, loc).Get(cmd.Context(), year, region)
			if err != nil {
				return err
			}

			events := snap.Events
			if id != "" {
				events = nil
				for _, e := range snap.Events {
					if e.ID == id {
						events = []model.Event{e}
						break
					}
				}
				if events == nil {
					return fmt.Errorf("event %q not found in %d/%s", id, year, region)
				}
			}

			body := ics.Export(events, time.Now())
			if out == "" || out == "-" {
				_, err = io.WriteString(cmd.OutOrStdout(), body)
				return err
			}
			if err := os.WriteFile(out, []byte(body), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d event(s) to %s\n", len(events), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current)")
	cmd.Flags().StringVar(&region, "region", "", "Region code (default: config default_region)")
	cmd.Flags().StringVar(&id, "id", "", "Export a single event by ID")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file, - for stdout")
	return cmd
}

func snapshotCmd() *cobra.Command {
	var url, out string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture the calendar page of a running server to PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			opts := capture.OptionsFromConfig(cfg)
			if url != "" {
				opts.URL = url
			}
			if out != "" {
				opts.OutputPath = out
			}
			if opts.OutputPath == "" {
				return errors.New("no output path; set --out or snapshot.output")
			}
			return capture.CaptureCalendarPNG(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Page to capture (default: local /calendar)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output PNG (default: snapshot.output)")
	return cmd
}
