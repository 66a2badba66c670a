// Command export-ics writes the iCalendar export of a calendar window to
// stdout or a file. It signs in with the refresh token from the client
// configuration and keeps the session fresh while it runs.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamcal-backend/internal/adapter/provider/calendarapi"
	"github.com/heartmarshall/teamcal-backend/internal/adapter/provider/oauth"
	"github.com/heartmarshall/teamcal-backend/internal/app"
	"github.com/heartmarshall/teamcal-backend/internal/config"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule/timegrid"
	"github.com/heartmarshall/teamcal-backend/internal/session"
)

func main() {
	calendarFlag := flag.String("calendar", "", "id of the calendar to export")
	fromFlag := flag.String("from", "", "window start, RFC 3339; no zone means UTC (default: now)")
	days := flag.Int("days", 30, "window length in days")
	outFlag := flag.String("out", "", "output file (default: stdout)")
	flag.Parse()

	calendarID, err := uuid.Parse(*calendarFlag)
	if err != nil {
		log.Fatalf("invalid -calendar: %v", err)
	}
	from, to, err := exportWindow(*fromFlag, *days, time.Now())
	if err != nil {
		log.Fatalf("invalid window: %v", err)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	holder := session.NewHolder(logger, oauth.NewRefresher(cfg.Client.TokenURL, cfg.Client.ClientID, logger), cfg.Client.RefreshLeeway)
	holder.Set(session.Credentials{RefreshToken: cfg.Client.RefreshToken})
	client := calendarapi.NewClient(cfg.Client.BaseURL, holder, cfg.Client.Timeout, logger)

	var out io.Writer = os.Stdout
	if *outFlag != "" {
		f, err := os.Create(*outFlag)
		if err != nil {
			logger.Error("create output file", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := client.ExportICS(ctx, calendarID, from, to, out); err != nil {
		logger.Error("export failed",
			slog.String("calendar_id", calendarID.String()),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	logger.Info("export completed",
		slog.String("calendar_id", calendarID.String()),
		slog.Time("from", from),
		slog.Time("to", to),
	)
}

// exportWindow resolves the -from and -days flags into a UTC window.
func exportWindow(fromFlag string, days int, now time.Time) (time.Time, time.Time, error) {
	if days <= 0 {
		return time.Time{}, time.Time{}, errors.New("-days must be > 0")
	}
	from := now.UTC()
	if fromFlag != "" {
		t, err := timegrid.ParseInstant(fromFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("-from: %w", err)
		}
		from = t
	}
	return from, from.AddDate(0, 0, days), nil
}
