package commands

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/packsmith/internal/buildstore"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	DB    string `help:"Build history database path" default:"packsmith-history.db"`
	Limit int    `short:"n" help:"Maximum number of builds to show" default:"20"`
}

func (h *HistoryCmd) Run(_ *Global, _ *CLI) error {
	store, err := buildstore.NewSQLiteStore(h.DB)
	if err != nil {
		return fmt.Errorf("open build history: %w", err)
	}
	defer store.Close()

	records, err := store.ListRecords(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No builds recorded")
		return nil
	}

	for _, rec := range records {
		commit := rec.Commit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		if rec.Dirty {
			commit += "+dirty"
		}
		fmt.Printf("%s  %-8s  %-20s %-8s %6dms  %s\n",
			rec.Timestamp.Format(time.DateTime),
			rec.Status,
			rec.AppName,
			rec.AppVersion,
			rec.Duration,
			commit)
	}
	return nil
}
