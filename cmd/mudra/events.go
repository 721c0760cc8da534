package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ayusman/mudra/internal/store"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

type EventsCommand struct {
	Limit int `short:"n" long:"limit" default:"20" description:"Number of events to show"`
}

func (c *EventsCommand) Execute(args []string) error {
	if c.Limit < 1 {
		return fmt.Errorf("--limit must be at least 1")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.Journal.Path); os.IsNotExist(err) {
		fmt.Println("No events recorded yet.")
		return nil
	}

	st, err := store.New(cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer st.Close()

	events, err := st.Events().Recent(c.Limit)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	return printEvents(os.Stdout, events)
}

func printEvents(w io.Writer, events []*store.Event) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "No events recorded yet.")
		return err
	}

	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			e.CreatedAt.Local().Format(time.DateTime),
			e.Kind,
			e.Gesture,
			string(e.Payload),
			shortID(e.SessionID),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Time", "Kind", "Gesture", "Payload", "Session").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t)
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
