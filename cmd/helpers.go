package cmd

import (
	"fmt"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/marsisca/travelog/internal/models"
	"github.com/marsisca/travelog/internal/session"
	"github.com/marsisca/travelog/internal/travelog"
	"github.com/marsisca/travelog/internal/uploadflow"
)

// openStore opens the local session database.
func openStore() (*session.Store, error) {
	store, err := session.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	return store, nil
}

// apiClient builds an API client wired to the stored session's token.
func apiClient(store *session.Store) (*travelog.Client, error) {
	if err := requireAPIURL(); err != nil {
		return nil, err
	}
	return travelog.NewClient(apiURL, store.TokenProvider()), nil
}

// requireUser returns the logged-in user or an error telling the caller to
// log in first.
func requireUser(store *session.Store) (*models.User, error) {
	user, _, err := store.CurrentSession()
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("not logged in. Run 'travelog login' first")
	}
	return user, nil
}

// advance drives the upload state machine. A rejected transition is a
// sequencing bug in the command, not a user error, so it is logged and the
// machine stays where it was.
func advance(flow *uploadflow.Machine, next uploadflow.State) {
	if err := flow.Transition(next); err != nil {
		slog.Warn("upload state transition rejected",
			"from", flow.Current().Kind(), "to", next.Kind(), "error", err)
	}
}

// renderTable prints a rounded table with left-aligned headers.
func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 1, AlignHeader: text.AlignLeft}})
	return tw.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
