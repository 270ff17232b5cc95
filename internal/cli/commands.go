// internal/cli/commands.go
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Annany2002/habitgrid-backend/internal/core"
	"github.com/Annany2002/habitgrid-backend/internal/storage"
)

// Context is handed to every command's Run method.
type Context struct {
	Ctx   context.Context
	DB    *storage.DB
	Clock core.Clock
	Out   io.Writer
}

// MigrateCmd ensures the schema exists. Connecting already applies it, so the
// command only reports the outcome.
type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	fmt.Fprintf(ctx.Out, "schema ensured (%s)\n", ctx.DB.Dialect())
	return nil
}

// SyncCmd reconciles a user's availability rows.
type SyncCmd struct {
	Email string `required:"" help:"Email of the user to reconcile."`
	From  string `help:"First date to reconcile (YYYY-MM-DD). Defaults to today."`
}

func (c *SyncCmd) Run(ctx *Context) error {
	user, err := storage.FindUserByEmail(ctx.Ctx, ctx.DB, c.Email)
	if err != nil {
		return err
	}

	from, err := dateOr(c.From, core.Today(ctx.Clock))
	if err != nil {
		return err
	}

	created, err := storage.SyncAvailability(ctx.Ctx, ctx.DB, user.ID, from)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "created %d availability row(s) for %s from %s\n", created, user.Email, core.FormatDate(from))
	return nil
}

// SummaryCmd prints a user's completion summary.
type SummaryCmd struct {
	Email string `required:"" help:"Email of the user to summarize."`
	From  string `help:"First date (YYYY-MM-DD)."`
	To    string `help:"Last date (YYYY-MM-DD)."`
}

func (c *SummaryCmd) Run(ctx *Context) error {
	user, err := storage.FindUserByEmail(ctx.Ctx, ctx.DB, c.Email)
	if err != nil {
		return err
	}

	from, err := dateOr(c.From, time.Time{})
	if err != nil {
		return err
	}
	to, err := dateOr(c.To, time.Time{})
	if err != nil {
		return err
	}

	summary, err := storage.GetSummary(ctx.Ctx, ctx.DB, user.ID, from, to)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "%-10s  %9s  %6s  %5s\n", "DATE", "COMPLETED", "AMOUNT", "RATIO")
	for _, entry := range summary {
		fmt.Fprintf(ctx.Out, "%-10s  %9d  %6d  %4.0f%%\n",
			core.FormatDate(entry.Date), entry.Completed, entry.Amount,
			core.CompletionRatio(entry.Completed, entry.Amount)*100)
	}
	return nil
}

func dateOr(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	return core.ParseDate(raw)
}
