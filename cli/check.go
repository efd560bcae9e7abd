package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"

	"github.com/ledgertext/beancount/ast"
	"github.com/ledgertext/beancount/telemetry"
)

type CheckCmd struct {
	File FileOrStdin `help:"Beancount input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var checkTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				checkTimer.End()
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr)
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		checkTimer = collector.Start(fmt.Sprintf("check %s", filepath.Base(cmd.File.Filename)))
		runCtx = telemetry.WithRootTimer(runCtx, checkTimer)

		defer reportTelemetry()
	}

	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file for error context: %w", err)
	}

	ledger, err := cmd.File.ParseLedger(runCtx)
	if err != nil {
		renderer := NewErrorRenderer(sourceContent)
		formatted := renderer.Render(err)
		_, _ = fmt.Fprintln(ctx.Stderr, formatted)

		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "parse error")

		reportTelemetry()
		return NewCommandError(1)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed (%d directives)", len(ledger.Directives)))
	printSummary(ctx.Stdout, ledger)

	return nil
}

// printSummary prints the accounts and currencies touched by ledger,
// account names padded to the widest entry's display width (not its byte
// length, so multi-byte names still line up) before the currency column.
func printSummary(w io.Writer, ledger *ast.Ledger) {
	accounts, currencies := ledger.Summary()
	if len(accounts) == 0 && len(currencies) == 0 {
		return
	}

	width := 0
	for _, a := range accounts {
		if aw := runewidth.StringWidth(a); aw > width {
			width = aw
		}
	}

	_, _ = fmt.Fprintln(w)
	printInfof(w, "%d account(s), %d currency(ies)", len(accounts), len(currencies))
	for i := 0; i < len(accounts) || i < len(currencies); i++ {
		line := "  "
		if i < len(accounts) {
			a := accounts[i]
			line += a + strings.Repeat(" ", width-runewidth.StringWidth(a))
		} else {
			line += strings.Repeat(" ", width)
		}
		if i < len(currencies) {
			line += "  " + currencies[i]
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
