package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"github.com/ledgertext/beancount/render"
	"github.com/ledgertext/beancount/telemetry"
)

type FormatCmd struct {
	File  FileOrStdin `help:"Beancount input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Write bool        `help:"Write the rendered output back to the input file instead of stdout." short:"w"`
	Watch bool        `help:"Re-render whenever the input file changes. Requires a real file, not stdin."`
}

func (cmd *FormatCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	if cmd.Watch {
		if cmd.File.Filename == "<stdin>" {
			printError(ctx.Stderr, "--watch requires a file, not stdin")
			return NewCommandError(1)
		}
		return cmd.runWatch(ctx, globals)
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr)
		}()
	}

	return cmd.renderOnce(ctx, runCtx)
}

func (cmd *FormatCmd) renderOnce(ctx *kong.Context, runCtx context.Context) error {
	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	ledger, err := cmd.File.ParseLedger(runCtx)
	if err != nil {
		renderer := NewErrorRenderer(sourceContent)
		formatted := renderer.Render(err)
		_, _ = fmt.Fprint(ctx.Stderr, formatted)
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "parse error")
		return NewCommandError(1)
	}

	out, err := render.String(ledger)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}

	if !cmd.Write {
		_, err := fmt.Fprint(ctx.Stdout, out)
		return err
	}

	if cmd.File.Filename == "<stdin>" {
		_, err := fmt.Fprint(ctx.Stdout, out)
		return err
	}

	confirm, err := promptYesNo(ctx, fmt.Sprintf("Overwrite %s with the canonical rendering?", cmd.File.Filename))
	if err != nil {
		return err
	}
	if !confirm {
		printInfof(ctx.Stdout, "skipped %s", cmd.File.Filename)
		return nil
	}

	if err := os.WriteFile(cmd.File.Filename, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("wrote %s", cmd.File.Filename))

	return nil
}

func (cmd *FormatCmd) runWatch(ctx *kong.Context, globals *Globals) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cmd.File.Filename); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cmd.File.Filename, err)
	}

	printInfof(ctx.Stdout, "watching %s for changes (ctrl-c to stop)", cmd.File.Filename)

	doRender := func() {
		cmd.File.Contents = nil
		runCtx := context.Background()
		if globals.Telemetry {
			collector := telemetry.NewTimingCollector()
			runCtx = telemetry.WithCollector(runCtx, collector)
			defer collector.Report(ctx.Stderr)
		}
		if err := cmd.renderOnce(ctx, runCtx); err != nil {
			if _, ok := err.(*CommandError); ok {
				return
			}
			printError(ctx.Stderr, err.Error())
		}
	}

	doRender()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				doRender()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, err.Error())
		}
	}
}
