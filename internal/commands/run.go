package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gerunddev/nbxref/internal/config"
	"github.com/gerunddev/nbxref/internal/crossref"
	"github.com/gerunddev/nbxref/internal/diff"
	"github.com/gerunddev/nbxref/internal/logger"
	"github.com/gerunddev/nbxref/internal/notebook"
	"github.com/gerunddev/nbxref/internal/report"
	"github.com/gerunddev/nbxref/internal/state"
	"github.com/gerunddev/nbxref/internal/styles"
	"github.com/google/uuid"
)

func run(path string, opts *options, stdout, stderr io.Writer) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		fmt.Fprintf(stdout, "File %s not found!\n", path)
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	l, cleanup, err := newLogger(cfg, opts.verbose, stderr)
	if err != nil {
		return err
	}
	defer cleanup()
	l.ConfigLoaded(cfgPath, cfg.StateFile, cfg.WriteBack)

	started := time.Now()
	runID := uuid.NewString()
	target := path
	if opts.output != "" {
		target = opts.output
	}
	write := opts.write || opts.output != "" || cfg.WriteBack

	l.RunStarted(runID, path, write)

	st, err := state.Load(cfg.StateFile)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	if !opts.force {
		done, err := st.AlreadyResolved(path)
		if err != nil {
			l.StateError("check", err)
		}
		if done {
			l.Skipped(path, "already resolved")
			fmt.Fprintln(stderr, styles.DimStyle.Render(
				fmt.Sprintf("Skipping %s: already resolved (use --force to resolve again)", path)))
			if opts.report != "" {
				return report.Skip(path, runID).Save(opts.report)
			}
			return nil
		}
	}

	doc, err := notebook.Load(path)
	if err != nil {
		return err
	}
	l.NotebookLoaded(path, len(doc.Cells))

	resolver := crossref.NewResolver(crossref.Chapters(), stdout)
	resolver.SetLogger(l)
	result := resolver.Resolve(doc, path)

	if opts.diff {
		fmt.Fprint(stdout, diff.Render(result.Changes, cfg.DiffWidth))
	}

	written := ""
	if write {
		if err := notebook.Write(doc, target); err != nil {
			return err
		}
		written = target
		l.NotebookWritten(target)

		if err := st.Record(target, runID); err != nil {
			l.StateError("record", err)
		} else if err := st.Save(cfg.StateFile); err != nil {
			l.StateError("save", err)
		}
	}

	if opts.report != "" {
		if err := report.FromResult(result, runID, written).Save(opts.report); err != nil {
			return err
		}
	}

	printSummary(stderr, result, written)
	l.RunCompleted(runID, result.ResolvedCount(), result.UnresolvedCount(), time.Since(started))

	return nil
}

// loadConfig returns the config and the path it was read from
func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		cfg, err := config.LoadFrom(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config %s: %w", path, err)
		}
		return cfg, path, nil
	}

	path = config.ConfigPath()
	cfg, err := config.Load()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, path, nil
}

// newLogger logs to stderr, and also to the configured log file if any
func newLogger(cfg *config.Config, verbose bool, stderr io.Writer) (*logger.Logger, func(), error) {
	level := logger.ParseLevel(cfg.LogLevel)
	if verbose {
		level = log.DebugLevel
	}

	if cfg.LogFile == "" {
		return logger.NewWithLevel(stderr, level), func() {}, nil
	}

	l, cleanup, err := logger.NewFileLogger(cfg.LogFile, level, stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return l, cleanup, nil
}

func printSummary(w io.Writer, result *crossref.Result, written string) {
	style := styles.SuccessStyle
	mark := "✓"
	if result.UnresolvedCount() > 0 {
		style = styles.WarningStyle
		mark = "!"
	}
	fmt.Fprintln(w, style.Render(fmt.Sprintf("%s %s", mark, result.String())))

	if written != "" {
		fmt.Fprintln(w, styles.InfoStyle.Render("  Saved "+written))
		return
	}
	fmt.Fprintln(w, styles.DimStyle.Render("  Preview only, notebook not saved (use --write to save)"))
}
