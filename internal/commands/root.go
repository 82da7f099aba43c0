package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/gerunddev/nbxref/internal/styles"
	"github.com/spf13/cobra"
)

// Version is the nbxref release
const Version = "0.1.0"

const usageLine = "Usage: nbxref <notebook.ipynb>"

var (
	// ErrUsage is returned for a wrong argument count or bad flags
	ErrUsage = errors.New("invalid usage")
	// ErrNotFound is returned when the notebook path is not a regular file
	ErrNotFound = errors.New("file not found")
)

type options struct {
	write      bool
	output     string
	diff       bool
	report     string
	force      bool
	verbose    bool
	configPath string
	initConfig bool
}

// NewRootCommand builds the nbxref command. Diagnostics that must stay
// machine-parseable go to stdout, everything else to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "nbxref [flags] <notebook.ipynb>",
		Short: "Resolve chapter cross-references in notebook markdown cells",
		Long: `nbxref rewrites ?@sec-<chapter> markers in the markdown cells of a Jupyter
notebook, replacing the chapter slug with the chapter's numbered title.

By default the notebook is only previewed; pass --write to save it.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.initConfig && len(args) == 0 {
				return nil
			}
			if len(args) != 1 {
				fmt.Fprintln(stdout, usageLine)
				return ErrUsage
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.initConfig {
				return initConfig(opts.configPath, stderr)
			}
			return run(args[0], opts, stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintln(stdout, usageLine)
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})

	flags := cmd.Flags()
	flags.BoolVarP(&opts.write, "write", "w", false, "save the resolved notebook in place")
	flags.StringVarP(&opts.output, "output", "o", "", "save the resolved notebook to this path instead")
	flags.BoolVar(&opts.diff, "diff", false, "show a diff of the changed markdown cells")
	flags.StringVar(&opts.report, "report", "", "write a YAML run report to this path")
	flags.BoolVar(&opts.force, "force", false, "resolve even if the notebook was already resolved")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/nbxref/config.json)")
	flags.BoolVar(&opts.initConfig, "init-config", false, "write a default config file and exit")

	return cmd
}

// Run executes nbxref with args and returns the process exit code
func Run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		// Bare usage and not-found errors have already been reported on stdout
		if err != ErrUsage && !errors.Is(err, ErrNotFound) { //nolint:errorlint // wrapped usage errors carry flag details
			fmt.Fprintln(stderr, styles.ErrorStyle.Render("Error: "+err.Error()))
		}
		return 1
	}

	return 0
}
