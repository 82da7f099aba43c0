package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/gerunddev/nbxref/internal/config"
	"github.com/gerunddev/nbxref/internal/styles"
)

// initConfig writes the default configuration to path, or to the default
// config location when path is empty. An existing file is left alone.
func initConfig(path string, stderr io.Writer) error {
	if path == "" {
		path = config.ConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}

	if err := config.DefaultConfig().SaveTo(path); err != nil {
		return err
	}

	fmt.Fprintln(stderr, styles.SuccessStyle.Render("✓ Wrote default config to "+path))
	return nil
}
