package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type globalFlags struct {
	config   string
	logLevel string
	logFile  string
	verbose  bool
}

// app carries what every subcommand needs once the root has run.
type app struct {
	flags  globalFlags
	cfg    Config
	log    *zap.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := a.rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pixsteg",
		Short: "Store a short text message in the pixels of an image",
		Long: `pixsteg writes a message of up to 254 characters straight into the
colour channels of an image and reads it back.

The message length goes into the first channel of the top-left pixel and each
character overwrites one whole channel value, starting at the first pixel of
the second row. This is visible to anyone inspecting the pixels: it hides
nothing and encrypts nothing. The password is asked for but not used.

Encoded images are always saved in a lossless format (png, bmp, qoi, pxz).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.config, "config", "", "YAML config file")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	pf.StringVar(&a.flags.logFile, "log-file", "", "also write JSON logs to this file (overrides config)")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(a.encodeCmd(), a.decodeCmd(), a.capacityCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := LoadConfig(a.flags.config)
	if err != nil {
		return err
	}
	if a.flags.logLevel != "" {
		cfg.Log.Level = a.flags.logLevel
	}
	if a.flags.verbose {
		cfg.Log.Level = "debug"
	}
	if a.flags.logFile != "" {
		cfg.Log.File = a.flags.logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := NewLogger(cfg.Log, a.stderr)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.cfg = cfg
	a.log = logger.With(zap.String("cmd", cmd.Name()))
	return nil
}
