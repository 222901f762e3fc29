package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/config"
	logpkg "github.com/kailas-cloud/cinedex/internal/logger"
	"github.com/kailas-cloud/cinedex/internal/version"
)

// cliEnv is the config and logger environment of the one-shot commands.
const cliEnv = "cli"

func main() {
	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	return &cli.App{
		Name:      "cinedex",
		Usage:     "Hybrid natural-language movie search",
		Version:   version.Version,
		Reader:    in,
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Config environment (local, dev, prod, cli); defaults to $ENV for serve and cli otherwise",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
			// -v is taken by the built-in --version flag.
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Verbose output (debug logging)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			searchCommand(),
			interactiveCommand(),
			statusCommand(),
			downloadCommand(),
		},
	}
}

// setup loads configuration and builds the logger for a command.
// defaultEnv applies when --env is not set; loggerEnv selects the
// logger flavor and falls back to the config environment when empty.
func setup(c *cli.Context, defaultEnv, loggerEnv string) (config.Config, *zap.Logger, error) {
	env := c.String("env")
	if env == "" {
		env = defaultEnv
	}

	cfg, err := config.Load(env)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if c.Bool("verbose") {
		level = "debug"
	}
	if l := c.String("log-level"); l != "" {
		level = l
	}

	if loggerEnv == "" {
		loggerEnv = env
	}
	logger, err := logpkg.NewLogger(loggerEnv, level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger.With(zap.String("env", env)), nil
}
