package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/app"
	"github.com/kailas-cloud/cinedex/internal/domain/search/mode"
	"github.com/kailas-cloud/cinedex/internal/domain/search/request"
	"github.com/kailas-cloud/cinedex/internal/domain/search/result"
)

var errInitFailed = errors.New("search engine failed to initialize")

// searcher is what the interactive loop needs from the search service.
type searcher interface {
	SearchMode(ctx context.Context, raw string, limit int, m mode.Mode) result.Response
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run a single search query",
		ArgsUsage: "<query...>",
		Action:    searchAction,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of results (0 uses search.default_limit)",
			},
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Usage:   "Search mode (hybrid, keyword, semantic)",
				Value:   string(mode.Hybrid),
			},
		},
	}
}

func interactiveCommand() *cli.Command {
	return &cli.Command{
		Name:    "interactive",
		Aliases: []string{"i"},
		Usage:   "Read queries from stdin until quit",
		Action:  interactiveAction,
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Build the index and report its status",
		Action: statusAction,
	}
}

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:   "download",
		Usage:  "Fetch the movie dataset",
		Action: downloadAction,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Download even if a valid dataset is present and drop the saved index",
			},
		},
	}
}

func searchAction(c *cli.Context) error {
	req, err := request.New(strings.Join(c.Args().Slice(), " "), mode.Mode(c.String("mode")), c.Int("limit"))
	if err != nil {
		return err
	}

	a, logger, err := openApp(c)
	if err != nil {
		return err
	}
	defer closeApp(a, logger)

	out := c.App.Writer
	fmt.Fprintf(out, "Search engine initialized with %d movies\n", a.Search.ItemCount())
	resp := a.Search.SearchMode(c.Context, req.Query(), req.RequestedLimit(), req.Mode())
	printResponse(out, resp)
	return nil
}

func interactiveAction(c *cli.Context) error {
	a, logger, err := openApp(c)
	if err != nil {
		return err
	}
	defer closeApp(a, logger)

	out := c.App.Writer
	fmt.Fprintf(out, "Search engine initialized with %d movies\n", a.Search.ItemCount())
	return runInteractive(c.Context, c.App.Reader, out, a.Search)
}

func statusAction(c *cli.Context) error {
	a, logger, err := openApp(c)
	if err != nil {
		return err
	}
	defer closeApp(a, logger)

	out := c.App.Writer
	fmt.Fprintln(out, "Search service ready")
	fmt.Fprintf(out, "Total movies: %d\n", a.Search.ItemCount())

	report := a.Health.Check(c.Context)
	fmt.Fprintf(out, "Health: %s\n", report.Status)
	for name, check := range report.Checks {
		fmt.Fprintf(out, "  %s: %s\n", name, check)
	}
	return nil
}

func downloadAction(c *cli.Context) error {
	cfg, logger, err := setup(c, cliEnv, cliEnv)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	force := c.Bool("force")
	if err := app.NewDownloader(cfg.Data, nil, logger).Download(c.Context, force); err != nil {
		return err
	}
	if force {
		if err := app.ClearSnapshot(c.Context, cfg.Data, logger); err != nil {
			return err
		}
	}
	fmt.Fprintf(c.App.Writer, "Dataset ready at %s\n", cfg.Data.MoviesPath())
	return nil
}

// openApp wires the search stack and builds the index.
func openApp(c *cli.Context) (*app.App, *zap.Logger, error) {
	cfg, logger, err := setup(c, cliEnv, cliEnv)
	if err != nil {
		return nil, nil, err
	}

	a, err := app.New(c.Context, cfg, logger, app.Options{})
	if err != nil {
		return nil, nil, err
	}
	if !a.Search.Initialize(c.Context) {
		closeApp(a, logger)
		return nil, nil, errInitFailed
	}
	return a, logger, nil
}

func closeApp(a *app.App, logger *zap.Logger) {
	if err := a.Close(); err != nil {
		logger.Warn("Error closing stores", zap.Error(err))
	}
	_ = logger.Sync()
}

// runInteractive answers one query per input line until quit or EOF.
func runInteractive(ctx context.Context, in io.Reader, out io.Writer, s searcher) error {
	fmt.Fprintln(out, "Movie search, interactive mode")
	fmt.Fprintln(out, "Type 'quit' or 'exit' to stop, 'help' for examples")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nsearch> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "quit", "exit", "q":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case "help":
			printHelp(out)
			continue
		case "":
			fmt.Fprintln(out, "Please enter a search query.")
			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		printResponse(out, s.SearchMode(ctx, line, request.DefaultLimit, mode.Hybrid))
	}
}
