package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/agreyes/webmon/internal/browser"
	"github.com/agreyes/webmon/internal/config"
	"github.com/agreyes/webmon/internal/logging"
	"github.com/agreyes/webmon/internal/notify"
	"github.com/agreyes/webmon/internal/probe"
	"github.com/agreyes/webmon/internal/run"
	"github.com/agreyes/webmon/internal/target"
)

type command struct {
	OutStream io.Writer
	ErrStream io.Writer

	Webhook       string
	TargetURL     string
	NotifySuccess bool
	LogDir        string
	ShowHelp      bool
}

// parseArgs fills the command from CLI arguments. The second return value is
// false when the process should exit immediately with the given code.
func (cmd *command) parseArgs(args []string) (exitCode int, ok bool) {
	flags := pflag.NewFlagSet("webmon", pflag.ContinueOnError)
	flags.SetOutput(cmd.ErrStream)
	flags.BoolVar(&cmd.NotifySuccess, "notify-success", true, "Send a card even when every target is available")
	flags.StringVar(&cmd.LogDir, "log-dir", "", "Directory for run logs (overrides WEBMON_LOG_DIR)")
	flags.BoolVarP(&cmd.ShowHelp, "help", "h", false, "Show this help and exit")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(cmd.ErrStream, err)
		return 2, false
	}
	if cmd.ShowHelp {
		cmd.printUsage(flags)
		return 0, false
	}

	rest := flags.Args()
	if len(rest) < 1 || rest[0] == "" {
		fmt.Fprintln(cmd.ErrStream, "webmon: missing Teams webhook URL")
		cmd.printUsage(flags)
		return 1, false
	}
	cmd.Webhook = rest[0]
	if len(rest) > 1 {
		cmd.TargetURL = rest[1]
	}
	return 0, true
}

func (cmd *command) printUsage(flags *pflag.FlagSet) {
	fmt.Fprintln(cmd.ErrStream, "usage: webmon [flags] WEBHOOK_URL [TARGET_URL]")
	fmt.Fprintln(cmd.ErrStream, "\nProbes the watch list (or the single TARGET_URL) and reports availability")
	fmt.Fprintln(cmd.ErrStream, "to the Teams incoming webhook. Exits 0 when every target is available.")
	fmt.Fprintln(cmd.ErrStream, "\nFlags:")
	fmt.Fprint(cmd.ErrStream, flags.FlagUsages())
}

func (cmd *command) run() int {
	cfg := config.FromEnv()
	if cmd.LogDir != "" {
		cfg.LogDir = cmd.LogDir
	}

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		fmt.Fprintln(cmd.ErrStream, "webmon:", err)
		return 1
	}
	defer logger.Sync()

	urls := config.DefaultTargets
	if cmd.TargetURL != "" {
		urls = []string{cmd.TargetURL}
	}
	targets := make([]target.Target, 0, len(urls))
	for _, u := range urls {
		targets = append(targets, target.Classify(u, config.RenderDomains))
	}

	sess := browser.NewSession(browser.Options{NavigationTimeout: cfg.PageTimeout})
	teams := notify.NewTeams(cmd.Webhook)

	logger.Info("run_start",
		zap.Int("targets", len(targets)),
		zap.Duration("page_timeout", cfg.PageTimeout),
		zap.Duration("file_timeout", cfg.FileTimeout),
		zap.Bool("notify_success", cmd.NotifySuccess))

	runner := &run.Runner{
		Log:           logger,
		Session:       sess,
		Protocol:      probe.NewHTTPChecker(cfg.FileTimeout),
		Render:        probe.NewRenderChecker(sess, cfg.PageTimeout, cfg.SettleDelay),
		NotifySuccess: cmd.NotifySuccess,
		Pace:          cfg.Pace,
		Notify: func(ctx context.Context, s run.Summary) error {
			ctx, cancel := context.WithTimeout(ctx, cfg.NotifyTimeout)
			defer cancel()
			return teams.Send(ctx, notify.BuildCard(s, time.Now(), cfg.LogsURL))
		},
	}
	return runner.Run(context.Background(), targets)
}

func main() {
	cmd := &command{OutStream: os.Stdout, ErrStream: os.Stderr}
	code, ok := cmd.parseArgs(os.Args[1:])
	if !ok {
		os.Exit(code)
	}
	os.Exit(cmd.run())
}
