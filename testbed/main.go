package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/pods/pkg/app"
	teaui "tableflip.dev/pods/pkg/tui/app"
)

type options struct {
	count   int
	latency time.Duration
	fail    bool
	page    string
	logFile string
	seed    int64
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "testbed",
		Short: "Run the TUI against generated episodes instead of a server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	rootCmd.PersistentFlags().IntVar(&opts.count, "count", 500, "number of queued episodes to generate")
	rootCmd.PersistentFlags().DurationVar(&opts.latency, "latency", 300*time.Millisecond, "simulated server latency for saves")
	rootCmd.PersistentFlags().BoolVar(&opts.fail, "fail", false, "make every queue save fail")
	rootCmd.PersistentFlags().StringVar(&opts.page, "page", "queue", "page to open")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log", "", "write debug logs to this file")
	rootCmd.PersistentFlags().Int64Var(&opts.seed, "seed", 1, "random seed for generated data")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	page, err := app.ParsePage(opts.page)
	if err != nil {
		return err
	}

	var out io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	logger := log.New(out, "testbed: ", log.LstdFlags|log.Lmicroseconds)

	remote := newSampleRemote(opts.seed, opts.count)
	remote.latency = opts.latency
	remote.fail = opts.fail

	svc := &app.Service{Remote: remote, Logger: logger}
	return teaui.Run(ctx, svc, teaui.Options{Page: page, Logger: logger})
}
