// Command extract-pdf downloads a PDF and prints its text and metadata as JSON.
package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joeychilson/pdftools/config"
	"github.com/joeychilson/pdftools/extractor"
	"github.com/joeychilson/pdftools/internal/cli"
	"github.com/joeychilson/pdftools/internal/mupdf"
)

const usage = "Usage: extract-pdf <url>"

var version = "dev"

// checkDependencies verifies the MuPDF backend when the mupdf engine is selected.
var checkDependencies = mupdf.Check

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cli.LoadEnv()

	ctx, stop := cli.SignalContext()
	defer stop()

	cmd := newCommand(stdout, stderr)
	return cli.Execute(ctx, cmd, args, func(err error) {
		io.WriteString(stderr, err.Error()+"\n")
		cli.WriteJSON(stdout, usageFailure())
	})
}

func newCommand(stdout, stderr io.Writer) *cobra.Command {
	var (
		opts      cli.Options
		verifyTLS bool
	)

	cmd := cli.NewCommand("extract-pdf <url>", "Download a PDF and print its text as JSON", version, stderr)
	opts.Bind(cmd)
	cmd.Flags().BoolVar(&verifyTLS, "verify-tls", false, "verify the server's TLS certificate (off by default)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		result := extract(cmd, args, &opts, verifyTLS, stderr)
		if err := cli.WriteJSON(stdout, result); err != nil {
			return err
		}
		if !result.Success {
			return cli.ErrReported
		}
		return nil
	}
	return cmd
}

func extract(cmd *cobra.Command, args []string, opts *cli.Options, verifyTLS bool, stderr io.Writer) *extractor.Result {
	if len(args) != 1 {
		return usageFailure()
	}

	cfg, err := opts.Load()
	if err != nil {
		return extractor.Failure(extractor.InvalidArgsError(err))
	}
	if cmd.Flags().Changed("verify-tls") {
		skip := !verifyTLS
		cfg.Fetch.InsecureSkipVerify = &skip
	}

	log, err := opts.Logger(stderr, cfg.Log)
	if err != nil {
		return extractor.Failure(extractor.InvalidArgsError(err))
	}

	if cfg.Extract.GetEngine() == config.EngineMuPDF {
		if err := checkDependencies(); err != nil {
			return &extractor.Result{Kind: extractor.KindExtractionFailed, Message: "Missing dependency: " + err.Error()}
		}
	}

	ext, err := extractor.New(cfg)
	if err != nil {
		return extractor.Failure(extractor.InvalidArgsError(err))
	}

	return ext.WithLogger(log).Extract(cmd.Context(), args[0])
}

func usageFailure() *extractor.Result {
	return &extractor.Result{Kind: extractor.KindInvalidArgs, Message: usage}
}
