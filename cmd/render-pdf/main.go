// Command render-pdf renders the first page of a local PDF to a JPEG and prints
// the result as JSON.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joeychilson/pdftools/internal/cli"
	"github.com/joeychilson/pdftools/internal/mupdf"
	"github.com/joeychilson/pdftools/render"
)

const usage = "Usage: render-pdf <pdf_path> <output_path> [width] [height]"

var version = "dev"

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
		cli.WriteJSON(stdout, &render.Result{Message: usage})
	})
}

type renderFlags struct {
	dpi     int
	quality int
}

func newCommand(stdout, stderr io.Writer) *cobra.Command {
	var (
		opts  cli.Options
		flags renderFlags
	)

	cmd := cli.NewCommand("render-pdf <pdf_path> <output_path> [width height]", "Render the first page of a PDF to a JPEG", version, stderr)
	opts.Bind(cmd)
	cmd.Flags().IntVar(&flags.dpi, "dpi", 0, "rasterization resolution (default 150)")
	cmd.Flags().IntVar(&flags.quality, "quality", 0, "JPEG quality 1-100 (default 80)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		result := renderPage(cmd, args, &opts, flags, stderr)
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

func renderPage(cmd *cobra.Command, args []string, opts *cli.Options, flags renderFlags, stderr io.Writer) *render.Result {
	if err := checkDependencies(); err != nil {
		return &render.Result{Message: "Missing dependency: " + err.Error()}
	}

	req, err := parseArgs(args)
	if err != nil {
		return &render.Result{Message: usage}
	}

	cfg, err := opts.Load()
	if err != nil {
		return render.Failure(err)
	}
	if flags.dpi != 0 {
		cfg.Render.DPI = flags.dpi
	}
	if flags.quality != 0 {
		cfg.Render.Quality = flags.quality
	}
	if err := cfg.Validate(); err != nil {
		return render.Failure(err)
	}

	log, err := opts.Logger(stderr, cfg.Log)
	if err != nil {
		return render.Failure(err)
	}

	return render.New(cfg.Render).WithLogger(log).Render(cmd.Context(), req)
}

// parseArgs accepts either two paths or two paths followed by a positive width
// and height. A single dimension is rejected.
func parseArgs(args []string) (render.Request, error) {
	if len(args) != 2 && len(args) != 4 {
		return render.Request{}, fmt.Errorf("expected 2 or 4 arguments, got %d", len(args))
	}

	req := render.Request{PDFPath: args[0], OutputPath: args[1]}
	if len(args) == 2 {
		return req, nil
	}

	width, err := parseDimension(args[2])
	if err != nil {
		return render.Request{}, err
	}
	height, err := parseDimension(args[3])
	if err != nil {
		return render.Request{}, err
	}

	req.Width, req.Height = width, height
	return req, nil
}

func parseDimension(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid dimension %q", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("dimension must be positive, got %d", n)
	}
	return n, nil
}
