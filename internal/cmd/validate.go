package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/DevSymphony/codecleaner/internal/config"
	"github.com/DevSymphony/codecleaner/internal/metrics"
	"github.com/DevSymphony/codecleaner/internal/report"
	"github.com/DevSymphony/codecleaner/internal/ui"
	"github.com/DevSymphony/codecleaner/internal/validator"
)

var (
	validateFormat      string
	validateOutput      string
	validateOpen        bool
	validateWatch       bool
	validateDebounce    time.Duration
	validateMetrics     bool
	validateUTF8        bool
	validateStrict      bool
	validateConcurrency int
)

var validateCmd = &cobra.Command{
	Use:   "validate [path...]",
	Short: "Check source files for clean code problems",
	Long: `Analyze files, directories or glob patterns against the rules of the project
configuration (.codecleaner.yaml, or built-in defaults).

The exit status is 1 when an error-severity violation is found or a file
could not be analyzed. With --strict, suggestions fail the run as well.`,
	Example: `  codecleaner validate
  codecleaner validate src/ --format json
  codecleaner validate 'src/**/*.cs' --format html --open
  codecleaner validate --watch`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "output format (text|json|html)")
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "", "write the report to a file instead of stdout")
	validateCmd.Flags().BoolVar(&validateOpen, "open", false, "write an HTML report to a temporary file and open it in the browser")
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false, "re-validate when files change")
	validateCmd.Flags().DurationVar(&validateDebounce, "debounce", validator.DefaultDebounce, "quiet period before a watch run")
	validateCmd.Flags().BoolVar(&validateMetrics, "metrics", false, "print run metrics in Prometheus text format to stderr")
	validateCmd.Flags().BoolVar(&validateUTF8, "utf8", false, "decode files without a byte order mark as UTF-8")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "exit non-zero on suggestions too")
	validateCmd.Flags().IntVarP(&validateConcurrency, "concurrency", "j", 0, "parallel units (0 = NumCPU/2, max 8)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(validateFormat)
	if err != nil {
		return err
	}
	if validateOpen {
		if validateWatch {
			return fmt.Errorf("--open cannot be combined with --watch")
		}
		format = report.FormatHTML
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if validateUTF8 {
		cfg.Encoding = config.EncodingUTF8
	}
	if validateConcurrency > 0 {
		cfg.Concurrency = validateConcurrency
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	opts := []validator.Option{validator.WithLogger(slog.Default())}
	var rec *metrics.Recorder
	if validateMetrics {
		rec = metrics.New()
		opts = append(opts, validator.WithMetrics(rec))
	}
	v := validator.New(cfg, opts...)

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	if validateWatch {
		return watch(ctx, v, paths, format, out, cmd.ErrOrStderr())
	}

	res, err := v.Validate(ctx, paths)
	if err != nil {
		return err
	}

	if err := emit(res, format, out, cmd.ErrOrStderr()); err != nil {
		return err
	}
	if rec != nil {
		if err := rec.WriteText(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	if failed(res, validateStrict) {
		return errFindings
	}
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// emit writes res to --output, a browser page or out.
func emit(res *validator.Result, format report.Format, out, status io.Writer) error {
	p := ui.NewPrinter(status)

	switch {
	case validateOpen:
		f, err := os.CreateTemp("", "codecleaner-*.html")
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		if err := report.Write(f, report.FormatHTML, res, report.Options{}); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write report file: %w", err)
		}
		p.OK(fmt.Sprintf("Report written to %s", f.Name()))
		if err := browser.OpenFile(f.Name()); err != nil {
			p.Warn(fmt.Sprintf("Failed to open browser: %v", err))
		}
		return nil

	case validateOutput != "":
		if dir := filepath.Dir(validateOutput); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.Create(validateOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", validateOutput, err)
		}
		defer func() { _ = f.Close() }()
		if err := report.Write(f, format, res, report.Options{}); err != nil {
			return err
		}
		p.OK(fmt.Sprintf("Report written to %s", validateOutput))
		return nil

	default:
		return report.Write(out, format, res, report.Options{Color: ui.IsTTY(out)})
	}
}

func watch(ctx context.Context, v *validator.Validator, paths []string, format report.Format, out, status io.Writer) error {
	p := ui.NewPrinter(status)
	p.Title("Watch", "Watching for changes (Ctrl+C to stop)")

	return v.Watch(ctx, paths, validateDebounce, func(res *validator.Result, err error) {
		if err != nil {
			if ctx.Err() == nil {
				p.Error(err.Error())
			}
			return
		}
		if err := emit(res, format, out, status); err != nil {
			p.Error(err.Error())
			return
		}
		if failed(res, validateStrict) {
			p.Warn(fmt.Sprintf("%d errors, %d suggestions", res.ErrorCount(), res.SuggestionCount()))
		} else {
			p.OK(fmt.Sprintf("%d files clean", res.Checked))
		}
	})
}

func failed(res *validator.Result, strict bool) bool {
	if res.ErrorCount() > 0 || len(res.Errors) > 0 {
		return true
	}
	return strict && res.SuggestionCount() > 0
}
