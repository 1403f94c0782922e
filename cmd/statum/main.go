package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	statuminternal "github.com/eboody/statum/internal/statum"
)

var Version = "dev"

var (
	_          = flag.String("b", "", "comma-separated build tags")
	_          = flag.Bool("t", false, "include tests")
	_          = flag.String("o", "statum_gen.go", "output file name")
	_          = flag.String("c", "auto", "colorize (auto|always|never)")
	_          = flag.Bool("v", false, "log what statum does")
	wFlag      = flag.Bool("w", false, "watch the packages and regenerate on changes")
	configFlag = flag.String("config", "", "config file (default "+configFile+" if present)")
)

func init() {
	statuminternal.Version = Version
}

func main() {
	flag.Parse()

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := loadConfig(wd, *configFlag, env.ToMap(os.Environ()))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.override(flag.CommandLine)
	if err := cfg.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	color := cfg.Color == "always" || (cfg.Color == "auto" && isatty())
	logger := newLogger(cfg.Verbose, color)
	ctx := logger.WithContext(context.Background())

	if *wFlag {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := watch(ctx, wd, cfg, flag.Args(), color); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if !generate(ctx, wd, cfg, flag.Args(), color) {
		os.Exit(1)
	}
}

// newLogger creates a console logger on stderr. Verbose mode shows how
// statum loads and generates packages.
func newLogger(verbose, color bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !color, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// generate runs statum once and writes the generated files. Errors are
// printed to stderr. It reports whether statum succeeded.
func generate(ctx context.Context, wd string, cfg Config, patterns []string, color bool) bool {
	outs, err := statuminternal.Main(ctx, wd, os.Environ(), cfg.Tags, cfg.Tests, cfg.Output, patterns)
	if err != nil {
		message := err.Error()
		if color {
			message = colorize(message)
		}
		fmt.Fprintln(os.Stderr, message)
		return false
	}

	for out, code := range outs {
		if !filepath.IsAbs(out) {
			out = filepath.Join(wd, out)
		}
		if err := writeFile(ctx, out, code); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return false
		}

		if relOut, err := filepath.Rel(wd, out); err == nil {
			out = relOut
		}
		fmt.Println("Generated:", out)
	}
	return true
}

// writeFile replaces the file atomically, so that a running build or an
// editor never reads a half-written file.
func writeFile(ctx context.Context, path string, code []byte) error {
	f, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if err := f.Cleanup(); err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("cleanup pending file")
		}
	}()

	if _, err := f.Write(code); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// isatty reports whether the program is running in a terminal. If it is true,
// we can use ANSI color codes.
func isatty() bool {
	_, err := unix.IoctlGetWinsize(int(os.Stderr.Fd()), unix.TIOCGWINSZ)
	return err == nil
}

var (
	reRow  = regexp.MustCompile(`(?m)^(ok|FAIL):.*`)
	reFail = regexp.MustCompile(`^FAIL:`)
)

// colorize adds ANSI color codes to the rows of match tables in the message.
func colorize(message string) string {
	const (
		red   = "\033[31m"
		dim   = "\033[2m"
		reset = "\033[0m"
	)
	m := []byte(message)
	m = reRow.ReplaceAllFunc(m, func(b []byte) []byte {
		if reFail.Match(b) {
			return []byte(red + string(b) + reset)
		}
		return []byte(dim + string(b) + reset)
	})
	return string(m)
}
