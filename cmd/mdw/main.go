package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"pkt.systems/mdw"
	"pkt.systems/mdw/internal/docspec"
	"pkt.systems/version"
)

func init() {
	version.SetDefaultModule("pkt.systems/mdw")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type cliConfig struct {
	format          string
	preset          string
	gfm             bool
	lenient         bool
	escape          bool
	hardBreakSpaces bool
	maxDepth        int
	listPresets     bool
	outPath         string
	verbose         bool
	showVersion     bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cfg cliConfig
	flags := pflag.NewFlagSet("mdw", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&cfg.format, "format", "f", "md", "Output format: md|html")
	flags.StringVarP(&cfg.preset, "preset", "p", "", "Options preset (overrides the description's options)")
	flags.BoolVar(&cfg.gfm, "gfm", false, "Enable GitHub Flavored Markdown features")
	flags.BoolVar(&cfg.lenient, "lenient", false, "Recover from invalid trees instead of failing")
	flags.BoolVar(&cfg.escape, "escape", false, "Escape special characters in text")
	flags.BoolVar(&cfg.hardBreakSpaces, "hard-break-spaces", false, "Render hard breaks as two trailing spaces")
	flags.IntVar(&cfg.maxDepth, "max-depth", mdw.DefaultMaxDepth, "Maximum tree depth (0 disables the limit)")
	flags.BoolVar(&cfg.listPresets, "list-presets", false, "List available presets")
	flags.StringVarP(&cfg.outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false, "Log recoveries and progress")
	flags.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")
	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: mdw [flags] [descriptions...]\n")
		fmt.Fprintln(stderr, "\nRenders YAML document descriptions as CommonMark or HTML.")
		fmt.Fprintln(stderr, "If no input is provided, a description is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}
	if cfg.showVersion {
		fmt.Fprintln(stdout, version.Module(), version.Current())
		return 0
	}
	if cfg.listPresets {
		for _, name := range mdw.AvailablePresets() {
			fmt.Fprintln(stdout, name)
		}
		return 0
	}

	logger := newLogger(stderr, cfg.verbose)
	format, err := mdw.ParseFormat(cfg.format)
	if err != nil {
		logger.WithError(err).Error("invalid --format")
		return 2
	}
	if cfg.preset != "" {
		if _, ok := mdw.PresetByName(cfg.preset); !ok {
			logger.Errorf("unknown preset %q; available: %s", cfg.preset, strings.Join(mdw.AvailablePresets(), ", "))
			return 2
		}
	}

	inputs := flags.Args()
	if len(inputs) == 0 && isTerminal(stdin) {
		flags.Usage()
		return 2
	}
	sources, err := openInputs(inputs, stdin)
	if err != nil {
		logger.WithError(err).Error("open input")
		return 1
	}

	writer, closeOut, err := resolveOutput(cfg.outPath, stdout)
	if err != nil {
		logger.WithError(err).Error("open output")
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	for i, src := range sources {
		log := logger.WithField("input", src.name)
		var out bytes.Buffer
		if err := renderSource(src, &out, format, cfg, flags, logger); err != nil {
			log.WithError(err).Error("render")
			return 1
		}
		// Separate consecutive Markdown documents by a blank line.
		if i > 0 && format == mdw.FormatCommonMark {
			if _, err := io.WriteString(writer, "\n"); err != nil {
				log.WithError(err).Error("write output")
				return 1
			}
		}
		if _, err := writer.Write(out.Bytes()); err != nil {
			log.WithError(err).Error("write output")
			return 1
		}
		log.Debug("rendered")
	}
	return 0
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func renderSource(src inputSource, w io.Writer, format mdw.Format, cfg cliConfig, flags *pflag.FlagSet, logger logrus.FieldLogger) error {
	raw, err := src.read()
	if err != nil {
		return err
	}
	if err := mdw.ValidateInput(raw); err != nil {
		return err
	}
	spec, err := docspec.Parse(raw)
	if err != nil {
		return err
	}
	opts := applyFlags(spec.Options, cfg, flags)
	if err := opts.Validate(); err != nil {
		return err
	}
	return spec.RenderWith(w, format, opts,
		mdw.WithLogger(logger.WithField("input", src.name)),
		mdw.WithMaxDepth(cfg.maxDepth),
	)
}

// applyFlags layers explicitly set flags over the description's options.
func applyFlags(opts mdw.Options, cfg cliConfig, flags *pflag.FlagSet) mdw.Options {
	if cfg.preset != "" {
		if p, ok := mdw.PresetByName(cfg.preset); ok {
			opts = p.Options()
		}
	}
	if flags.Changed("gfm") {
		if cfg.gfm {
			opts = opts.WithGFM()
		} else {
			opts.GFM.Enabled = false
		}
	}
	if flags.Changed("lenient") && cfg.lenient {
		opts = opts.WithLenient()
	}
	if flags.Changed("escape") {
		opts.EscapeSpecialChars = cfg.escape
	}
	if flags.Changed("hard-break-spaces") {
		opts.HardBreakSpaces = cfg.hardBreakSpaces
	}
	return opts
}

type inputSource struct {
	name string
	open func() (io.Reader, io.Closer, error)
}

func (s inputSource) read() ([]byte, error) {
	r, closer, err := s.open()
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	return io.ReadAll(r)
}

func openInputs(args []string, stdin io.Reader) ([]inputSource, error) {
	if len(args) == 0 {
		return []inputSource{{name: "-", open: func() (io.Reader, io.Closer, error) {
			return stdin, nil, nil
		}}}, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw, stdin)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func makeInputSource(raw string, stdin io.Reader) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	if raw == "-" {
		return inputSource{name: raw, open: func() (io.Reader, io.Closer, error) {
			return stdin, nil, nil
		}}, nil
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{name: raw, open: func() (io.Reader, io.Closer, error) {
				return openURL(raw)
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{name: raw, open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{name: raw, open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func openURL(raw string) (io.Reader, io.Closer, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, raw, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, resp.Body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(normalizePath(path))
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
