package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/rgonek/md2confluence/confluence"
	"github.com/rgonek/md2confluence/internal/config"
	"github.com/rgonek/md2confluence/internal/logging"
	"github.com/rgonek/md2confluence/mdconverter"
	"github.com/rgonek/md2confluence/metadata"
	"github.com/rgonek/md2confluence/page"
)

const defaultComment = "uploaded by md2confluence"

type options struct {
	configPath    string
	dryRun        bool
	noAttachments bool
	logLevel      string
	logFormat     string
	comment       string
	noTOC         bool
	noEditWarning bool
}

// app carries the process dependencies so runs can be driven from tests.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	getenv     func(string) string
	httpClient *http.Client
	newLogger  func(logging.Config) (logging.Logger, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
		newLogger: func(cfg logging.Config) (logging.Logger, error) {
			return logging.New(cfg, "md2confluence")
		},
	}
	code := a.run(ctx, os.Args[1:])

	stop()
	os.Exit(code)
}

func (a *app) parseFlags(args []string) (options, []string, *pflag.FlagSet, error) {
	flags := pflag.NewFlagSet("md2confluence", pflag.ContinueOnError)
	flags.SetOutput(a.stderr)

	var opts options
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML settings file")
	flags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "Print the page markup instead of publishing it")
	flags.BoolVar(&opts.noAttachments, "no-attachments", false, "Do not upload referenced images")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: trace|debug|info|warn|error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: console|json|pretty")
	flags.StringVar(&opts.comment, "comment", defaultComment, "Comment stored with uploaded attachments")
	flags.BoolVar(&opts.noTOC, "no-toc", false, "Omit the table of contents")
	flags.BoolVar(&opts.noEditWarning, "no-edit-warning", false, "Omit the edit warning")
	flags.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: md2confluence [options] <input-file>\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return options{}, nil, flags, err
	}
	return opts, flags.Args(), flags, nil
}

func (o options) apply(settings *config.Settings, flags *pflag.FlagSet) {
	if flags.Changed("log-level") {
		settings.Log.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		settings.Log.Format = o.logFormat
	}
	if o.noTOC {
		settings.Page.OmitTOC = true
	}
	if o.noEditWarning {
		settings.Page.OmitEditWarning = true
	}
}

func (a *app) run(ctx context.Context, args []string) int {
	opts, rest, flags, err := a.parseFlags(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}
	if len(rest) != 1 {
		flags.Usage()
		return 1
	}
	inputFile := rest[0]

	settings, err := config.Load(opts.configPath, a.getenv)
	if err != nil {
		fmt.Fprintf(a.stderr, "Invalid config: %v\n", err)
		return 1
	}
	opts.apply(&settings, flags)
	if err := settings.Validate(!opts.dryRun); err != nil {
		fmt.Fprintf(a.stderr, "Invalid config: %v\n", err)
		return 1
	}

	logger, err := a.newLogger(settings.LoggingConfig())
	if err != nil {
		fmt.Fprintf(a.stderr, "Invalid config: %v\n", err)
		return 1
	}
	if opts.dryRun {
		// stdout carries the page markup.
		logger = logging.NoOp()
	}

	data, err := os.ReadFile(inputFile)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error reading file: %v\n", err)
		return 1
	}

	meta, body, err := metadata.Parse(normalizeNewlines(string(data)))
	if err != nil {
		fmt.Fprintf(a.stderr, "Invalid metadata: %v\n", err)
		return 1
	}
	info, err := meta.PageInfo()
	if err != nil && !opts.dryRun {
		fmt.Fprintf(a.stderr, "Invalid metadata: %v\n", err)
		return 1
	}

	conv, err := mdconverter.New(settings.MarkdownConfig())
	if err != nil {
		fmt.Fprintf(a.stderr, "Invalid config: %v\n", err)
		return 1
	}
	result, err := conv.Convert(body)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error converting file: %v\n", err)
		return 1
	}
	for _, warning := range result.Warnings {
		if opts.dryRun {
			fmt.Fprintf(a.stderr, "Warning: %s (%s): %s\n", warning.Type, warning.NodeType, warning.Message)
			continue
		}
		logger.Warn("conversion warning", "type", string(warning.Type), "node", warning.NodeType, "message", warning.Message)
	}

	markup, attachments := page.NewAssembler(settings.PageConfig()).Assemble(result.Markup)
	if opts.dryRun {
		fmt.Fprint(a.stdout, markup)
		return 0
	}

	clientCfg := settings.ClientConfig(logger.WithFields(map[string]any{"page_id": info.ID}))
	clientCfg.HTTPClient = a.httpClient
	client, err := confluence.New(clientCfg)
	if err != nil {
		fmt.Fprintf(a.stderr, "Invalid config: %v\n", err)
		return 1
	}

	published, err := client.PublishPage(ctx, confluence.PageTarget{
		ID:    info.ID,
		Title: info.Title,
		Space: info.Space,
	}, markup)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error updating page: %v\n", err)
		return 1
	}
	fmt.Fprintf(a.stdout, "Updated page %s to version %d: %s\n", published.PageID, published.Version, published.Link)

	if opts.noAttachments || len(attachments) == 0 {
		return 0
	}

	paths := resolveAttachments(filepath.Dir(inputFile), attachments)
	logger.Info("uploading attachments", "count", len(paths))
	if err := client.UploadAttachments(ctx, info.ID, paths, opts.comment); err != nil {
		fmt.Fprintf(a.stderr, "Error uploading attachments: %v\n", err)
		return 1
	}

	return 0
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// resolveAttachments maps attachment references to local paths relative to
// the document directory. Each file is uploaded once.
func resolveAttachments(dir string, names []string) []string {
	seen := make(map[string]struct{}, len(names))
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.FromSlash(name)
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}
	return paths
}
