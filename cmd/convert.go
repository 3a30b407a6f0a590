// The convert command runs the pipeline for one source or a crawled space:
// read/fetch → extract → normalize → render → write.

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/clip2md/core"
	"github.com/gaurav-prasanna/clip2md/core/extract"
	"github.com/gaurav-prasanna/clip2md/core/fetch"
	"github.com/gaurav-prasanna/clip2md/core/normalize"
	"github.com/gaurav-prasanna/clip2md/core/output"
	"github.com/gaurav-prasanna/clip2md/core/render"
	"github.com/gaurav-prasanna/clip2md/crawl"
)

// Flag variables.
var (
	flagAll          bool
	flagPDF          bool
	flagMarkdown     bool
	flagJSON         bool
	flagJQ           string
	flagFrontMatter  bool
	flagRaw          bool
	flagStdout       bool
	flagOutputDir    string
	flagHeadingStyle string
	flagBullet       string
	flagMaxPages     int
	flagConcurrency  int
	flagIgnoreRobots bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <file|url|->",
	Short: "Convert an HTML file, page URL or stdin to the selected format",
	Long: `Convert reads HTML from a file, a URL or stdin ("-"), keeps the page's content
container, converts it to Markdown and writes it in the selected format
(Markdown by default, JSON or PDF).

Examples:
  pbpaste | clip2md convert - --stdout
  clip2md convert export.html --json --jq '.structure.tasks'
  clip2md convert https://wiki.example.com/wiki/spaces/ENG/overview --all --output_dir ./eng`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	f := convertCmd.Flags()
	f.BoolVar(&flagAll, "all", false, "Also convert linked pages under the same path (URL sources only)")

	f.BoolVar(&flagMarkdown, "markdown", false, "Output Markdown (default)")
	f.BoolVar(&flagJSON, "json", false, "Output a JSON structure report")
	f.BoolVar(&flagPDF, "pdf", false, "Output PDF")
	f.StringVar(&flagJQ, "jq", "", "jq expression applied to the JSON report (requires --json)")
	f.BoolVar(&flagFrontMatter, "front_matter", false, "Prefix Markdown output with YAML front matter")

	f.BoolVar(&flagRaw, "raw", false, "Convert the input as-is, without extracting the content container")
	f.BoolVar(&flagStdout, "stdout", false, "Write the result to stdout instead of a file")
	f.StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")

	f.StringVar(&flagHeadingStyle, "heading_style", "", "Heading style: atx or setext (overrides config)")
	f.StringVar(&flagBullet, "bullet", "", "Bullet list marker: -, * or + (overrides config)")

	f.IntVar(&flagMaxPages, "max_pages", 0, "Maximum pages to convert with --all (overrides config)")
	f.IntVar(&flagConcurrency, "concurrency", 0, "Parallel conversions with --all (overrides config)")
	f.BoolVar(&flagIgnoreRobots, "ignore_robots", false, "Do not honor robots.txt with --all")
}

// pipeline bundles the stages shared by every document of a run.
type pipeline struct {
	extractor  core.Extractor
	normalizer core.Normalizer
	renderer   core.Renderer
	raw        bool
}

func runConvert(cmd *cobra.Command, args []string) error {
	source := args[0]

	if err := validateFlags(source); err != nil {
		return err
	}
	applyOverrides(cmd)
	if err := conf.Validate(); err != nil {
		return err
	}

	renderer, err := selectRenderer()
	if err != nil {
		return err
	}
	p := &pipeline{
		extractor:  extract.New(),
		normalizer: normalize.New(nil, conf.Options),
		renderer:   renderer,
		raw:        flagRaw,
	}

	// Progress lines go to stderr when stdout carries the document.
	progress := cmd.OutOrStdout()
	if flagStdout {
		progress = cmd.ErrOrStderr()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	fetcher := fetch.New(fetch.WithUserAgent(conf.Crawl.UserAgent))

	if flagAll {
		writer, err := output.New(flagOutputDir)
		if err != nil {
			return fmt.Errorf("initializing output writer: %w", err)
		}
		return runAll(ctx, source, fetcher, p, writer, progress)
	}

	html, err := readSource(ctx, source, cmd.InOrStdin(), fetcher)
	if err != nil {
		return err
	}
	data, err := p.process(source, html)
	if err != nil {
		return err
	}

	if flagStdout {
		return output.WriteTo(cmd.OutOrStdout(), data)
	}
	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	path, err := writer.WriteSource(source, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(progress, "✓ Written: %s\n", path)
	return nil
}

// runAll crawls from startURL and converts every page in parallel.
func runAll(
	ctx context.Context,
	startURL string,
	fetcher *fetch.HTTPFetcher,
	p *pipeline,
	writer *output.Writer,
	progress io.Writer,
) error {
	progress = &lockedWriter{w: progress}
	fmt.Fprintf(progress, "Discovering pages from %s...\n", startURL)

	crawler := crawl.New(fetcher,
		crawl.WithMaxPages(conf.Crawl.MaxPages),
		crawl.WithUserAgent(conf.Crawl.UserAgent),
		crawl.WithHTTPClient(fetcher.Client()),
		crawl.IgnoreRobots(conf.Crawl.IgnoreRobots),
	)
	pages, err := crawler.Discover(ctx, startURL)
	if err != nil {
		return fmt.Errorf("discovering pages: %w", err)
	}
	fmt.Fprintf(progress, "Found %d pages to process\n", len(pages))

	var failed atomic.Int32
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(conf.Crawl.Concurrency)
	for i, page := range pages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := p.process(page.URL, page.HTML)
			if err != nil {
				fmt.Fprintf(progress, "  ✗ [%d/%d] %s: %v\n", i+1, len(pages), page.URL, err)
				failed.Add(1)
				return nil
			}
			path, err := writer.WriteMirrored(page.URL, data, p.renderer.Extension())
			if err != nil {
				fmt.Fprintf(progress, "  ✗ [%d/%d] write error: %v\n", i+1, len(pages), err)
				failed.Add(1)
				return nil
			}
			fmt.Fprintf(progress, "  ✓ [%d/%d] Written: %s\n", i+1, len(pages), path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d/%d pages failed", n, len(pages))
	}
	return nil
}

// lockedWriter serializes progress lines written by parallel workers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// process runs one HTML document through extract, normalize and render.
func (p *pipeline) process(source, html string) ([]byte, error) {
	content := html
	if !p.raw {
		extracted, err := p.extractor.Extract(html)
		if err != nil {
			return nil, fmt.Errorf("extract: %w", err)
		}
		content = extracted
	}

	start := time.Now()
	markdown, err := p.normalizer.Normalize(content)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	slog.Debug("converted", "source", source, "html_bytes", len(content), "markdown_bytes", len(markdown), "elapsed", time.Since(start))

	data, err := p.renderer.Render(markdown, buildMetadata(source, html))
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return data, nil
}

// readSource loads HTML from stdin, a URL or a file.
func readSource(ctx context.Context, source string, stdin io.Reader, fetcher core.Fetcher) (string, error) {
	if source == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	if isURL(source) {
		result, err := fetcher.Fetch(ctx, source)
		if err != nil {
			return "", fmt.Errorf("fetch: %w", err)
		}
		return result.HTML, nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", source, err)
	}
	return string(data), nil
}

func isURL(source string) bool {
	parsed, err := url.Parse(source)
	return err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// buildMetadata constructs PageMetadata from the source and raw HTML.
func buildMetadata(source, html string) core.PageMetadata {
	if source == "-" {
		source = output.StdinSource
	}
	return core.PageMetadata{
		Source:      source,
		Title:       extract.Title(html),
		Language:    extract.Language(html),
		ConvertedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// applyOverrides copies explicitly set flags over the loaded config.
func applyOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("heading_style") {
		conf.Options.HeadingStyle = flagHeadingStyle
	}
	if flags.Changed("bullet") {
		conf.Options.BulletListMarker = flagBullet
	}
	if flags.Changed("max_pages") {
		conf.Crawl.MaxPages = flagMaxPages
	}
	if flags.Changed("concurrency") {
		conf.Crawl.Concurrency = flagConcurrency
	}
	if flags.Changed("ignore_robots") {
		conf.Crawl.IgnoreRobots = flagIgnoreRobots
	}
}

// validateFlags checks that at most one output format is chosen and that
// the mode flags fit the source.
func validateFlags(source string) error {
	formatCount := 0
	for _, set := range []bool{flagMarkdown, flagJSON, flagPDF} {
		if set {
			formatCount++
		}
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}
	if flagJQ != "" && !flagJSON {
		return fmt.Errorf("--jq requires --json")
	}
	if flagFrontMatter && (flagJSON || flagPDF) {
		return fmt.Errorf("--front_matter applies to Markdown output only")
	}
	if flagAll {
		if !isURL(source) {
			return fmt.Errorf("--all requires an http(s) URL, got %q", source)
		}
		if flagStdout {
			return fmt.Errorf("--all and --stdout are mutually exclusive")
		}
	}
	return nil
}

// selectRenderer creates the Renderer chosen by the flags.
func selectRenderer() (core.Renderer, error) {
	switch {
	case flagJSON:
		return render.NewJSONRenderer(flagJQ)
	case flagPDF:
		return render.NewPDFRenderer(), nil
	default:
		return render.NewMarkdownRenderer(flagFrontMatter), nil
	}
}
