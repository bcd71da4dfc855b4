package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/genai"

	"github.com/fwojciec/repub"
	"github.com/fwojciec/repub/fs"
	"github.com/fwojciec/repub/gemini"
	"github.com/fwojciec/repub/goquery"
	"github.com/fwojciec/repub/htmltomarkdown"
	repubhttp "github.com/fwojciec/repub/http"
	"github.com/fwojciec/repub/ingest"
	"github.com/fwojciec/repub/jsonstore"
	"github.com/fwojciec/repub/metrics"
	"github.com/fwojciec/repub/pdf"
	"github.com/fwojciec/repub/readability"
	"github.com/fwojciec/repub/rod"
	"github.com/fwojciec/repub/safeurl"
	repubslog "github.com/fwojciec/repub/slog"
	"github.com/fwojciec/repub/site"
	"github.com/fwojciec/repub/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Data directory holding the record store and the generated site.
	// Set before calling Run().
	DataDir string

	// Services for end-to-end testing.
	ArticleService repub.ArticleService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DataDir: defaultDataDir(),
	}
}

// imageRPS bounds image downloads per remote host.
const imageRPS = 2.0

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	_ = godotenv.Load()

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("repub"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'repub --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel(),
	}))

	siteDir := filepath.Join(m.DataDir, "site")
	mediaDir := filepath.Join(siteDir, repub.MediaRoot)
	uploadDir := filepath.Join(siteDir, repub.UploadRoot)
	for _, dir := range []string{mediaDir, uploadDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(stderr, "Hint: Set REPUB_DATA to use a different data path\n")
			return fmt.Errorf("failed to prepare data directory %q: %w", m.DataDir, err)
		}
	}

	// Wire core services into dependencies
	m.ArticleService = repubslog.NewLoggingArticleService(
		jsonstore.NewStore(filepath.Join(m.DataDir, "articles.json")), logger)
	deps.Articles = m.ArticleService
	deps.Media = fs.NewMediaStore(mediaDir)
	deps.Site = site.NewBuilder(siteDir,
		site.WithBaseURL(os.Getenv("REPUB_BASE_URL")),
		site.WithConverter(htmltomarkdown.NewConverter()),
	)

	var localizer repub.Localizer = goquery.NewLocalizer(
		safeurl.NewFetcher(repub.RemoteMediaHosts,
			safeurl.WithLimiter(safeurl.NewDomainLimiter(imageRPS)),
		),
		deps.Media,
	)
	localizer = repubslog.NewLoggingLocalizer(localizer, logger)

	if cmd == "serve" {
		registry := prometheus.NewRegistry()
		deps.Metrics = metrics.NewCollector(registry)
		deps.Registry = registry
		localizer = metrics.NewInstrumentedLocalizer(localizer, deps.Metrics)
	}

	deps.Pipeline = &ingest.Pipeline{
		Articles:  deps.Articles,
		Localizer: localizer,
		Documents: &pdf.Reader{},
		SiteDir:   siteDir,
		UploadDir: uploadDir,
		Logger:    logger,
	}

	// Wire command-specific dependencies based on command
	if cmd == "ingest" || cmd == "serve" {
		extractorName := cli.Ingest.Extractor
		useBrowser := cli.Ingest.Browser
		if cmd == "serve" {
			extractorName = cli.Serve.Extractor
			useBrowser = cli.Serve.Browser
		}
		deps.Pipeline.Extractor = newExtractor(extractorName)
		deps.Pipeline.Fetcher = repubslog.NewLoggingFetcher(repubhttp.NewFetcher(), logger)
		defer deps.Pipeline.Fetcher.Close()

		if useBrowser {
			browser, err := rod.NewFetcher()
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			defer browser.Close()
			deps.Pipeline.Browser = repubslog.NewLoggingFetcher(browser, logger)
		}
	}

	if cmd == "import" || cmd == "serve" {
		if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
			client, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  apiKey,
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
				return fmt.Errorf("failed to connect to Gemini API: %w", err)
			}
			deps.Pipeline.Commentator = gemini.NewCommentator(client)
		} else {
			logger.Info("GEMINI_API_KEY not set, PDF commentary uses the templated fallback")
		}
	}

	return kongCtx.Run(deps)
}

// newExtractor maps an extractor name to its implementation. The default
// understands the platform's article markup; the other two are generic.
func newExtractor(name string) repub.Extractor {
	switch name {
	case "readability":
		return readability.NewExtractor()
	case "trafilatura":
		return trafilatura.NewExtractor()
	default:
		return goquery.NewExtractor()
	}
}

func logLevel() slog.Level {
	if strings.EqualFold(os.Getenv("REPUB_LOG_LEVEL"), "debug") {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func defaultDataDir() string {
	if path := os.Getenv("REPUB_DATA"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(home, ".repub")
}
