package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go2web/go2web/internal/app"
)

func usage() {
	fmt.Fprint(os.Stderr, `Usage:
  go2web -u <URL>         Fetch the URL and print its readable text
  go2web -s <term...>     Search the term and show the top 10 results
  go2web -h               Show this help message
  go2web                  Interactive menu

Options:
  -cache.dir <path>       Cache directory (default .go2web-cache)
  -cache.ttl <dur>        Cache entry lifetime (default 10m)
  -no-cache               Bypass the cache entirely
  -timeout <dur>          Per-connection timeout (default 15s)
  -max.hops <n>           Redirect hop limit (default 10)
  -ua <string>            User-Agent header value
  -pdf <path>             Additionally write the fetched page as PDF
  -summarize              Summarize the fetched page with the configured model
  -llm.base / -llm.model / -llm.key
                          OpenAI-compatible endpoint for -summarize
  -config <file>          YAML/JSON config file (flags win over the file)
  -v                      Verbose logging
`)
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		urlArg     string
		searchArg  string
		showHelp   bool
		configPath string
		cacheDir   string
		cacheTTL   time.Duration
		noCache    bool
		timeout    time.Duration
		maxHops    int
		userAgent  string
		pdfPath    string
		summarize  bool
		llmBase    string
		llmModel   string
		llmKey     string
		verbose    bool
	)

	flag.StringVar(&urlArg, "u", "", "URL to fetch")
	flag.StringVar(&searchArg, "s", "", "Search term (remaining arguments are appended)")
	flag.BoolVar(&showHelp, "h", false, "Show help")
	flag.StringVar(&configPath, "config", "", "Path to YAML/JSON config file")
	flag.StringVar(&cacheDir, "cache.dir", ".go2web-cache", "Cache directory path")
	flag.DurationVar(&cacheTTL, "cache.ttl", 10*time.Minute, "Cache entry lifetime")
	flag.BoolVar(&noCache, "no-cache", false, "Bypass the cache")
	flag.DurationVar(&timeout, "timeout", 15*time.Second, "Per-connection timeout")
	flag.IntVar(&maxHops, "max.hops", 10, "Redirect hop limit")
	flag.StringVar(&userAgent, "ua", "Mozilla/5.0 (compatible; go2web/1.0)", "User-Agent header value")
	flag.StringVar(&pdfPath, "pdf", "", "Write the fetched page to this PDF path")
	flag.BoolVar(&summarize, "summarize", false, "Summarize the fetched page with the configured model")
	flag.StringVar(&llmBase, "llm.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL")
	flag.StringVar(&llmModel, "llm.model", os.Getenv("LLM_MODEL"), "Model name")
	flag.StringVar(&llmKey, "llm.key", os.Getenv("LLM_API_KEY"), "API key for the OpenAI-compatible server")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Usage = usage
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if showHelp {
		usage()
		return
	}

	cfg := app.Config{
		UserAgent:  userAgent,
		Timeout:    timeout,
		MaxHops:    maxHops,
		CacheDir:   cacheDir,
		CacheTTL:   cacheTTL,
		NoCache:    noCache,
		PDFPath:    pdfPath,
		Summarize:  summarize,
		LLMBaseURL: llmBase,
		LLMModel:   llmModel,
		LLMAPIKey:  llmKey,
		Verbose:    verbose,
	}
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("cannot read config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	a := app.New(cfg, log.Logger)
	ctx := context.Background()

	switch {
	case urlArg != "":
		if err := runFetch(ctx, a, cfg, urlArg); err != nil {
			log.Error().Err(err).Msg("fetch failed")
			os.Exit(1)
		}
	case searchArg != "":
		query := strings.TrimSpace(searchArg + " " + strings.Join(flag.Args(), " "))
		if err := runSearch(ctx, a, query); err != nil {
			log.Error().Err(err).Msg("search failed")
			os.Exit(1)
		}
	default:
		if flag.NArg() > 0 {
			fmt.Fprintln(os.Stderr, "Invalid command. Use -h for help.")
			os.Exit(1)
		}
		runInteractive(ctx, a, cfg)
	}
}

func runFetch(ctx context.Context, a *app.App, cfg app.Config, rawURL string) error {
	page, err := a.FetchURL(ctx, rawURL)
	if err != nil {
		return err
	}
	printPage(page)

	if cfg.PDFPath != "" {
		if err := app.WritePDF(page, cfg.PDFPath); err != nil {
			log.Warn().Err(err).Str("path", cfg.PDFPath).Msg("pdf output failed")
		} else {
			log.Info().Str("path", cfg.PDFPath).Msg("wrote pdf")
		}
	}
	if cfg.Summarize {
		s, err := a.Summarize(ctx, page)
		if err != nil {
			log.Warn().Err(err).Msg("summary failed")
		} else {
			fmt.Println("\n--- summary ---")
			fmt.Println(s)
		}
	}
	return nil
}

func printPage(page app.Page) {
	if page.Title != "" {
		fmt.Println(page.Title)
		fmt.Println(strings.Repeat("=", len(page.Title)))
	}
	fmt.Println(page.Text)
}

func runSearch(ctx context.Context, a *app.App, query string) error {
	results, err := a.Search(ctx, query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for i, r := range results {
		if r.Title != "" && r.Title != r.URL {
			fmt.Printf("%2d. %s\n    %s\n", i+1, r.Title, r.URL)
		} else {
			fmt.Printf("%2d. %s\n", i+1, r.URL)
		}
	}
	return nil
}

func runInteractive(ctx context.Context, a *app.App, cfg app.Config) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Println("\n=== go2web ===")
		fmt.Println("1. Fetch a webpage")
		fmt.Println("2. Search the web")
		fmt.Println("h. Show help")
		fmt.Println("q. Exit")
		fmt.Print("Enter your choice: ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "1":
			fmt.Print("Enter URL: ")
			if !scanner.Scan() {
				return
			}
			if u := strings.TrimSpace(scanner.Text()); u != "" {
				if err := runFetch(ctx, a, cfg, u); err != nil {
					log.Error().Err(err).Msg("fetch failed")
				}
			}
		case "2":
			fmt.Print("Enter search term: ")
			if !scanner.Scan() {
				return
			}
			if q := strings.TrimSpace(scanner.Text()); q != "" {
				if err := runSearch(ctx, a, q); err != nil {
					log.Error().Err(err).Msg("search failed")
				}
			}
		case "h":
			usage()
		case "q":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid choice. Try again.")
		}
	}
}
