package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	findash "github.com/RxDataLab/go-findash"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: findash <command> [options]\n\n")
	fmt.Fprintf(os.Stderr, "Financial dashboard: news, company reports and the IPO calendar.\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve                     Run the HTTP dashboard\n")
	fmt.Fprintf(os.Stderr, "  report <SYMBOL>           Fetch and summarize a company report\n")
	fmt.Fprintf(os.Stderr, "  news                      Fetch news articles\n")
	fmt.Fprintf(os.Stderr, "  ipo -from D -to D         Fetch the IPO calendar\n")
	fmt.Fprintf(os.Stderr, "  overview                  Fetch general news and upcoming IPOs together\n")
	fmt.Fprintf(os.Stderr, "  metrics                   List the metric catalog\n")
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  findash report -window 3y -metrics revenue,netIncome AAPL\n")
	fmt.Fprintf(os.Stderr, "  findash news -category crypto\n")
	fmt.Fprintf(os.Stderr, "  findash ipo -from 2026-01-01 -to 2026-01-31 -o ipo.json\n")
	fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
	fmt.Fprintf(os.Stderr, "  FINDASH_NEWS_WEBHOOK_URL    News webhook\n")
	fmt.Fprintf(os.Stderr, "  FINDASH_REPORT_WEBHOOK_URL  Report webhook\n")
	fmt.Fprintf(os.Stderr, "  FINDASH_FINNHUB_TOKEN       Finnhub API key for the IPO calendar\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// commonFlags are accepted by every command
type commonFlags struct {
	configPath string
	outputPath string
}

func newFlagSet(name string, common *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&common.configPath, "config", "", "Config file (yaml, toml or json)")
	fs.StringVar(&common.outputPath, "output", "", "Output JSON file path (default: stdout)")
	fs.StringVar(&common.outputPath, "o", "", "Output JSON file path (shorthand)")
	return fs
}

func setup(common commonFlags) (findash.Config, *slog.Logger, *findash.Dashboard, error) {
	cfg, err := findash.LoadConfig(common.configPath)
	if err != nil {
		return findash.Config{}, nil, nil, err
	}
	logger, err := findash.NewLogger(cfg.Log)
	if err != nil {
		return findash.Config{}, nil, nil, err
	}
	return cfg, logger, findash.NewDashboard(cfg, logger), nil
}

func run(ctx context.Context, command string, args []string) error {
	var common commonFlags

	switch command {
	case "serve":
		fs := newFlagSet("serve", &common)
		addr := fs.String("addr", "", "Listen address (overrides listen_addr)")
		fs.Parse(args)

		cfg, logger, dash, err := setup(common)
		if err != nil {
			return err
		}
		if *addr != "" {
			cfg.ListenAddr = *addr
		}
		return findash.NewServer(cfg.ListenAddr, dash, logger).Run(ctx)

	case "report":
		fs := newFlagSet("report", &common)
		windowFlag := fs.String("window", "all", "Chart window: 1y, 3y, 5y or all")
		metricsFlag := fs.String("metrics", "", "Comma-separated metric keys to chart")
		save := fs.Bool("save", false, "Save JSON to SYMBOL_report.json")
		fs.Parse(args)
		if fs.NArg() < 1 {
			return fmt.Errorf("stock symbol required")
		}
		if *save && common.outputPath == "" {
			common.outputPath = findash.ReportFilename(fs.Arg(0), "json")
		}

		window, err := findash.ParseWindow(*windowFlag)
		if err != nil {
			return err
		}
		_, _, dash, err := setup(common)
		if err != nil {
			return err
		}
		var keys []string
		for _, key := range strings.Split(*metricsFlag, ",") {
			if key = strings.TrimSpace(key); key != "" {
				keys = append(keys, key)
			}
		}

		fmt.Fprintf(os.Stderr, "Fetching report for %s...\n", strings.ToUpper(fs.Arg(0)))
		report, err := dash.FetchReport(ctx, fs.Arg(0), "")
		if err != nil {
			return fmt.Errorf("failed to fetch report: %w", err)
		}
		series, err := dash.Chart(window, keys)
		if err != nil {
			return err
		}
		findash.WriteSummaryTable(os.Stderr, dash.Catalog, report)

		return emit(common.outputPath, map[string]any{
			"report": report,
			"window": window,
			"series": series,
		})

	case "news":
		fs := newFlagSet("news", &common)
		category := fs.String("category", "general", "general, forex, crypto or merger")
		minID := fs.String("min-id", "", "Only articles newer than this ID")
		fs.Parse(args)

		_, _, dash, err := setup(common)
		if err != nil {
			return err
		}
		articles, err := dash.FetchNews(ctx, findash.NewsQuery{Category: *category, MinID: *minID}, "")
		if err != nil {
			return fmt.Errorf("failed to fetch news: %w", err)
		}
		for _, a := range articles {
			published := "unknown"
			if t := a.Published(); !t.IsZero() {
				published = t.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(os.Stderr, "  [%s] %s (%s)\n", published, a.Headline, a.Source)
		}
		fmt.Fprintf(os.Stderr, "Fetched %d articles\n", len(articles))
		return emit(common.outputPath, articles)

	case "ipo":
		fs := newFlagSet("ipo", &common)
		from := fs.String("from", "", "Start date YYYY-MM-DD")
		to := fs.String("to", "", "End date YYYY-MM-DD")
		fs.Parse(args)

		_, _, dash, err := setup(common)
		if err != nil {
			return err
		}
		events, err := dash.FetchIPOs(ctx, findash.IPOQuery{From: *from, To: *to}, "")
		if err != nil {
			return fmt.Errorf("failed to fetch IPO calendar: %w", err)
		}
		writeIPOTable(os.Stderr, events)
		return emit(common.outputPath, events)

	case "overview":
		fs := newFlagSet("overview", &common)
		fs.Parse(args)

		_, _, dash, err := setup(common)
		if err != nil {
			return err
		}
		overview, err := dash.Overview(ctx)
		if err != nil {
			return err
		}
		if overview.NewsError != "" {
			fmt.Fprintf(os.Stderr, "Warning: news: %s\n", overview.NewsError)
		}
		if overview.IPOError != "" {
			fmt.Fprintf(os.Stderr, "Warning: ipo: %s\n", overview.IPOError)
		}
		return emit(common.outputPath, overview)

	case "metrics":
		fs := newFlagSet("metrics", &common)
		fs.Parse(args)
		return emit(common.outputPath, findash.DefaultCatalog().Definitions())

	case "-h", "--help", "help":
		usage()
		return nil
	}

	usage()
	return fmt.Errorf("unknown command %q", command)
}

func emit(outputPath string, v any) error {
	if outputPath != "" {
		if err := findash.SaveJSON(outputPath, v); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved JSON output: %s\n", outputPath)
		return nil
	}
	data, err := findash.FormatJSON(v)
	if err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func writeIPOTable(w io.Writer, events []findash.IPOEvent) {
	fmt.Fprintf(w, "%-10s %-8s %-32s %-10s %12s %16s %18s %-9s\n",
		"Date", "Symbol", "Name", "Exchange", "Price", "Shares", "Value", "Status")
	for _, e := range events {
		name := e.Name
		if runes := []rune(name); len(runes) > 32 {
			name = string(runes[:29]) + "..."
		}
		fmt.Fprintf(w, "%-10s %-8s %-32s %-10s %12s %16s %18s %-9s\n",
			e.Date, e.Symbol, name, e.Exchange,
			findash.FormatPrice(string(e.Price)),
			findash.FormatShares(e.NumberOfShares),
			findash.FormatWholeDollars(e.TotalSharesValue),
			e.Stage())
	}
	fmt.Fprintf(w, "%d offerings, generated %s\n", len(events), time.Now().Format(time.RFC3339))
}
