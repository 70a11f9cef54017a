package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"NewsVault/internal/app"
	"NewsVault/internal/config"
	"NewsVault/internal/domain"
	"NewsVault/internal/logging"
)

const usage = `usage: newsvault <command> [arguments]

commands:
  ingest <url>...          extract, summarize, classify, and store articles
  search [-n N] [-no-expand] <query>
                           semantic search over stored articles
  related [-n N] <query>   related search suggestions
  get <id>                 show one stored article
  list [-n N]              list stored articles
  delete <id>              delete one stored article
  reset                    destroy and recreate the article collection
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Init(ctx); err != nil {
		logger.Error("collection init failed", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, application, os.Args[1], os.Args[2:]); err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, application *app.Application, command string, args []string) error {
	switch command {
	case "ingest":
		return runIngest(ctx, application, args)
	case "search":
		return runSearch(ctx, application, args)
	case "related":
		return runRelated(ctx, application, args)
	case "get":
		return runGet(ctx, application, args)
	case "list":
		return runList(ctx, application, args)
	case "delete":
		return runDelete(ctx, application, args)
	case "reset":
		return application.Store().Reset(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runIngest(ctx context.Context, application *app.Application, urls []string) error {
	if len(urls) == 0 {
		return fmt.Errorf("ingest requires at least one url")
	}

	for _, url := range urls {
		result, err := application.Ingest(ctx, url)
		if err != nil {
			return err
		}

		if result.AlreadyProcessed {
			fmt.Printf("already processed: %s (doc %s)\n", url, result.DocID)
			continue
		}

		fmt.Printf("stored %q as %s\n", result.Article.Title, result.DocID)
		fmt.Printf("  summary: %s\n", result.Summary.Text)
		fmt.Printf("  topics: %s\n", strings.Join(result.Topics.Topics, ", "))
		fmt.Printf("  keywords: %s\n", strings.Join(result.Topics.Keywords, ", "))
	}
	return nil
}

func runSearch(ctx context.Context, application *app.Application, args []string) error {
	flags := flag.NewFlagSet("search", flag.ExitOnError)
	limit := flags.Int("n", 5, "maximum results")
	noExpand := flags.Bool("no-expand", false, "disable generative query expansion")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		return fmt.Errorf("search requires a query")
	}

	query := strings.Join(flags.Args(), " ")
	results, err := application.Searcher().Search(ctx, query, *limit, !*noExpand)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}

	for i, result := range results {
		fmt.Printf("%d. %s\n", i+1, result.Title)
		if result.RelevancePercentage != nil {
			fmt.Printf("   relevance: %d%%\n", *result.RelevancePercentage)
		}
		fmt.Printf("   %s\n", result.Summary)
		fmt.Printf("   topics: %s\n", strings.Join(result.Topics, ", "))
	}
	return nil
}

func runRelated(ctx context.Context, application *app.Application, args []string) error {
	flags := flag.NewFlagSet("related", flag.ExitOnError)
	count := flags.Int("n", 3, "number of suggestions")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		return fmt.Errorf("related requires a query")
	}

	suggestions, err := application.Searcher().RelatedSearches(ctx, strings.Join(flags.Args(), " "), *count)
	if err != nil {
		return err
	}

	for i, suggestion := range suggestions {
		fmt.Printf("%d. %s\n", i+1, suggestion)
	}
	return nil
}

func runGet(ctx context.Context, application *app.Application, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("get requires exactly one id")
	}

	result, err := application.Store().GetByID(ctx, args[0])
	if err != nil {
		return err
	}
	if result == nil {
		fmt.Printf("no article with id %s\n", args[0])
		return nil
	}

	printResult(*result)
	return nil
}

func runList(ctx context.Context, application *app.Application, args []string) error {
	flags := flag.NewFlagSet("list", flag.ExitOnError)
	limit := flags.Int("n", 100, "maximum articles")
	if err := flags.Parse(args); err != nil {
		return err
	}

	articles, err := application.Store().List(ctx, *limit)
	if err != nil {
		return err
	}

	fmt.Printf("%d stored article(s)\n", len(articles))
	for i, article := range articles {
		fmt.Printf("%d. %s (id %s)\n", i+1, article.Title, article.ID)
		fmt.Printf("   topics: %s\n", strings.Join(article.Topics, ", "))
	}
	return nil
}

func runDelete(ctx context.Context, application *app.Application, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("delete requires exactly one id")
	}
	return application.Store().Delete(ctx, args[0])
}

func printResult(result domain.SearchResult) {
	fmt.Printf("id: %s\n", result.ID)
	fmt.Printf("url: %s\n", result.URL)
	fmt.Printf("title: %s\n", result.Title)
	fmt.Printf("summary: %s\n", result.Summary)
	fmt.Printf("topics: %s\n", strings.Join(result.Topics, ", "))
	fmt.Printf("keywords: %s\n", strings.Join(result.Keywords, ", "))
}
