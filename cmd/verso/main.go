// Package main is the verso CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/verso/internal/cli"
	"github.com/hyperjump/verso/internal/config"
	"github.com/hyperjump/verso/internal/location"
	"github.com/hyperjump/verso/internal/models"
	"github.com/hyperjump/verso/internal/server"
	"github.com/hyperjump/verso/internal/watcher"
	"github.com/hyperjump/verso/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/verso/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// A missing default config yields the built-in defaults.
// Returns the config and the path that was actually loaded (for saving, etc.).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, path, nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "read":
		runRead(os.Args[2:])
	case "ref":
		runRef(os.Args[2:])
	case "search", "s":
		runSearch(os.Args[2:])
	case "index":
		runIndex(os.Args[2:])
	case "server":
		runServer(os.Args[2:])
	case "status":
		runStatus(os.Args[2:])
	case "translation":
		runTranslation(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("verso version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		// "verso john 3:16" reads without naming the command.
		runRead(os.Args[1:])
	}
}

// fail prints err, with a book suggestion when one applies, and exits.
func fail(err error) {
	fmt.Fprintln(os.Stderr, cli.Describe(err))
	os.Exit(1)
}

// setup loads config, creates the logger and initializes the components a
// command needs. The caller must Sync the logger and Close the components.
func setup(configPath string, debug bool, b backend) (*Components, *zap.Logger) {
	cfg, resolvedConfigPath, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debug
	logger, err := utils.NewLogger(debugMode, "verso")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)
	components, err := initializeComponents(cfg, logger, debugMode, b)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	return components, logger
}

func parseFormat(s string) cli.OutputFormat {
	format, err := cli.ParseOutputFormat(s)
	if err != nil {
		fail(err)
	}
	return format
}

func runRead(args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	translation := fs.String("translation", "", "translation to read (default from config)")
	links := fs.Bool("links", false, "print reference URLs")
	outputFormat := fs.String("format", "text", "output format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: verso [read] [flags] <book> [chapter[:verse[-verse]]]\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(searchArgsReorder(args))

	text := buildSearchQuery(fs.Args())
	if text == "" {
		fs.Usage()
		os.Exit(1)
	}
	p, err := location.ParseScope(text)
	if err != nil {
		fail(err)
	}
	format := parseFormat(*outputFormat)

	components, logger := setup(*configPath, false, backendLookup)
	defer logger.Sync()
	defer components.Close()
	printPassage(components, *translation, p, cli.Options{Format: format, Links: *links})
}

func runRef(args []string) {
	fs := flag.NewFlagSet("ref", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	translation := fs.String("translation", "", "translation to read (default from config)")
	links := fs.Bool("links", false, "print reference URLs")
	outputFormat := fs.String("format", "text", "output format: text or json")
	_ = fs.Parse(searchArgsReorder(args))

	if fs.NArg() != 1 {
		fmt.Println("Usage: verso ref [flags] <book>.<chapter>:<verse>")
		os.Exit(1)
	}
	addr, err := location.ParseReference(fs.Arg(0))
	if err != nil {
		fail(err)
	}
	format := parseFormat(*outputFormat)

	components, logger := setup(*configPath, false, backendLookup)
	defer logger.Sync()
	defer components.Close()
	printPassage(components, *translation, addr.Partial(), cli.Options{Format: format, Links: *links})
}

func printPassage(components *Components, translation string, p location.PartialAddress, opts cli.Options) {
	if translation == "" {
		translation = components.Config.Corpus.DefaultTranslation
	}
	if _, err := components.Loader.Load(context.Background(), translation, false); err != nil {
		fail(err)
	}
	passage, err := components.Engine.Passage(translation, p)
	if err != nil {
		fail(err)
	}
	if err := cli.WritePassage(os.Stdout, passage, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: verso search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Modes:
  keyword      ranked full-text search; results in book, chapter, verse order
  approximate  fixed-width Hamming match against word-aligned windows; closest first

Examples:
  verso search shepherd
  verso s --within "Psalms 127:3-5" children
  verso search --mode approximate "my shepard"
  verso search --persistent --translation asv "living water"
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchConfigPathFromArgs returns the value of -config/--config from args if present, else defaultPath.
func searchConfigPathFromArgs(args []string, defaultPath string) string {
	for i, a := range args {
		if (a == "-config" || a == "--config") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return defaultPath
}

// searchDefaultsFromConfig loads config at path and returns the default limit
// and mode. On load failure, returns models.DefaultLimit and keyword mode.
func searchDefaultsFromConfig(path string) (limit int, mode string) {
	limit, mode = models.DefaultLimit, models.ModeKeyword
	cfg, _, err := loadConfig(path)
	if err != nil || cfg == nil {
		return limit, mode
	}
	return cfg.Search.DefaultLimit, cfg.Search.Mode
}

// searchArgsReorder moves any flags (and their values) that appear after the
// positional arguments to the front of the slice so that flag.Parse() sees them.
// Go's flag package stops at the first non-flag argument, so
// "verso search children -limit 5" would otherwise leave -limit unparsed.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch(args []string) {
	searchArgs := searchArgsReorder(args)
	configPath := searchConfigPathFromArgs(searchArgs, defaultConfigPath)
	defaultLimit, defaultMode := searchDefaultsFromConfig(configPath)

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPathFlag := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = search locally)")
	limit := fs.Int("limit", defaultLimit, "number of results")
	within := fs.String("within", "", `restrict to a book, chapter or verse range, e.g. "Psalms 127:3-5"`)
	translation := fs.String("translation", "", "translation to search (default from config)")
	mode := fs.String("mode", defaultMode, "search mode: keyword or approximate")
	persistent := fs.Bool("persistent", false, "use the on-disk index built by 'verso index'")
	links := fs.Bool("links", false, "print reference URLs")
	highlight := fs.Bool("highlight", false, "highlight matched terms in keyword results")
	outputFormat := fs.String("format", "text", "output format: text or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgs)

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)
	opts := cli.Options{Format: format, Links: *links, Highlight: *highlight}

	searchQuery := &models.SearchQuery{
		Query:       queryStr,
		Within:      *within,
		Translation: *translation,
		Limit:       *limit,
		Mode:        *mode,
	}

	if *serverURL != "" {
		response, err := searchViaHTTP(*serverURL, searchQuery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		writeSearchResults(response, opts)
		return
	}

	b := backendMemory
	switch {
	case *persistent:
		b = backendPersistent
	case searchQuery.Mode == models.ModeApproximate:
		b = backendLookup
	}
	components, logger := setup(*configPathFlag, false, b)
	defer logger.Sync()
	defer components.Close()

	if searchQuery.Translation == "" {
		searchQuery.Translation = components.Config.Corpus.DefaultTranslation
	}
	if _, err := components.Loader.Load(context.Background(), searchQuery.Translation, false); err != nil {
		fail(err)
	}
	response, err := components.Engine.Search(context.Background(), searchQuery)
	if err != nil {
		fail(err)
	}
	writeSearchResults(response, opts)
}

func writeSearchResults(response *models.SearchResponse, opts cli.Options) {
	if err := cli.WriteSearchResults(os.Stdout, response, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runIndex(args []string) {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	force := fs.Bool("force", false, "rebuild even when the corpus file is unchanged")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(args)

	components, logger := setup(*configPath, *debug, backendPersistent)
	defer logger.Sync()
	defer components.Close()

	names := fs.Args()
	if len(names) == 0 {
		names = components.Config.Corpus.Names()
	}
	ctx := context.Background()
	failed := false
	for _, name := range names {
		res, err := components.Loader.Load(ctx, name, *force)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			failed = true
			continue
		}
		if res.Skipped {
			fmt.Printf("%s: unchanged, %d verses (build %s)\n", name, res.Build.VerseCount, res.Build.ID)
			continue
		}
		fmt.Printf("%s: indexed %d verses (build %s)\n", name, res.Build.VerseCount, res.Build.ID)
	}
	if failed {
		os.Exit(1)
	}
}

func runStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = read the on-disk index)")
	outputFormat := fs.String("format", "text", "output format: text or json")
	_ = fs.Parse(args)
	format := parseFormat(*outputFormat)

	var status *models.Status
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = res
	} else {
		components, logger := setup(*configPath, false, backendPersistent)
		defer logger.Sync()
		defer components.Close()
		ctx := context.Background()
		for _, name := range components.Config.Corpus.Names() {
			if idx, err := components.Indexer.LoadStored(ctx, name); err == nil {
				components.Engine.SetCorpus(name, idx)
			}
		}
		res, err := components.Engine.Status(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = res
	}
	if err := cli.WriteStatus(os.Stdout, status, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*models.Status, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s models.Status
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func runServer(args []string) {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (corpus changes, rebuilds, etc.)")
	_ = fs.Parse(args)

	components, logger := setup(*configPath, *debug, backendPersistent)
	defer logger.Sync()
	defer components.Close()
	cfg := components.Config
	loader := components.Loader

	if err := loader.LoadAll(context.Background(), false); err != nil {
		logger.Warn("some translations failed to load", zap.Error(err))
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Watch.Enabled {
		files := make([]string, 0, len(cfg.Corpus.Translations))
		for _, name := range cfg.Corpus.Names() {
			files = append(files, cfg.Corpus.Translations[name])
		}
		watchOpts := []watcher.WatcherOption{
			watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMS) * time.Millisecond),
		}
		if cfg.Debug || *debug {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc := watcher.NewWatcher(
			files,
			func(path string) {
				name, ok := loader.TranslationFor(path)
				if !ok {
					return
				}
				if err := loader.Reload(watchCtx, name); err != nil {
					logger.Warn("watch rebuild failed", zap.String("translation", name), zap.Error(err))
				}
			},
			func(path string) {
				logger.Warn("corpus file removed; serving last loaded verses", zap.String("path", path))
			},
			watchOpts...,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(components.Engine, loader, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runTranslation(args []string) {
	if len(args) < 1 {
		printTranslationUsage()
		os.Exit(1)
	}
	sub := args[0]
	fs := flag.NewFlagSet("translation", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(searchArgsReorder(args[1:]))

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if sub == "list" {
		for _, name := range cfg.Corpus.Names() {
			marker := " "
			if name == cfg.Corpus.DefaultTranslation {
				marker = "*"
			}
			fmt.Printf("%s %s\t%s\n", marker, name, cfg.Corpus.Translations[name])
		}
		return
	}
	if err := editTranslations(cfg, sub, fs.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		printTranslationUsage()
		os.Exit(1)
	}
	if err := config.Save(resolvedConfigPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Saved %s\n", resolvedConfigPath)
}

// editTranslations applies a translation subcommand to cfg and validates the result.
func editTranslations(cfg *config.Config, sub string, args []string) error {
	switch sub {
	case "add":
		if len(args) != 2 {
			return errors.New("add takes <name> <corpus-file>")
		}
		abs, err := filepath.Abs(args[1])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
		if cfg.Corpus.Translations == nil {
			cfg.Corpus.Translations = make(map[string]string)
		}
		cfg.Corpus.Translations[args[0]] = abs
	case "remove":
		if len(args) != 1 {
			return errors.New("remove takes <name>")
		}
		if _, ok := cfg.Corpus.Translations[args[0]]; !ok {
			return fmt.Errorf("translation %q is not configured", args[0])
		}
		delete(cfg.Corpus.Translations, args[0])
	case "default":
		if len(args) != 1 {
			return errors.New("default takes <name>")
		}
		cfg.Corpus.DefaultTranslation = args[0]
	default:
		return fmt.Errorf("unknown translation subcommand: %s", sub)
	}
	return cfg.Validate()
}

func printTranslationUsage() {
	fmt.Println("Usage: verso translation <list|add|remove|default> [args]")
	fmt.Println("  verso translation list                 List configured translations")
	fmt.Println("  verso translation add <name> <file>    Add a corpus file")
	fmt.Println("  verso translation remove <name>        Remove a translation")
	fmt.Println("  verso translation default <name>       Set the default translation")
}

func printUsage() {
	fmt.Println(`verso - Scripture reference lookup and verse search

Usage:
  verso [read] [flags] <book> [location]   Print a book, chapter or verses
  verso ref [flags] <book>.<chapter>:<verse>
                                           Print one verse by full reference
  verso search|s [flags] <query>           Search verses
  verso index [flags] [translation...]     Build the on-disk index
  verso server [flags]                     Start the HTTP server
  verso status [flags]                     Show translations and index status
  verso translation <list|add|remove|default>
                                           Manage configured translations
  verso version                            Show version
  verso help                               Show this help

Read/Ref Flags:
  --config string        Config file path (default: /usr/local/etc/verso/config.yaml)
  --translation string   Translation (default from config)
  --links                Print reference URLs
  --format string        Output format: text or json (default: text)

Search Flags:
  --limit int            Number of results (default from config, or 10)
  --within string        Book, chapter or verse range to search within
  --translation string   Translation to search
  --mode string          keyword or approximate (default from config)
  --persistent           Use the on-disk index built by 'verso index'
  --server string        Search through a running server instead
  --links, --highlight, --format

Index/Server Flags:
  --config string    Config file path
  --force            Rebuild even when unchanged (index only)
  --debug            Enable debug logging

Examples:
  verso john 3:16
  verso 1 kings 3
  verso psalms 127:3-5
  verso ref john.3:16
  verso s --within Psalms children
  verso search --mode approximate "my shepard"
  verso index
  verso status --format json`)
}
