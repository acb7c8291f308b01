// Copyright 2025 MMG Tools
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/ohler55/ojg/oj"
	"github.com/urfave/cli/v2"
	"github.com/xlab/treeprint"

	"github.com/mmg-tools/nxsearch"
	"github.com/mmg-tools/nxsearch/catalog"
	"github.com/mmg-tools/nxsearch/codec"
	"github.com/mmg-tools/nxsearch/ingest"
	"github.com/mmg-tools/nxsearch/nexus"
	"github.com/mmg-tools/nxsearch/reindex"
	"github.com/mmg-tools/nxsearch/render"
	"github.com/mmg-tools/nxsearch/search"
)

var (
	pathColor = color.New(color.FgCyan)
	scanColor = color.New(color.FgYellow)
)

func main() {
	// fatih/color misses cygwin terminals on its own.
	color.NoColor = color.NoColor ||
		(!isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()))

	app := &cli.App{
		Name:  "nxsearch",
		Usage: "Search scan files and their metadata catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "find",
				Usage:     "Find the best match for a token list in a scan file",
				ArgsUsage: "FILE TOKEN...",
				Action:    findCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "trace",
						Usage: "Log every node visited during the search",
					},
				},
			},
			{
				Name:      "find-all",
				Usage:     "Find every match for a token list in a scan file",
				ArgsUsage: "FILE TOKEN...",
				Action:    findAllCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "trace",
						Usage: "Log every node visited during the search",
					},
				},
			},
			{
				Name:      "value",
				Usage:     "Print the value of the dataset matching a token list",
				ArgsUsage: "FILE TOKEN...",
				Action:    valueCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "default",
						Usage: "Value to print when nothing matches",
					},
				},
			},
			{
				Name:      "meta",
				Usage:     "Extract summary metadata from a scan file",
				ArgsUsage: "FILE",
				Action:    metaCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print metadata as JSON",
					},
					&cli.StringFlag{
						Name:  "template",
						Usage: "Expand a {placeholder} template instead of listing fields",
					},
					&cli.StringSliceFlag{
						Name:  "field",
						Usage: "Custom field as KEY=TOKEN,TOKEN... (replaces the default set)",
					},
				},
			},
			{
				Name:      "tree",
				Usage:     "Print the node hierarchy of a scan file",
				ArgsUsage: "FILE",
				Action:    treeCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "attrs",
						Usage: "Include attributes in the tree",
					},
				},
			},
			{
				Name:      "entries",
				Usage:     "List scan entries and their application definitions",
				ArgsUsage: "FILE",
				Action:    entriesCommand,
			},
			{
				Name:      "ingest",
				Usage:     "Ingest scan files into a metadata catalog",
				ArgsUsage: "PATH",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the catalog directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent ingest workers (0 = auto)",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Search the catalog for records matching all query words",
				ArgsUsage: "QUERY...",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the catalog directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results (0 = all)",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  "key",
						Usage: "Print this metadata key instead of the file path",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print full records as JSON",
					},
				},
			},
			{
				Name:   "last",
				Usage:  "Show the newest scan in the catalog",
				Action: lastCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the catalog directory",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the full record as JSON",
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Re-extract metadata for every cataloged record",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the catalog directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed storage writes",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:      "eval",
				Usage:     "Evaluate an arithmetic expression over dataset values",
				ArgsUsage: "FILE EXPR",
				Action:    evalCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func findCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("usage: find FILE TOKEN...")
	}

	root, err := nxsearch.LoadTree(c.Args().First())
	if err != nil {
		return err
	}
	tokens := c.Args().Tail()

	searcher, err := newSearcher(c)
	if err != nil {
		return err
	}

	node, err := searcher.Find(root, tokens...)
	if err != nil {
		return err
	}
	if node == nil {
		return fmt.Errorf("no match for %s", strings.Join(tokens, " "))
	}

	printNode(root, node)
	return nil
}

func findAllCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("usage: find-all FILE TOKEN...")
	}

	root, err := nxsearch.LoadTree(c.Args().First())
	if err != nil {
		return err
	}
	tokens := c.Args().Tail()

	searcher, err := newSearcher(c)
	if err != nil {
		return err
	}

	nodes, err := searcher.FindAll(root, tokens...)
	if err != nil {
		return err
	}

	for _, node := range nodes {
		printNode(root, node)
	}
	return nil
}

func valueCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("usage: value FILE TOKEN...")
	}

	root, err := nxsearch.LoadTree(c.Args().First())
	if err != nil {
		return err
	}
	tokens := c.Args().Tail()

	var fallback any
	if c.IsSet("default") {
		fallback = c.String("default")
	}

	value, err := search.FindValue(root, fallback, tokens...)
	if err != nil {
		return err
	}
	if value == nil {
		return fmt.Errorf("no value for %s and no default given", strings.Join(tokens, " "))
	}

	switch v := value.(type) {
	case float64:
		fmt.Println(strconv.FormatFloat(v, 'g', -1, 64))
	case []float64:
		parts := make([]string, len(v))
		for i, f := range v {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		fmt.Println(strings.Join(parts, " "))
	case []string:
		fmt.Println(strings.Join(v, " "))
	default:
		fmt.Println(v)
	}
	return nil
}

func metaCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: meta FILE")
	}
	path := c.Args().First()

	root, err := nxsearch.LoadTree(path)
	if err != nil {
		return err
	}

	fields, err := parseFields(c.StringSlice("field"))
	if err != nil {
		return err
	}

	meta := ingest.NewExtractor(fields).Extract(path, root)

	switch {
	case c.Bool("json"):
		fmt.Println(oj.JSON(meta, 2))
	case c.IsSet("template"):
		template := c.String("template")
		if template == "" {
			template = render.DefaultTemplate
		}
		fmt.Println(render.Expand(template, meta))
	default:
		for _, key := range slices.Sorted(maps.Keys(meta)) {
			fmt.Printf("%s: %s\n", key, meta[key])
		}
	}
	return nil
}

// parseFields turns KEY=TOKEN,TOKEN... specs into extraction fields.
func parseFields(specs []string) ([]render.Field, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	fields := make([]render.Field, 0, len(specs))
	for _, spec := range specs {
		key, tokens, ok := strings.Cut(spec, "=")
		if !ok || key == "" || tokens == "" {
			return nil, fmt.Errorf("invalid field spec %q: expected KEY=TOKEN,TOKEN...", spec)
		}
		fields = append(fields, render.Field{
			Key:    key,
			Tokens: strings.Split(tokens, ","),
		})
	}
	return fields, nil
}

func treeCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: tree FILE")
	}
	path := c.Args().First()

	root, err := nxsearch.LoadTree(path)
	if err != nil {
		return err
	}

	tree := treeprint.NewWithRoot(codec.Stem(path))
	addBranches(tree, root, c.Bool("attrs"))
	fmt.Print(tree.String())
	return nil
}

func addBranches(branch treeprint.Tree, g *nexus.Group, withAttrs bool) {
	for _, name := range g.Names() {
		child, _ := g.Child(name)
		switch n := child.(type) {
		case *nexus.Group:
			label := name
			if class := n.Attrs().Text(nexus.AttrClass); class != "" {
				label = fmt.Sprintf("%s [%s]", name, class)
			}
			sub := branch.AddBranch(label)
			if withAttrs {
				addAttrNodes(sub, n.Attrs())
			}
			addBranches(sub, n, withAttrs)
		case *nexus.Dataset:
			label := fmt.Sprintf("%s = %s", name, render.DatasetString(n))
			if withAttrs && len(n.Attrs()) > 0 {
				sub := branch.AddBranch(label)
				addAttrNodes(sub, n.Attrs())
			} else {
				branch.AddNode(label)
			}
		}
	}
}

func addAttrNodes(branch treeprint.Tree, attrs nexus.Attrs) {
	for _, name := range slices.Sorted(maps.Keys(attrs)) {
		if name == nexus.AttrClass {
			continue // already part of the group label
		}
		branch.AddNode(fmt.Sprintf("@%s = %s", name, strings.Join(attrs.Get(name).List(), ", ")))
	}
}

func entriesCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: entries FILE")
	}

	root, err := nxsearch.LoadTree(c.Args().First())
	if err != nil {
		return err
	}

	var walk func(g *nexus.Group, prefix string)
	walk = func(g *nexus.Group, prefix string) {
		for _, sub := range g.Groups() {
			path := prefix + "/" + sub.Name()
			if nexus.IsEntry(sub) {
				definition := ""
				if child, ok := sub.Child(nexus.DatasetDefinition); ok {
					definition = render.Value(child)
				}
				fmt.Printf("%s\t%s\t%s\n",
					pathColor.Sprint(path), sub.Attrs().Text(nexus.AttrClass), definition)
			}
			walk(sub, path)
		}
	}
	walk(root, "")
	return nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: ingest PATH")
	}

	opts := []nxsearch.ToolboxOption{}
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, nxsearch.WithPoolSize(workers))
	}

	tb, err := nxsearch.Open(c.String("db"), opts...)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer tb.Close()

	stats, err := tb.Ingest(context.Background(), c.Args().First())
	fmt.Printf("Ingested %d new, updated %d, skipped %d unchanged, failed %d\n",
		stats.Ingested, stats.Updated, stats.Skipped, stats.Failed)
	return err
}

func queryCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: query QUERY...")
	}

	tb, err := nxsearch.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer tb.Close()

	query := strings.Join(c.Args().Slice(), " ")
	records, err := tb.Query(context.Background(), query, c.Int("limit"))
	if err != nil {
		return err
	}

	if c.Bool("json") {
		fmt.Println(oj.JSON(records, 2))
		return nil
	}

	key := c.String("key")
	for _, record := range records {
		detail := record.Path
		if key != "" {
			detail = record.Metadata[key]
		}
		fmt.Printf("%s  %s\n", scanColor.Sprintf("%d", record.ScanNumber), detail)
	}
	return nil
}

func lastCommand(c *cli.Context) error {
	tb, err := nxsearch.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer tb.Close()

	record, err := tb.LastScan(context.Background())
	if errors.Is(err, catalog.ErrNotFound) {
		return fmt.Errorf("catalog is empty")
	}
	if err != nil {
		return err
	}

	if c.Bool("json") {
		fmt.Println(oj.JSON(record, 2))
		return nil
	}

	fmt.Printf("%s  %s\n", scanColor.Sprintf("%d", record.ScanNumber), record.Path)
	for _, key := range slices.Sorted(maps.Keys(record.Metadata)) {
		fmt.Printf("  %s: %s\n", key, record.Metadata[key])
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	dbPath := c.String("db")
	tb, err := nxsearch.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer tb.Close()

	reindexer, err := reindex.NewReindexer(tb.Records(), nil, config, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Catalog: %s\n\n", dbPath)

	if _, err := reindexer.Run(context.Background()); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	return nil
}

func evalCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("usage: eval FILE EXPR")
	}

	root, err := nxsearch.LoadTree(c.Args().First())
	if err != nil {
		return err
	}

	value, err := render.EvalExpression(root, strings.Join(c.Args().Tail(), " "))
	if err != nil {
		return err
	}

	fmt.Println(strconv.FormatFloat(value, 'g', -1, 64))
	return nil
}

// newSearcher builds a searcher for the find commands, wiring a trace
// monitor when requested.
func newSearcher(c *cli.Context) (*search.Searcher, error) {
	opts := []search.Option{}
	if c.Bool("trace") {
		opts = append(opts, search.WithMonitor(&traceMonitor{logger: slog.Default()}))
	}
	return search.NewSearcher(opts...)
}

func printNode(root *nexus.Group, node nexus.Node) {
	path, ok := nexus.PathTo(root, node)
	if !ok {
		path = node.Name()
	}
	if d, ok := node.(*nexus.Dataset); ok {
		fmt.Printf("%s = %s\n", pathColor.Sprint(path), render.DatasetString(d))
		return
	}
	fmt.Println(pathColor.Sprint(path))
}

// traceMonitor logs search traversal at info level so --trace output shows
// without raising the global log level.
type traceMonitor struct {
	logger *slog.Logger
}

var _ search.Monitor = (*traceMonitor)(nil)

func (m *traceMonitor) Start(tokens []string) {
	m.logger.Info("search started", "tokens", tokens)
}

func (m *traceMonitor) Visit(node nexus.Node, remaining []string) {
	m.logger.Info("visiting", "node", node.Name(), "remaining", remaining)
}

func (m *traceMonitor) Consumed(node nexus.Node, token string) {
	m.logger.Info("token consumed", "node", node.Name(), "token", token)
}

func (m *traceMonitor) PathResolved(node nexus.Node, path string) {
	m.logger.Info("path resolved", "node", node.Name(), "path", path)
}

func (m *traceMonitor) Finish(found []nexus.Node) {
	m.logger.Info("search finished", "matches", len(found))
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
