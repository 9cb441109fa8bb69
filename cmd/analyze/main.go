package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/cleaning"
	"github.com/FiloHany/DataAnalysis-Toolkit/internal/config"
	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
	"github.com/FiloHany/DataAnalysis-Toolkit/internal/eda"
	"github.com/FiloHany/DataAnalysis-Toolkit/internal/files"
	"github.com/FiloHany/DataAnalysis-Toolkit/internal/marketdata"
	"github.com/FiloHany/DataAnalysis-Toolkit/internal/processor"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	var runErr error
	switch os.Args[1] {
	case "process":
		runErr = runProcess(cfg, logger, os.Args[2:])
	case "describe":
		runErr = runDescribe(cfg, logger, os.Args[2:])
	case "collect":
		runErr = runCollect(cfg, logger, os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if runErr != nil {
		logger.Error("Command failed", "command", os.Args[1], "error", runErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: analyze <command> [flags]

commands:
  process   load a table, run filter/sort/group operations, write the result
  describe  print summary statistics and correlations for a table
  collect   fetch market listings on a schedule and append them to a CSV`)
}

// loadTable reads a CSV or Excel file based on its extension.
func loadTable(path, sheet string) (*dataset.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return files.ReadExcel(path, sheet)
	default:
		return files.ReadCSV(path)
	}
}

// writeTable writes a CSV or Excel file based on its extension.
func writeTable(path, sheet string, d *dataset.Dataset) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		if sheet == "" {
			sheet = "Sheet1"
		}
		return files.WriteExcel(path, sheet, d)
	default:
		return files.WriteCSV(path, d)
	}
}

func runProcess(cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	in := fs.String("in", "", "input file (.csv or .xlsx)")
	out := fs.String("out", "", "output file (.csv or .xlsx)")
	sheet := fs.String("sheet", "", "Excel sheet name (default: first sheet)")
	filterExpr := fs.String("filter", "", "row predicate, e.g. 'price > 100 && active'")
	sortBy := fs.String("sort", "", "comma-separated sort columns")
	sortOrder := fs.String("order", "asc", "sort direction: asc or desc")
	groupBy := fs.String("group", "", "comma-separated grouping columns")
	aggSpec := fs.String("agg", "", "aggregations as col:fn pairs, e.g. 'price:mean,volume:sum'")
	sel := fs.String("select", "", "comma-separated columns to keep")
	dedupe := fs.Bool("dedupe", false, "drop duplicate rows before other operations")
	fillMissing := fs.String("fill", "", "value substituted for missing cells")
	fs.Parse(args)

	if *in == "" || *out == "" {
		return fmt.Errorf("both -in and -out are required")
	}

	d, err := loadTable(*in, *sheet)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", *in, err)
	}
	logger.Info("Loaded table", "path", *in, "rows", d.NumRows(), "columns", d.NumColumns())

	registry := processor.NewRegistry()
	if err := processor.RegisterBuiltins(registry); err != nil {
		return err
	}
	if err := cleaning.RegisterOperations(registry, logger); err != nil {
		return err
	}

	chain := processor.New(registry, logger).SetData(d).Chain()
	if *fillMissing != "" {
		chain = chain.Apply(cleaning.OpFillMissing, processor.Params{"value": *fillMissing})
	}
	if *dedupe {
		chain = chain.Apply(cleaning.OpDropDuplicates, nil)
	}
	if *filterExpr != "" {
		chain = chain.Apply(processor.OpFilter, processor.Params{"expr": *filterExpr})
	}
	if *sortBy != "" {
		chain = chain.Apply(processor.OpSort, processor.Params{
			"by":    splitList(*sortBy),
			"order": *sortOrder,
		})
	}
	if *groupBy != "" {
		agg, err := parseAggSpec(*aggSpec)
		if err != nil {
			return err
		}
		chain = chain.Apply(processor.OpGroupAggregate, processor.Params{
			"group_by": splitList(*groupBy),
			"agg":      agg,
		})
	}
	if *sel != "" {
		chain = chain.Apply(processor.OpSelect, processor.Params{"columns": splitList(*sel)})
	}

	result, err := chain.Result()
	if err != nil {
		return err
	}

	if err := writeTable(cfg.OutputPath(*out), *sheet, result); err != nil {
		return fmt.Errorf("failed to write %s: %w", *out, err)
	}
	logger.Info("Wrote result", "path", cfg.OutputPath(*out), "rows", result.NumRows())
	return nil
}

func runDescribe(cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("describe", flag.ExitOnError)
	in := fs.String("in", "", "input file (.csv or .xlsx)")
	sheet := fs.String("sheet", "", "Excel sheet name (default: first sheet)")
	corr := fs.String("corr", "", "correlation method: pearson or spearman")
	fs.Parse(args)

	if *in == "" {
		return fmt.Errorf("-in is required")
	}

	d, err := loadTable(*in, *sheet)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", *in, err)
	}

	analyzer := eda.NewAnalyzer(logger)

	summary, err := analyzer.Describe(d)
	if err != nil {
		return err
	}
	printTable(summary)

	if *corr != "" {
		matrix, err := analyzer.Correlations(d, eda.CorrelationMethod(*corr))
		if err != nil {
			return err
		}
		fmt.Println()
		printTable(matrix)
	}
	return nil
}

func runCollect(cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("collect", flag.ExitOnError)
	out := fs.String("out", "listings.csv", "output CSV appended to each cycle")
	cycles := fs.Int("cycles", 1, "number of collection cycles")
	limit := fs.Int("limit", 15, "listings per cycle")
	convert := fs.String("convert", "USD", "quote currency")
	fs.Parse(args)

	if cfg.API.Key == "" {
		return fmt.Errorf("API key not configured (set DAT_API_KEY)")
	}

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		APIKey:      cfg.API.Key,
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		MinInterval: cfg.API.MinInterval,
	}, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := marketdata.NewCollector(client, logger)
	params := marketdata.ListingsParams{Start: 1, Limit: *limit, Convert: *convert}

	done, err := collector.Run(ctx, params, *cycles, cfg.OutputPath(*out))
	if err != nil {
		return fmt.Errorf("stopped after %d cycles: %w", done, err)
	}
	logger.Info("Collection complete", "cycles", done, "path", cfg.OutputPath(*out))
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseAggSpec parses "price:mean,volume:sum" into an aggregation map.
func parseAggSpec(spec string) (map[string]string, error) {
	if spec == "" {
		return nil, fmt.Errorf("-agg is required when -group is set")
	}
	agg := make(map[string]string)
	for _, pair := range splitList(spec) {
		col, fn, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid aggregation %q, want col:fn", pair)
		}
		agg[strings.TrimSpace(col)] = strings.TrimSpace(fn)
	}
	return agg, nil
}

// printTable writes a dataset to stdout as aligned columns.
func printTable(d *dataset.Dataset) {
	cols := d.Columns()
	widths := make([]int, len(cols))
	cells := make([][]string, d.NumRows())
	for i, c := range cols {
		widths[i] = len(c)
	}
	for r := 0; r < d.NumRows(); r++ {
		row := d.Row(r)
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = row[c].String()
			if len(line[i]) > widths[i] {
				widths[i] = len(line[i])
			}
		}
		cells[r] = line
	}

	for i, c := range cols {
		fmt.Printf("%-*s  ", widths[i], c)
	}
	fmt.Println()
	for _, line := range cells {
		for i, cell := range line {
			fmt.Printf("%-*s  ", widths[i], cell)
		}
		fmt.Println()
	}
}
