// Copyright 2025 Poiesic Systems
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
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/poiesic/categorit"
	"github.com/poiesic/categorit/ai"
	"github.com/poiesic/categorit/command"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/indexer"
	"github.com/poiesic/categorit/resolver"
	"github.com/poiesic/categorit/taxonomy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

// openCatalog builds a catalog from the global flags.
func openCatalog(c *cli.Context, opts ...categorit.Option) (*categorit.Catalog, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithEmbeddingToken(c.String("embedding-token")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	provider, err := newProvider(aiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}

	indexConfig := indexer.DefaultConfig()
	indexConfig.BatchSize = c.Int("batch-size")
	indexConfig.ReportInterval = c.Int("batch-size")
	indexConfig.MaxRetries = c.Int("max-retries")
	indexConfig.RetryDelay = c.Duration("retry-delay")
	if err := indexConfig.Validate(); err != nil {
		provider.Close()
		return nil, err
	}

	options := []categorit.Option{
		categorit.WithProvider(provider),
		categorit.WithIndexerConfig(indexConfig),
		categorit.WithProgress(c.App.ErrWriter),
	}
	if dir := c.String("data-dir"); dir != "" {
		options = append(options, categorit.WithDataDir(dir))
	}
	options = append(options, opts...)

	catalog, err := categorit.Open(c.Context, c.String("taxonomy"), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return catalog, nil
}

func resolveCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query is required")
	}

	resolverOpts := []resolver.Option{resolver.WithQueryTimeout(c.Duration("timeout"))}
	if c.IsSet("max-distance") {
		resolverOpts = append(resolverOpts, resolver.WithMaxDistance(float32(c.Float64("max-distance"))))
	}
	if c.Bool("trace") {
		resolverOpts = append(resolverOpts, resolver.WithMonitor(resolver.NewTraceMonitor(c.App.ErrWriter)))
	}

	catalog, err := openCatalog(c, categorit.WithResolverOptions(resolverOpts...))
	if err != nil {
		return err
	}
	defer catalog.Close()

	result, err := catalog.Resolve(c.Context, query)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return writeJSON(c.App.Writer, result)
	}
	printCategory(c.App.Writer, result)
	return nil
}

func batchCommand(c *cli.Context) error {
	in := c.App.Reader
	if name := c.Args().First(); name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	queries, err := readLines(in)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	resolverOpts := []resolver.Option{resolver.WithMonitor(resolver.NewMetricsMonitor(reg))}
	if workers := c.Int("workers"); workers > 0 {
		resolverOpts = append(resolverOpts, resolver.WithPoolSize(workers))
	}

	catalog, err := openCatalog(c, categorit.WithResolverOptions(resolverOpts...))
	if err != nil {
		return err
	}
	defer catalog.Close()

	results, err := catalog.Resolver().ResolveBatch(c.Context, queries)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetEscapeHTML(false)
	for _, res := range results {
		line := batchLine{Query: res.Query, Category: res.Category}
		if res.Err != nil {
			line.Error = res.Err.Error()
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}

	return printOutcomes(c.App.ErrWriter, reg)
}

type batchLine struct {
	Query    string                 `json:"query"`
	Category *core.ResolvedCategory `json:"category,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// printOutcomes summarizes the resolutions counter of reg.
func printOutcomes(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	var parts []string
	for _, family := range families {
		if family.GetName() != "categorit_resolutions_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "outcome" {
					parts = append(parts, fmt.Sprintf("%s=%.0f", label.GetValue(), metric.GetCounter().GetValue()))
				}
			}
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "Outcomes: %s\n", strings.Join(parts, " "))
	}
	return nil
}

func listCommand(c *cli.Context) error {
	entries, err := taxonomy.LoadEntries(c.String("taxonomy"))
	if err != nil {
		return err
	}

	for i := range entries {
		if entries[i].HasID() {
			fmt.Fprintf(c.App.Writer, "%s [%s]\n", entries[i].Path, entries[i].ID)
		} else {
			fmt.Fprintln(c.App.Writer, entries[i].Path)
		}
	}
	return nil
}

func warmCommand(c *cli.Context) error {
	if c.String("data-dir") == "" {
		return fmt.Errorf("data-dir is required to cache embeddings")
	}

	var opts []categorit.Option
	if c.Bool("reset") {
		opts = append(opts, categorit.WithFreshCache())
	}

	catalog, err := openCatalog(c, opts...)
	if err != nil {
		return err
	}
	defer catalog.Close()

	fmt.Fprintf(c.App.Writer, "Indexed %d categories with %s\n", catalog.Resolver().Len(), catalog.Model())
	return nil
}

func stockGetCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one category path")
	}
	return dispatchAndPrint(c, command.GetQuantity, map[string]any{"path": c.Args().First()})
}

func stockSetCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("expected a category path and a quantity")
	}
	qty, err := strconv.ParseFloat(c.Args().Get(1), 64)
	if err != nil {
		return fmt.Errorf("invalid quantity %q: %w", c.Args().Get(1), err)
	}
	return dispatchAndPrint(c, command.SetQuantity, map[string]any{"path": c.Args().First(), "qty": qty})
}

func stockListCommand(c *cli.Context) error {
	catalog, err := openStockCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	records, err := catalog.StockRepository().ListStockRecords(c.Context)
	if err != nil {
		return err
	}
	for _, record := range records {
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n",
			record.Path, strconv.FormatFloat(record.Qty, 'f', -1, 64), record.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func dispatchAndPrint(c *cli.Context, tag command.Tag, args map[string]any) error {
	catalog, err := openStockCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	result, err := catalog.Commands().Dispatch(c.Context, tag.String(), args)
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, result)
}

func openStockCatalog(c *cli.Context) (*categorit.Catalog, error) {
	if c.String("data-dir") == "" {
		return nil, fmt.Errorf("data-dir is required for quantities")
	}
	return openCatalog(c)
}

func dispatchCommand(c *cli.Context) error {
	catalog, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	if c.Bool("list") {
		return writeJSON(c.App.Writer, catalog.Commands().Definitions())
	}
	if c.NArg() < 1 {
		return fmt.Errorf("command name is required")
	}

	out, err := catalog.Commands().DispatchJSON(c.Context, c.Args().First(), []byte(c.Args().Get(1)))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}

func printCategory(w io.Writer, result *core.ResolvedCategory) {
	fmt.Fprintln(w, result.Path)
	if result.ID != nil {
		fmt.Fprintf(w, "  id:         %s\n", *result.ID)
	}
	if result.Definition != "" {
		fmt.Fprintf(w, "  definition: %s\n", result.Definition)
	}
	if len(result.Children) > 0 {
		fmt.Fprintf(w, "  children:   %s\n", strings.Join(result.Children, ", "))
	}
	switch result.Match {
	case core.MatchLexical:
		fmt.Fprintf(w, "  match:      lexical (score %d)\n", result.LexicalScore)
	case core.MatchVector:
		fmt.Fprintf(w, "  match:      vector (distance %.4f)\n", result.Distance)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
