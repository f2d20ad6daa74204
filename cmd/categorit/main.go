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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/categorit/ai"
	"github.com/poiesic/categorit/ai/openai"
	"github.com/poiesic/categorit/indexer"
	"github.com/urfave/cli/v2"
)

// newProvider creates the embedding provider; tests replace it.
var newProvider = openai.NewProvider

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	defaults := ai.DefaultConfig()
	indexDefaults := indexer.DefaultConfig()

	return &cli.App{
		Name:  "categorit",
		Usage: "Resolve free-text category names against a product taxonomy",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:    "taxonomy",
				Aliases: []string{"t"},
				Usage:   "Path to the taxonomy file (YAML or JSON)",
				EnvVars: []string{"CATEGORIT_TAXONOMY"},
				Value:   "taxonomy.json",
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "BadgerDB directory for the embedding cache and quantities",
				EnvVars: []string{"CATEGORIT_DATA_DIR"},
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				EnvVars: []string{"CATEGORIT_EMBEDDING_HOST"},
				Value:   defaults.EmbeddingHost,
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				EnvVars: []string{"CATEGORIT_EMBEDDING_MODEL"},
				Value:   defaults.EmbeddingModel,
			},
			&cli.StringFlag{
				Name:    "embedding-token",
				Usage:   "API token for the embedding service",
				EnvVars: []string{"CATEGORIT_EMBEDDING_TOKEN"},
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Number of categories embedded per request while indexing",
				Value: indexDefaults.BatchSize,
			},
			&cli.IntFlag{
				Name:  "max-retries",
				Usage: "Maximum attempts per embedding request while indexing",
				Value: indexDefaults.MaxRetries,
			},
			&cli.DurationFlag{
				Name:  "retry-delay",
				Usage: "Base delay for exponential backoff while indexing",
				Value: indexDefaults.RetryDelay,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "resolve",
				Usage:     "Resolve a query to its best matching category",
				ArgsUsage: "<query>",
				Action:    resolveCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the result as JSON",
					},
					&cli.BoolFlag{
						Name:  "trace",
						Usage: "Print the lexical and vector stages to stderr",
					},
					&cli.Float64Flag{
						Name:  "max-distance",
						Usage: "Reject vector matches farther than this squared distance",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Timeout for embedding the query",
						Value: 10 * time.Second,
					},
				},
			},
			{
				Name:      "batch",
				Usage:     "Resolve one query per line read from a file or stdin",
				ArgsUsage: "[file]",
				Action:    batchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of queries resolved concurrently (0 = half the CPUs)",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List every category of the taxonomy",
				Action: listCommand,
			},
			{
				Name:   "warm",
				Usage:  "Build the vector index and fill the embedding cache",
				Action: warmCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "reset",
						Usage: "Discard cached vectors of the embedding model first",
					},
				},
			},
			{
				Name:  "stock",
				Usage: "Read and write quantities per category",
				Subcommands: []*cli.Command{
					{
						Name:      "get",
						Usage:     "Print the quantity of a category",
						ArgsUsage: "<path>",
						Action:    stockGetCommand,
					},
					{
						Name:      "set",
						Usage:     "Store the quantity of a category",
						ArgsUsage: "<path> <qty>",
						Action:    stockSetCommand,
					},
					{
						Name:   "list",
						Usage:  "Print every stored quantity",
						Action: stockListCommand,
					},
				},
			},
			{
				Name:      "dispatch",
				Usage:     "Run a named command with JSON arguments",
				ArgsUsage: "<command> [json-args]",
				Action:    dispatchCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "list",
						Usage: "Print the available command definitions as JSON",
					},
				},
			},
		},
	}
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
