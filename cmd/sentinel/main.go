// Copyright 2025 Vaal AI Systems
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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	sentinel "github.com/vaalai/sentinel"
	"github.com/vaalai/sentinel/ai"
	"github.com/vaalai/sentinel/ai/cohere"
	"github.com/vaalai/sentinel/ai/openai"
	"github.com/vaalai/sentinel/core"
	"github.com/vaalai/sentinel/crisis"
	"github.com/vaalai/sentinel/engine"
)

func main() {
	app := &cli.App{
		Name:  "sentinel",
		Usage: "Semantic search over SARS tax regulations and load-shedding intelligence",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: "AI provider (cohere, openai)",
				Value: "cohere",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key for the AI provider",
				EnvVars: []string{"COHERE_API_KEY"},
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "AI service endpoint override",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model override",
			},
			&cli.StringFlag{
				Name:  "rerank-model",
				Usage: "Rerank model override",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Build a knowledge base from a JSON document file and save it",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Knowledge base name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "docs",
						Aliases:  []string{"d"},
						Usage:    "Path to a JSON array of documents",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Base path for the saved index file pair",
						Required: true,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search a saved knowledge base",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Knowledge base name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "index",
						Aliases:  []string{"i"},
						Usage:    "Base path of the saved index file pair",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "k",
						Usage: "Number of candidates to retrieve",
						Value: engine.DefaultK,
					},
					&cli.IntFlag{
						Name:  "top-n",
						Usage: "Number of results after reranking",
						Value: engine.DefaultTopN,
					},
					&cli.BoolFlag{
						Name:  "no-rerank",
						Usage: "Skip the rerank phase",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Query the SARS or crisis knowledge base",
				ArgsUsage: "QUERY",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Usage:    "Data directory holding sars/ and crisis/ JSON files",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "target",
						Usage: "Knowledge base to query (sars, crisis)",
						Value: "sars",
					},
				},
			},
			{
				Name:   "assess",
				Usage:  "Assess load-shedding risk from grid metrics",
				Action: assessCommand,
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:  "eaf",
						Usage: "Energy availability factor, percent",
					},
					&cli.Float64Flag{
						Name:  "outages-mw",
						Usage: "Unplanned outages, megawatts",
					},
					&cli.Float64Flag{
						Name:  "coal-days",
						Usage: "Coal stockpile, days of supply",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildCommand(c *cli.Context) error {
	ctx := context.Background()

	eng, _, err := newEngine(c)
	if err != nil {
		return err
	}
	defer eng.Release()

	raw, err := os.ReadFile(c.String("docs"))
	if err != nil {
		return fmt.Errorf("read documents: %w", err)
	}
	docs, err := core.DocumentsFromJSON(raw)
	if err != nil {
		return fmt.Errorf("parse documents: %w", err)
	}

	name := c.String("name")
	summary, err := eng.BuildIndex(ctx, name, docs)
	if err != nil {
		return err
	}
	if err := eng.SaveIndex(name, c.String("out")); err != nil {
		return err
	}

	return printJSON(summary)
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query argument required")
	}

	eng, rerankAvailable, err := newEngine(c)
	if err != nil {
		return err
	}
	defer eng.Release()

	name := c.String("name")
	if err := eng.LoadIndex(name, c.String("index")); err != nil {
		return err
	}

	opts := []engine.SearchOption{
		engine.WithK(c.Int("k")),
		engine.WithTopN(c.Int("top-n")),
	}
	if c.Bool("no-rerank") || !rerankAvailable {
		opts = append(opts, engine.WithRerankDisabled())
	}

	results, err := eng.Search(ctx, name, query, opts...)
	if err != nil {
		return err
	}
	return printJSON(results)
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query argument required")
	}

	s, err := sentinel.New(c.String("data"), sentinel.WithAIConfig(aiConfig(c)))
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Initialize(ctx); err != nil {
		return err
	}

	var resp *core.QueryResponse
	switch target := c.String("target"); target {
	case "sars":
		resp, err = s.SARS().Query(ctx, query)
	case "crisis":
		resp, err = s.Crisis().Query(ctx, query)
	default:
		return fmt.Errorf("unknown target %q: must be sars or crisis", target)
	}
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func assessCommand(c *cli.Context) error {
	// Risk assessment is pure rule evaluation; no AI services or data
	// files are needed.
	detector := crisis.NewDetector(nil, "")

	assessment := detector.AssessRisk(crisis.GridMetrics{
		EAF:                c.Float64("eaf"),
		UnplannedOutagesMW: c.Float64("outages-mw"),
		CoalStockpileDays:  c.Float64("coal-days"),
	})
	return printJSON(assessment)
}

// newEngine builds a search engine from the provider flags. The second
// return reports whether a reranker is available; the openai provider has
// none, so searches through it run retrieval-only.
func newEngine(c *cli.Context) (*engine.Engine, bool, error) {
	cfg := aiConfig(c)

	switch provider := c.String("provider"); provider {
	case "cohere":
		embedder, err := cohere.NewEmbedder(cfg)
		if err != nil {
			return nil, false, err
		}
		reranker, err := cohere.NewReranker(cfg)
		if err != nil {
			return nil, false, err
		}
		eng, err := engine.NewEngine(embedder, reranker)
		return eng, true, err
	case "openai":
		embedder, err := openai.NewEmbedder(cfg)
		if err != nil {
			return nil, false, err
		}
		eng, err := engine.NewEngine(embedder, nil)
		return eng, false, err
	default:
		return nil, false, fmt.Errorf("unknown provider %q: must be cohere or openai", provider)
	}
}

// aiConfig builds the AI client configuration from the global flags.
func aiConfig(c *cli.Context) *ai.Config {
	var opts []ai.ConfigOption
	if v := c.String("api-key"); v != "" {
		opts = append(opts, ai.WithAPIKey(v))
	}
	if v := c.String("base-url"); v != "" {
		opts = append(opts, ai.WithBaseURL(v))
	}
	if v := c.String("embedding-model"); v != "" {
		opts = append(opts, ai.WithEmbeddingModel(v))
	}
	if v := c.String("rerank-model"); v != "" {
		opts = append(opts, ai.WithRerankModel(v))
	}
	return ai.NewConfig(opts...)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
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
