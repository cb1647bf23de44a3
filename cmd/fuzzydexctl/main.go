// Command fuzzydexctl is the thin demo binding over the FuzzDex engine: it
// loads a phrase list from a YAML file, builds and seals an instance, and
// runs a single fuzzy query against it. It is explicitly out of the core
// engine's spec scope (spec §1: "the binding layer that exposes the engine
// to an embedding host language... [is] a thin adapter") — this one just
// happens to be a CLI rather than an FFI boundary, included so the engine
// has a runnable entry point and so the corpus's CLI/config/logging stack
// gets exercised somewhere in the repo.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/blaa/fuzzdex"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.App{
		Name:  "fuzzydexctl",
		Usage: "load a phrase dictionary and run a fuzzy query against it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "KDL config file path",
				Value:   ".fuzzydexctl.kdl",
			},
			&cli.StringFlag{
				Name:  "phrases",
				Usage: "override the phrase source YAML path from config",
			},
			&cli.StringFlag{
				Name:     "must",
				Usage:    "must-token to query for",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "should",
				Usage: "should-token(s) to reweight candidates",
			},
			&cli.IntFlag{
				Name:  "max-distance",
				Usage: "maximum Levenshtein distance (omit for unbounded)",
				Value: -1,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "maximum number of hits to return",
				Value: 10,
			},
			&cli.IntFlag{
				Name:  "constraint",
				Usage: "restrict results to this constraint tag (omit for none)",
				Value: -1,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("fuzzydexctl failed")
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := loadCtlConfig(c.String("config"))
	if err != nil {
		return err
	}
	if p := c.String("phrases"); p != "" {
		cfg.PhrasesPath = p
	}

	records, err := loadPhrases(cfg.PhrasesPath)
	if err != nil {
		return err
	}
	log.Info().Int("count", len(records)).Str("source", cfg.PhrasesPath).Msg("loaded phrases")

	dex := fuzzdex.NewWithCacheSize(cfg.CacheSize)
	for _, r := range records {
		if err := dex.AddPhrase(r.Text, r.Index, r.Constraints); err != nil {
			return fmt.Errorf("add_phrase(%q, %d) failed: %w", r.Text, r.Index, err)
		}
	}
	if err := dex.Finish(); err != nil {
		return err
	}

	opts := fuzzdex.SearchOptions{Should: c.StringSlice("should")}
	if md := c.Int("max-distance"); md >= 0 {
		opts.MaxDistance = &md
	}
	if constraint := c.Int("constraint"); constraint >= 0 {
		tag := int32(constraint)
		opts.Constraint = &tag
	}

	hits, err := dex.Search(c.String("must"), c.Int("limit"), opts)
	if err != nil {
		return err
	}

	for _, h := range hits {
		fmt.Printf("%-20s index=%-6d token=%-20s distance=%-3d score=%.4f should=%.4f\n",
			h.Original, h.Index, h.Token, h.Distance, h.Score, h.ShouldScore)
	}

	stats := dex.Stats()
	log.Info().
		Int("phrases", stats.PhraseCount).
		Int("trigrams", stats.TrigramCount).
		Uint64("cache_hits", stats.CacheHits).
		Uint64("cache_misses", stats.CacheMisses).
		Msg("search complete")

	return nil
}
