package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"hotel_curator/internal/adapters/observability"
	"hotel_curator/internal/adapters/providers"
	redisad "hotel_curator/internal/adapters/redis"
	"hotel_curator/internal/app"
	"hotel_curator/internal/curation"
	"hotel_curator/internal/domain"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the curation pipeline",
	Long: `Run photo acquisition, scoring and gating over stored hotels.

Examples:
  # Curate every stored hotel
  curator run

  # Curate two hotels without writing anything
  curator run --ids h-1,h-2 --dry-run

  # Curate Lisbon with four workers and at most 300 provider calls
  curator run --city Lisbon --workers 4 --budget 300`,
	RunE: runCurate,
}

func init() {
	f := runCmd.Flags()
	f.StringSlice("ids", nil, "comma-separated hotel ids (default: all stored hotels)")
	f.String("city", "", "only curate hotels in this city")
	f.String("country", "", "only curate hotels in this country")
	f.Bool("dry-run", false, "score and gate without writing")
	f.Int("workers", 0, "hotels processed in parallel (overrides config)")
	f.Int("budget", 0, "maximum provider calls for the run (overrides config)")
	f.Int("batch-size", 0, "hotels per batch (overrides config)")
	f.String("resolution-mode", "", "photo resolution gate: both or area (overrides config)")
	f.Bool("json", false, "print the run report as JSON")

	rootCmd.AddCommand(runCmd)
}

func runCurate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f := cmd.Flags()
	ids, _ := f.GetStringSlice("ids")
	city, _ := f.GetString("city")
	country, _ := f.GetString("country")
	dryRun, _ := f.GetBool("dry-run")
	asJSON, _ := f.GetBool("json")
	if n, _ := f.GetInt("workers"); n > 0 {
		cfg.Workers = n
	}
	if n, _ := f.GetInt("budget"); n > 0 {
		cfg.CallBudget = n
	}
	if n, _ := f.GetInt("batch-size"); n > 0 {
		cfg.BatchSize = n
	}
	if m, _ := f.GetString("resolution-mode"); m != "" {
		cfg.ResolutionMode = strings.ToLower(m)
	}

	pcfg := cfg.Pipeline()
	if err := curation.ValidateConfig(pcfg); err != nil {
		return err
	}

	repo, cache, closeStores, err := stores(ctx)
	if err != nil {
		return err
	}
	defer closeStores()

	sup, err := providers.Build(cfg.Providers(), curation.NewLevenshteinMatcher(cfg.MatchScore))
	if err != nil {
		return err
	}
	if len(sup) == 0 {
		return errors.New("no photo providers configured")
	}
	sc := redisad.WithCache(sup, asCache(cache), int(cfg.SupplierCacheTTL.Seconds()))

	budget := curation.NewCallBudget(cfg.CallBudget)
	observability.SetBudgetRemaining(budget.Remaining())
	var limiter curation.Limiter = curation.NoLimit
	if cfg.PipelineRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.PipelineRPS), 1)
	}

	svc := app.NewCurationService(repo, asCache(cache), sc, pcfg, budget, limiter, app.Options{
		BatchSize:    cfg.BatchSize,
		BatchPause:   cfg.BatchPause,
		Workers:      cfg.Workers,
		TargetPhotos: pcfg.TargetPhotos,
		DryRun:       dryRun,
	})

	log.Info().
		Strs("providers", cfg.ProviderOrder).
		Int("workers", cfg.Workers).
		Int("budget", cfg.CallBudget).
		Bool("dry_run", dryRun).
		Msg("curation starting")

	var rep app.RunReport
	if len(ids) > 0 {
		rep, err = svc.CurateIDs(ctx, ids)
	} else {
		rep, err = svc.RunAll(ctx, domain.HotelFilter{City: city, Country: country})
	}
	printReport(cmd, rep, asJSON)
	if err != nil {
		return fmt.Errorf("curation run: %w", err)
	}
	return nil
}

func printReport(cmd *cobra.Command, rep app.RunReport, asJSON bool) {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		_ = enc.Encode(rep)
		return
	}
	for _, r := range rep.Results {
		fmt.Fprintf(out, "%-24s %-14s %-22s score=%.4f photos=%d\n", r.HotelID, r.Outcome, r.Reason, r.Score.Total, r.Photos)
	}
	fmt.Fprintf(out, "accepted=%d rejected=%d incomplete=%d failed=%d not_processed=%d\n",
		rep.Counts[app.OutcomeAccepted], rep.Counts[app.OutcomeRejected], rep.Counts[app.OutcomeIncomplete],
		rep.Counts[app.OutcomeFailed], rep.Counts[app.OutcomeNotProcessed])
}
