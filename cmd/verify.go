package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/evidence"
	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/model"
	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/store"
	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/verifier"
	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/pkg/anthropic"
	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/pkg/dart"
	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/pkg/naver"
)

var (
	verifyOffline bool
	verifyNoStore bool
	verifyCode    string
)

var verifyCmd = &cobra.Command{
	Use:   "verify <candidates-file>",
	Short: "Run AI verification over a candidate file (JSON or YAML)",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyOffline, "offline", false, "skip live evidence and scoring calls, use mock disclosures and neutral analysis")
	verifyCmd.Flags().BoolVar(&verifyNoStore, "no-store", false, "do not persist the run")
	verifyCmd.Flags().StringVar(&verifyCode, "code", "", "verify only the candidate with this stock code")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	candidates, err := loadCandidates(args[0])
	if err != nil {
		return err
	}
	if verifyCode != "" {
		candidates = filterByCode(candidates, verifyCode)
		if len(candidates) == 0 {
			return eris.Errorf("no candidate with code %s in %s", verifyCode, args[0])
		}
	}

	v := buildVerifier()

	var verified []model.VerifiedCandidate
	if verifyCode != "" {
		vc, err := v.VerifyOne(ctx, candidates[0])
		if err != nil {
			return err
		}
		verified = []model.VerifiedCandidate{vc}
	} else {
		verified = v.Verify(ctx, candidates)
	}

	fmt.Println(verifier.FormatReport(verified, time.Now()))

	if !verifyNoStore {
		if err := persistRun(ctx, verified); err != nil {
			// Persistence failure should not discard an otherwise complete run.
			zap.L().Error("verify: persist run failed", zap.Error(err))
		}
	}

	return nil
}

// buildVerifier wires the pipeline from config. Offline mode drops the live
// collaborators: mock disclosures, no news, neutral analysis.
func buildVerifier() *verifier.Verifier {
	anthroCfg := cfg.Anthropic
	var client anthropic.Client
	if verifyOffline {
		anthroCfg.Key = ""
	} else if anthroCfg.Key != "" {
		client = anthropic.NewClient(anthroCfg.Key)
	}
	analyzer := verifier.NewAnalyzer(client, anthroCfg)

	var newsSrc evidence.NewsSource
	var discSrc evidence.DisclosureSource
	if verifyOffline {
		discSrc = dart.MockSource{}
	} else {
		newsSrc = naver.NewClient(cfg.News.BaseURL, cfg.News.RatePerSec)
		discSrc = dart.NewClient(cfg.Dart.Key, cfg.Dart.BaseURL)
	}

	gatherer := evidence.NewGatherer(newsSrc, discSrc, evidence.Options{
		NewsDays:        cfg.News.LookbackDays,
		NewsMaxArticles: cfg.News.MaxArticles,
		NewsMaxPages:    cfg.News.MaxPages,
		FetchBodies:     cfg.News.FetchBodies,
		DisclosureDays:  cfg.Dart.LookbackDays,
		DisclosureMax:   cfg.Dart.MaxCount,
		Concurrency:     cfg.Verifier.GatherLimit,
	})

	scheduler := verifier.NewScheduler(analyzer, cfg.Verifier.ConcurrentLimit)
	return verifier.New(gatherer, scheduler, analyzer)
}

func persistRun(ctx context.Context, verified []model.VerifiedCandidate) error {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(ctx); err != nil {
		return err
	}

	run, err := st.CreateRun(ctx, len(verified))
	if err != nil {
		return err
	}
	if err := st.SaveVerified(ctx, run.ID, verified); err != nil {
		_ = st.FailRun(ctx, run.ID)
		return err
	}
	if err := st.CompleteRun(ctx, run.ID, len(verifier.Passed(verified))); err != nil {
		return err
	}

	zap.L().Info("verify: run persisted",
		zap.String("run_id", run.ID),
		zap.Int("candidates", len(verified)),
	)
	return nil
}

// loadCandidates reads a candidate list from a JSON or YAML file.
func loadCandidates(path string) ([]model.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read candidates %s", path)
	}

	var candidates []model.Candidate
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &candidates); err != nil {
			return nil, eris.Wrapf(err, "parse yaml candidates %s", path)
		}
	default:
		if err := json.Unmarshal(data, &candidates); err != nil {
			return nil, eris.Wrapf(err, "parse json candidates %s", path)
		}
	}

	if len(candidates) == 0 {
		return nil, eris.Errorf("no candidates in %s", path)
	}
	return candidates, nil
}

func filterByCode(candidates []model.Candidate, code string) []model.Candidate {
	var out []model.Candidate
	for _, c := range candidates {
		if c.Code == code {
			out = append(out, c)
		}
	}
	return out
}
