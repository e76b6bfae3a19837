package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/apperr"
	"github.com/spigell/resume-scorer/internal/assessment"
	"github.com/spigell/resume-scorer/internal/export"
	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/shortlist"
	"github.com/spigell/resume-scorer/internal/store"
)

const (
	PromptExit = "Exit"

	similarCandidates = 5
)

// shortlistInput is the document read by the shortlist command. An application
// without an assessment score takes it from the assessment store.
type shortlistInput struct {
	Applications []applicationInput  `json:"applications"`
	Profiles     []shortlist.Profile `json:"profiles"`
}

type applicationInput struct {
	ApplicationID   int64    `json:"application_id"`
	CandidateID     int64    `json:"candidate_id"`
	JobID           int64    `json:"job_id"`
	CVScore         float64  `json:"cv_score"`
	AssessmentScore *float64 `json:"assessment_score"`
}

var shortlistCmd = &cobra.Command{
	Use:   "shortlist",
	Short: "Rank applications by overall score",
	Run:   shortlistRun,
}

func init() {
	rootCmd.AddCommand(shortlistCmd)

	shortlistCmd.Flags().String("input", "", "file with applications and optional candidate profiles")
	shortlistCmd.Flags().Int("top", 0, "keep only the N best applications (0 keeps all)")
	shortlistCmd.Flags().String("xlsx", "", "also write the ranking to this workbook")
	shortlistCmd.Flags().BoolP("interactive", "i", false, "browse the ranking and similar candidates")

	shortlistCmd.MarkFlagRequired("input")
}

func shortlistRun(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting config", zap.Error(err))
	}

	input, err := readShortlistInput(cmd.Flag("input").Value.String())
	if err != nil {
		logger.Fatal("reading shortlist input", zap.Error(err))
	}

	results, err := store.Open(config.Store, logger, viper.GetBool("debug"))
	if err != nil {
		logger.Fatal("opening assessment store", zap.Error(err))
	}
	defer results.Close()

	apps, err := resolveApplications(ctx, input.Applications, results, logger)
	if err != nil {
		logger.Fatal("resolving assessment scores", zap.Error(err))
	}

	top, _ := cmd.Flags().GetInt("top")
	entries := shortlist.Top(shortlist.Rank(apps, shortlist.StaticWeightings(config.Shortlist.Weightings)), top)
	logger.Info("ranked applications", zap.Int("count", len(entries)))

	if path := cmd.Flag("xlsx").Value.String(); path != "" {
		written, err := export.Shortlist(entries, path)
		if err != nil {
			logger.Fatal("exporting shortlist", zap.Error(err))
		}
		logger.Info("shortlist exported", zap.String("filename", written))
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		if err := browse(entries, input.Profiles); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	if err := printJSON(entries); err != nil {
		logger.Fatal("printing ranking", zap.Error(err))
	}
}

func readShortlistInput(path string) (*shortlistInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	var input shortlistInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	return &input, nil
}

// resolveApplications fills missing assessment scores from stored results. An
// application that was never assessed scores 0.
func resolveApplications(ctx context.Context, in []applicationInput, results assessment.Store, log *zap.Logger) ([]shortlist.Application, error) {
	apps := make([]shortlist.Application, 0, len(in))
	for _, a := range in {
		app := shortlist.Application{
			ApplicationID: a.ApplicationID,
			CandidateID:   a.CandidateID,
			JobID:         a.JobID,
			CVScore:       a.CVScore,
		}

		if a.AssessmentScore != nil {
			app.AssessmentScore = *a.AssessmentScore
			apps = append(apps, app)
			continue
		}

		stored, err := results.Get(ctx, a.ApplicationID)
		switch {
		case errors.Is(err, apperr.ErrResultNotFound):
			logger.WithApplication(log, a.ApplicationID, a.JobID).Warn("no assessment result, scoring it as 0")
		case err != nil:
			return nil, fmt.Errorf("application %d: %w", a.ApplicationID, err)
		default:
			app.AssessmentScore = stored.PercentageScore
		}
		apps = append(apps, app)
	}
	return apps, nil
}

func browse(entries []shortlist.Entry, profiles []shortlist.Profile) error {
	items := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		items = append(items, fmt.Sprintf("#%d application %d / candidate %d / job %d / %.2f %s",
			e.Rank, e.ApplicationID, e.CandidateID, e.JobID, e.OverallScore, e.Recommendation,
		))
	}
	items = append(items, PromptExit)

	for {
		prompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: items,
			Size:  10,
		}

		idx, selected, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return err
		}
		if selected == PromptExit {
			return nil
		}

		entry := entries[idx]
		details := struct {
			shortlist.Entry
			Similar []shortlist.Similarity `json:"similar_candidates"`
		}{
			Entry:   entry,
			Similar: similarTo(entry.CandidateID, profiles),
		}
		if err := printJSON(details); err != nil {
			return err
		}
	}
}

func similarTo(candidateID int64, profiles []shortlist.Profile) []shortlist.Similarity {
	for _, p := range profiles {
		if p.CandidateID == candidateID && strings.TrimSpace(p.Text) != "" {
			return shortlist.Similar(p, profiles, similarCandidates)
		}
	}
	return []shortlist.Similarity{}
}
