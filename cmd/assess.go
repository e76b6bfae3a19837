package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/apperr"
	"github.com/spigell/resume-scorer/internal/assessment"
	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/store"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Score an assessment submission and record the result",
	Run:   assess,
}

func init() {
	rootCmd.AddCommand(assessCmd)

	assessCmd.Flags().String("key", "", "job record file with the answer key ({\"questions\": [...]})")
	assessCmd.Flags().String("answers", "", "submission file ({\"answers\": {\"0\": \"A\"}})")
	assessCmd.Flags().Int64("application", 0, "application id the submission belongs to")

	assessCmd.MarkFlagRequired("key")
	assessCmd.MarkFlagRequired("answers")
	assessCmd.MarkFlagRequired("application")
}

func assess(cmd *cobra.Command, _ []string) {
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

	applicationID, _ := cmd.Flags().GetInt64("application")

	keyData, err := os.ReadFile(cmd.Flag("key").Value.String())
	if err != nil {
		logger.Fatal("reading answer key", zap.Error(err))
	}
	questions, err := assessment.ParseKey(keyData)
	if err != nil {
		logger.Fatal("parsing answer key", zap.Error(err))
	}

	submission, err := readSubmission(cmd.Flag("answers").Value.String())
	if err != nil {
		logger.Fatal("reading submission", zap.Error(err))
	}

	results, err := store.Open(config.Store, logger, viper.GetBool("debug"))
	if err != nil {
		logger.Fatal("opening assessment store", zap.Error(err))
	}
	defer results.Close()

	result, err := assessment.NewService(results, logger).Submit(ctx, applicationID, questions, submission)
	switch {
	case errors.Is(err, apperr.ErrDuplicateSubmission):
		logger.Fatal("assessment rejected", zap.Error(err))
	case err != nil:
		logger.Fatal("scoring assessment", zap.Error(err))
	}

	if err := printJSON(result); err != nil {
		logger.Fatal("printing result", zap.Error(err))
	}
}

func readSubmission(path string) (assessment.Submission, error) {
	var sub assessment.Submission

	data, err := os.ReadFile(path)
	if err != nil {
		return sub, fmt.Errorf("read %q: %w", path, err)
	}
	if err := json.Unmarshal(data, &sub); err != nil {
		return sub, fmt.Errorf("decode %q: %w", path, err)
	}
	return sub, nil
}
