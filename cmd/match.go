package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/matching"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a resume against a job description",
	Run:   match,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("resume", "", "file with the resume text")
	matchCmd.Flags().String("job", "", "file with the job description")
	matchCmd.Flags().Int64("application", 0, "application id to attach to log entries")
	matchCmd.Flags().Int64("job-id", 0, "job id to attach to log entries")

	matchCmd.MarkFlagRequired("resume")
	matchCmd.MarkFlagRequired("job")
}

func match(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	baseLogger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating logger: %s", err)
	}
	defer baseLogger.Sync()

	config, err := getConfig()
	if err != nil {
		baseLogger.Fatal("getting config", zap.Error(err))
	}

	applicationID, _ := cmd.Flags().GetInt64("application")
	jobID, _ := cmd.Flags().GetInt64("job-id")
	appLogger := logger.WithApplication(baseLogger, applicationID, jobID)

	resume, err := readText(cmd.Flag("resume").Value.String())
	if err != nil {
		appLogger.Fatal("reading resume", zap.Error(err))
	}
	job, err := readText(cmd.Flag("job").Value.String())
	if err != nil {
		appLogger.Fatal("reading job description", zap.Error(err))
	}

	req := matching.Request{ResumeText: resume, JobDescription: job}
	if err := matching.Validate(req); err != nil {
		appLogger.Fatal("invalid match request", zap.Error(err))
	}

	result := newOrchestrator(ctx, config, appLogger).Match(ctx, req)

	if err := printJSON(result); err != nil {
		appLogger.Fatal("printing result", zap.Error(err))
	}
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", path, err)
	}
	return string(data), nil
}

func printJSON(v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(pretty))
	return err
}
