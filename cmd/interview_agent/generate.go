package main

import (
	"context"
	"fmt"

	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate interview questions and store a finalized interview",
	RunE:  runGenerate,
}

var (
	generateRole      string
	generateLevel     string
	generateType      string
	generateTechstack string
	generateAmount    int
	generateUserID    string
	generatePretty    bool
)

func init() {
	generateCmd.Flags().StringVar(&generateRole, "role", "", "Job role, e.g. \"Backend Engineer\" (required)")
	generateCmd.Flags().StringVar(&generateLevel, "level", "", "Experience level, e.g. junior (required)")
	generateCmd.Flags().StringVar(&generateType, "type", "mixed", "Question focus: technical, behavioural or mixed")
	generateCmd.Flags().StringVar(&generateTechstack, "techstack", "", "Comma-separated tech stack")
	generateCmd.Flags().IntVar(&generateAmount, "amount", 5, "Number of questions")
	generateCmd.Flags().StringVar(&generateUserID, "user", "", "Owner user ID (required)")
	generateCmd.Flags().BoolVar(&generatePretty, "pretty", false, "Print the interview as a formatted summary instead of JSON")

	_ = generateCmd.MarkFlagRequired("role")
	_ = generateCmd.MarkFlagRequired("level")
	_ = generateCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	req := types.GenerateQuestionsRequest{
		Role:      generateRole,
		Type:      generateType,
		Level:     generateLevel,
		Techstack: generateTechstack,
		Amount:    generateAmount,
		UserID:    generateUserID,
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	interview, err := a.interviews.GenerateQuestions(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to generate interview: %w", err)
	}
	if generatePretty {
		observability.NewPrinter(cmd.OutOrStdout()).PrintInterview(interview)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), interview)
}
