package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/spf13/cobra"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Score an interview transcript, or show the feedback of an interview",
	Long: `Score a finished interview transcript and store the feedback.

The transcript file holds either a JSON array of {"role","content"} turns or an object
with a "transcript" array. Without --transcript the stored feedback view is printed,
with the placeholder record when none exists yet.`,
	RunE: runFeedback,
}

var (
	feedbackInterviewID string
	feedbackUserID      string
	feedbackTranscript  string
	feedbackID          string
	feedbackPretty      bool
)

func init() {
	feedbackCmd.Flags().StringVar(&feedbackInterviewID, "interview", "", "Interview ID (required)")
	feedbackCmd.Flags().StringVar(&feedbackUserID, "user", "", "User ID (required)")
	feedbackCmd.Flags().StringVar(&feedbackTranscript, "transcript", "", "Path to transcript JSON file, '-' for stdin")
	feedbackCmd.Flags().StringVar(&feedbackID, "feedback-id", "", "Overwrite this feedback record instead of the pair's record")
	feedbackCmd.Flags().BoolVar(&feedbackPretty, "pretty", false, "Print the feedback view as a formatted summary instead of JSON")

	_ = feedbackCmd.MarkFlagRequired("interview")
	_ = feedbackCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, _ []string) error {
	var turns []types.TranscriptTurn
	if feedbackTranscript != "" {
		data, err := readInput(cmd.InOrStdin(), feedbackTranscript)
		if err != nil {
			return err
		}
		turns, err = decodeTranscript(data)
		if err != nil {
			return err
		}
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

	if feedbackTranscript == "" {
		view, err := a.feedback.GetFeedbackView(ctx, feedbackInterviewID, feedbackUserID)
		if err != nil {
			return fmt.Errorf("failed to load feedback: %w", err)
		}
		if view == nil {
			return fmt.Errorf("interview not found: %s", feedbackInterviewID)
		}
		if feedbackPretty {
			observability.NewPrinter(cmd.OutOrStdout()).PrintFeedbackView(view)
			return nil
		}
		return writeJSON(cmd.OutOrStdout(), view)
	}

	result := a.feedback.CreateFeedback(ctx, types.CreateFeedbackRequest{
		InterviewID: feedbackInterviewID,
		UserID:      feedbackUserID,
		Transcript:  turns,
		FeedbackID:  feedbackID,
	})
	if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("feedback was not created; see the log for the cause")
	}
	return nil
}

// readInput reads path, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript file: %w", err)
	}
	return data, nil
}

// decodeTranscript accepts a bare array of turns or {"transcript": [...]}.
func decodeTranscript(data []byte) ([]types.TranscriptTurn, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("transcript is empty")
	}

	var turns []types.TranscriptTurn
	if data[0] == '[' {
		if err := json.Unmarshal(data, &turns); err != nil {
			return nil, fmt.Errorf("failed to parse transcript: %w", err)
		}
		return turns, nil
	}

	var wrapped struct {
		Transcript []types.TranscriptTurn `json:"transcript"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse transcript: %w", err)
	}
	return wrapped.Transcript, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
