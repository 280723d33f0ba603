package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type runResult struct {
	Key            string   `json:"key"`
	Skipped        bool     `json:"skipped"`
	PredictedAngle *float64 `json:"predicted_angle"`
	Suggestions    []string `json:"suggestions"`
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Predict the angle for the latest sensor record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var result runResult
		if err := newClient().PostJSON(cmd.Context(), endpoint("/api/v1/predictions/run"), struct{}{}, &result); err != nil {
			return fmt.Errorf("run prediction: %w", err)
		}
		printRunResult(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func printRunResult(w io.Writer, r runResult) {
	switch {
	case r.Key == "":
		fmt.Fprintln(w, "No sensor records found.")
	case r.Skipped:
		fmt.Fprintf(w, "Record %s skipped: missing mpu1 or mpu2 data.\n", r.Key)
	case r.PredictedAngle != nil:
		fmt.Fprintf(w, "Record %s: predicted angle %.2f\n", r.Key, *r.PredictedAngle)
		for _, s := range r.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
}
