package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type historyRecord struct {
	Key    string `json:"key"`
	Record struct {
		PredictedAngle *float64 `json:"predicted_angle"`
		Suggestions    []string `json:"suggestions"`
	} `json:"record"`
}

type historyResult struct {
	Records []historyRecord `json:"records"`
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent annotated records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		url := endpoint("/api/v1/predictions/history")
		if historyLimit > 0 {
			url += "?limit=" + strconv.Itoa(historyLimit)
		}
		var result historyResult
		if err := newClient().GetJSON(cmd.Context(), url, &result); err != nil {
			return fmt.Errorf("fetch history: %w", err)
		}
		printHistory(cmd.OutOrStdout(), result.Records)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "number of records to request (server default when 0)")
	rootCmd.AddCommand(historyCmd)
}

func printHistory(w io.Writer, records []historyRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No annotated records.")
		return
	}
	for _, r := range records {
		angle := "-"
		if r.Record.PredictedAngle != nil {
			angle = strconv.FormatFloat(*r.Record.PredictedAngle, 'f', 2, 64)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Key, angle, strings.Join(r.Record.Suggestions, "; "))
	}
}
