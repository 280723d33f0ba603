package cmd

import (
	apphttp "KneeHeal/backend/go/pkg/http"
	"KneeHeal/backend/go/pkg/circuitbreaker"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "kneeheal-cli",
	Short: "A CLI client to interact with the KneeHeal prediction service",
	Long:  `A command-line interface for triggering knee flexion predictions and reading recent annotated records.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the prediction service")
}

func newClient() *apphttp.Client {
	return apphttp.NewClientWithBreaker(circuitbreaker.New(3, 1, 10*time.Second))
}

func endpoint(path string) string {
	return strings.TrimRight(serverURL, "/") + path
}
