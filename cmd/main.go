package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sentiment-scryper",
	Short: "A CLI for managing the sentiment analyzer services",
	Long: `Sentiment Scryper searches online news and videos, classifies every title
with a language model and streams the results. Run the analyzer-service binary
to serve the API and the migrate binary to manage the schema.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
