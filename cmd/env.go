package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// envCmd represents the env command
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print environment variables",
	Long:  `Print all environment variables used by ranak.`,
	Run: func(cmd *cobra.Command, args []string) {
		printEnvironmentVariables()
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
}

func printEnvironmentVariables() {
	fmt.Println("Ranak Environment Variables:")
	fmt.Println("============================")

	// Helper function to mask sensitive values
	maskSensitive := func(value string) string {
		if len(value) <= 8 {
			return "********"
		}
		return value[:4] + "..." + value[len(value)-4:]
	}

	printVar := func(name, description string, sensitive bool) {
		value := os.Getenv(name)
		displayValue := value
		if sensitive && value != "" {
			displayValue = maskSensitive(value)
		}
		if value == "" {
			displayValue = "(not set)"
		}
		fmt.Printf("  %-24s - %s\n    Value: %s\n\n", name, description, displayValue)
	}

	// API Keys
	fmt.Println("\nAPI Keys (names are set per model with api_key_env):")
	printVar("OPENAI_API_KEY", "Common key for OpenAI models", true)
	printVar("ANTHROPIC_API_KEY", "Common key for Claude models", true)
	printVar("GEMINI_API_KEY", "Common key for Google Gemini models", true)

	fmt.Println("\nProviders:")
	printVar("OLLAMA_HOST", "Ollama server when the model has no base_url", false)

	fmt.Println("\nRanak:")
	printVar("RANAK_MODEL", "Model ref to use (overridden by --model)", false)
	printVar("RANAK_LOG_LEVEL", "Log level (overridden by --log-level)", false)
	printVar("RANAK_LOG_FILE", "Log destination for the interactive view", false)
}
