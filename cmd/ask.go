package cmd

import (
	"errors"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ranaklabs/ranak/internal/commands"
	"github.com/ranaklabs/ranak/internal/prompt"
)

var (
	askExport    bool
	askNoStdin   bool
	askFollowUps []prompt.Action
)

// followUpValue is a boolean flag that records its action in the shared
// slice each time it is set, preserving the order given on the command line.
type followUpValue struct {
	action prompt.Action
	into   *[]prompt.Action
}

func (v *followUpValue) String() string { return "false" }

func (v *followUpValue) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if b {
		*v.into = append(*v.into, v.action)
	}
	return nil
}

func (v *followUpValue) Type() string { return "bool" }

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question without the interactive view",
	Long: `Ask a question, optionally followed by subtopics and summary requests
in the order the flags are given. The question is read from the arguments
and from stdin when stdin is piped. Each response is printed as it arrives.`,
	Example: `  ranak ask "What is entropy?"
  ranak ask --subtopics --summarize "What is entropy?"
  cat notes.md | ranak ask --summarize "Explain the text above" --export`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		question, err := commands.ReadQuestion(cmd.Context(), commands.ReadQuestionOptions{
			Args:      args,
			Stdin:     os.Stdin,
			SkipStdin: askNoStdin,
		})
		if err != nil {
			return err
		}
		if question == "" {
			return errors.New("no question provided: pass it as an argument or pipe it on stdin")
		}

		r, err := openResearch(cmd)
		if err != nil {
			return err
		}
		defer r.Close()

		return commands.Ask(cmd.Context(), commands.AskOptions{
			Session:   r.session,
			Question:  question,
			FollowUps: askFollowUps,
			Export:    askExport,
			OutputDir: r.cfg.Export.Dir,
			Stdout:    os.Stdout,
			Stderr:    os.Stderr,
		})
	},
}

func init() {
	for _, f := range []struct {
		name   string
		action prompt.Action
		usage  string
	}{
		{"subtopics", prompt.Subtopics, "Generate subtopics of the latest response"},
		{"summarize", prompt.Summarize, "Summarise the latest response"},
	} {
		flag := askCmd.Flags().VarPF(&followUpValue{action: f.action, into: &askFollowUps}, f.name, "", f.usage)
		flag.NoOptDefVal = "true"
	}
	askCmd.Flags().BoolVar(&askExport, "export", false, "Write Word, CSV and PDF downloads of the final response")
	askCmd.Flags().BoolVar(&askNoStdin, "no-stdin", false, "Do not read the question from stdin")
	rootCmd.AddCommand(askCmd)
}
