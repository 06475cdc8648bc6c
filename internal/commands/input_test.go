package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadQuestion(t *testing.T) {
	tests := []struct {
		name    string
		opts    ReadQuestionOptions
		want    string
		wantErr string
	}{
		{
			name: "args only",
			opts: ReadQuestionOptions{Args: []string{"What", "is", "entropy?"}},
			want: "What is entropy?",
		},
		{
			name: "stdin and args",
			opts: ReadQuestionOptions{
				Args:  []string{"Explain the text above."},
				Stdin: strings.NewReader("Entropy is a measure of disorder.\n"),
			},
			want: "Entropy is a measure of disorder.\n\nExplain the text above.",
		},
		{
			name: "stdin skipped",
			opts: ReadQuestionOptions{
				Args:      []string{"q"},
				Stdin:     strings.NewReader("ignored"),
				SkipStdin: true,
			},
			want: "q",
		},
		{
			name:    "binary stdin rejected",
			opts:    ReadQuestionOptions{Stdin: strings.NewReader("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")},
			wantErr: "unsupported stdin content type",
		},
		{
			name: "nothing",
			opts: ReadQuestionOptions{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadQuestion(context.Background(), tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
