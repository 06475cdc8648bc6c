package llm

import (
	"errors"
	"strings"

	"github.com/spachava753/gai"

	"github.com/ranaklabs/ranak/internal/config"
)

// toDialog converts request turns into a gai dialog, oldest first.
func toDialog(turns []Turn) gai.Dialog {
	dialog := make(gai.Dialog, 0, len(turns))
	for _, turn := range turns {
		role := gai.User
		if turn.Role == Assistant {
			role = gai.Assistant
		}
		dialog = append(dialog, gai.Message{
			Role:   role,
			Blocks: []gai.Block{gai.TextBlock(turn.Content)},
		})
	}
	return dialog
}

// toGenOpts maps the sampling parameters gai understands. Seed has no gai
// counterpart; it can be injected with a patchRequest JSON patch.
func toGenOpts(p config.GenerationParams) *gai.GenOpts {
	opts := &gai.GenOpts{}
	if p.Temperature != nil {
		setNumber(&opts.Temperature, *p.Temperature)
	}
	if p.TopP != nil {
		setNumber(&opts.TopP, *p.TopP)
	}
	if p.MaxTokens != nil {
		setNumber(&opts.MaxGenerationTokens, *p.MaxTokens)
	}
	return opts
}

type number interface {
	~int | ~int32 | ~int64 | ~uint | ~float32 | ~float64
}

func setNumber[T, V number](dst **T, v V) {
	n := T(v)
	*dst = &n
}

// responseText joins the text content blocks of the first candidate.
// Thinking and tool blocks are dropped.
func responseText(resp gai.Response) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", errors.New("provider returned no candidates")
	}
	var sb strings.Builder
	for _, block := range resp.Candidates[0].Blocks {
		if block.BlockType != gai.Content || block.ModalityType != gai.Text || block.Content == nil {
			continue
		}
		sb.WriteString(block.Content.String())
	}
	return sb.String(), nil
}
