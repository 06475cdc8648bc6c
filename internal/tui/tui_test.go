package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranaklabs/ranak/internal/gateway"
	"github.com/ranaklabs/ranak/internal/llm"
	"github.com/ranaklabs/ranak/internal/prompt"
	"github.com/ranaklabs/ranak/internal/session"
)

func newTestModel(t *testing.T, replies ...llm.ScriptedReply) (model, *llm.ScriptedGenerator) {
	t.Helper()
	gen := llm.NewScriptedGenerator(replies...)
	gw := gateway.NewAssistantGateway(gen, gateway.WithRetry(1, nil))
	sess, err := session.New(session.Options{Gateway: gw, RestoreOnFailure: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	m := newModel(context.Background(), Options{Session: sess, OutputDir: t.TempDir(), ModelName: "test"})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(model), gen
}

// press sends a key and runs the resulting command, feeding its message
// back into the model.
func press(t *testing.T, m model, key tea.KeyMsg) model {
	t.Helper()
	updated, cmd := m.Update(key)
	m = updated.(model)
	if cmd == nil {
		return m
	}
	msg := cmd()
	switch msg.(type) {
	case responseMsg, exportedMsg:
		updated, _ = m.Update(msg)
		return updated.(model)
	}
	return m
}

func TestAskThenSubtopics(t *testing.T) {
	m, gen := newTestModel(t, llm.Replies("Entropy is a measure of disorder.", "- Thermodynamics")...)

	m.input.SetValue("What is entropy?")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"Entropy is a measure of disorder."}, m.fragments)
	assert.Equal(t, session.ResponseReady, m.state)
	assert.Empty(t, m.input.Value())
	assert.False(t, m.busy)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, []string{"- Thermodynamics"}, m.fragments)

	reqs := gen.Requests()
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs[1].Turns[0].Content, "Entropy is a measure of disorder.")
}

func TestBlankAskIsWarning(t *testing.T) {
	m, gen := newTestModel(t)

	m.input.SetValue("   ")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(model)
	assert.Nil(t, cmd)
	assert.Equal(t, noticeWarn, m.level)
	assert.Equal(t, session.Idle, m.state)
	assert.Empty(t, gen.Requests())
}

func TestSummariseBeforeAskIsWarning(t *testing.T) {
	m, gen := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, noticeWarn, m.level)
	assert.Equal(t, session.Idle, m.state)
	assert.Empty(t, gen.Requests())
}

func TestTriggerWhileBusyIsIgnored(t *testing.T) {
	m, _ := newTestModel(t, llm.Replies("answer")...)

	m.input.SetValue("q")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m = updated.(model)
	assert.True(t, m.busy)

	updated, second := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = updated.(model)
	assert.Nil(t, second)
	assert.Equal(t, noticeWarn, m.level)

	updated, _ = m.Update(cmd())
	m = updated.(model)
	assert.False(t, m.busy)
	assert.Equal(t, []string{"answer"}, m.fragments)
}

func TestGatewayFailureShowsError(t *testing.T) {
	m, _ := newTestModel(t,
		llm.ScriptedReply{Text: "first"},
		llm.ScriptedReply{Err: errors.New("provider down")},
	)

	m.input.SetValue("q")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Equal(t, noticeError, m.level)
	assert.Contains(t, m.notice, "provider down")
	assert.Equal(t, []string{"first"}, m.fragments)
	assert.Equal(t, session.ResponseReady, m.state)
}

func TestDownloads(t *testing.T) {
	m, _ := newTestModel(t, llm.Replies("Hello")...)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Equal(t, noticeWarn, m.level, "download before any response")

	m.input.SetValue("q")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	for _, key := range []tea.KeyType{tea.KeyCtrlW, tea.KeyCtrlE, tea.KeyCtrlP} {
		m = press(t, m, tea.KeyMsg{Type: key})
		assert.Equal(t, noticeInfo, m.level, m.notice)
	}

	for _, name := range []string{"assistant_response.docx", "assistant_response.csv", "assistant_response.pdf"} {
		_, err := os.Stat(filepath.Join(m.outputDir, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(m.outputDir, "assistant_response.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Assistant Responses\r\nHello\r\n", string(data))
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestViewShowsButtons(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	for _, label := range []string{"Ask", "Generate Subtopics", "Summarise", "Download Word", "Download CSV", "Download PDF"} {
		assert.Contains(t, view, label)
	}
}

// blockingGateway holds every request until its context is cancelled.
type blockingGateway struct {
	started chan struct{}
}

func (g *blockingGateway) Send(ctx context.Context, _ string, _ gateway.FragmentHandler) error {
	close(g.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestViewExitWaitsForInflightRequest(t *testing.T) {
	gw := &blockingGateway{started: make(chan struct{})}
	sess, err := session.New(session.Options{Gateway: gw})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := newModel(ctx, Options{Session: sess})
	m.input.SetValue("What is entropy?")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- cmd() }()
	<-gw.started

	// what Run does once the program has returned
	cancel()
	m.requests.closeAndWait()
	assert.NotEqual(t, session.AwaitingResponse, sess.State())
	require.NoError(t, sess.Close())

	select {
	case msg := <-msgs:
		resp, ok := msg.(responseMsg)
		require.True(t, ok)
		assert.Error(t, resp.err)
	case <-time.After(5 * time.Second):
		t.Fatal("request did not return after the view context was cancelled")
	}

	assert.Nil(t, triggerCmd(ctx, m.requests, sess, prompt.Ask, "again")())
}
