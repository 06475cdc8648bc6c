// Package tui is the interactive terminal view of a research session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/ranaklabs/ranak/internal/export"
	"github.com/ranaklabs/ranak/internal/prompt"
	"github.com/ranaklabs/ranak/internal/render"
	"github.com/ranaklabs/ranak/internal/session"
)

const title = "Ranak Research Agent"

type Options struct {
	Session *session.Session
	// OutputDir receives downloaded artifacts.
	OutputDir string
	// ModelName is shown in the header.
	ModelName string
	Input     io.Reader
	Output    io.Writer
}

// Run starts the interactive view and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Session == nil {
		return errors.New("tui requires a session")
	}
	in := opts.Input
	if in == nil {
		in = os.Stdin
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if f, ok := out.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return errors.New("stdout is not a TTY; use `ranak ask` for scripted use")
	}

	// Requests started by the view are bound to viewCtx, and Run does not
	// return while one is still using the session.
	viewCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newModel(viewCtx, opts)
	prog := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(viewCtx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := prog.Run()
	cancel()
	m.requests.closeAndWait()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// requestTracker counts in-flight request cycles. Once closed it refuses new
// ones.
type requestTracker struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

func (r *requestTracker) start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.wg.Add(1)
	return true
}

func (r *requestTracker) done() { r.wg.Done() }

func (r *requestTracker) closeAndWait() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.wg.Wait()
}

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeWarn
	noticeError
)

type model struct {
	ctx       context.Context
	requests  *requestTracker
	sess      *session.Session
	outputDir string
	modelName string

	input    textinput.Model
	viewport viewport.Model
	renderer render.Renderer

	width  int
	height int

	// fragments is the snapshot last handed back by a finished command.
	fragments []string
	state     session.State
	busy      bool
	pending   string
	notice    string
	level     noticeLevel
}

// responseMsg carries the outcome of one request cycle back to Update.
type responseMsg struct {
	action    prompt.Action
	fragments []string
	state     session.State
	err       error
}

type exportedMsg struct {
	format export.Format
	path   string
	err    error
}

func newModel(ctx context.Context, opts Options) model {
	inp := textinput.New()
	inp.Placeholder = "Ask a research question…"
	inp.Prompt = "› "
	inp.CharLimit = 0
	inp.Focus()

	vp := viewport.New(0, 0)
	vp.SetContent("")

	return model{
		ctx:       ctx,
		requests:  &requestTracker{},
		sess:      opts.Session,
		outputDir: opts.OutputDir,
		modelName: opts.ModelName,
		input:     inp,
		viewport:  vp,
		renderer:  &render.PlainTextRenderer{},
		fragments: opts.Session.Fragments(),
		state:     opts.Session.State(),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func triggerCmd(ctx context.Context, requests *requestTracker, sess *session.Session, action prompt.Action, input string) tea.Cmd {
	return func() tea.Msg {
		if !requests.start() {
			return nil
		}
		defer requests.done()
		err := sess.Trigger(ctx, action, input)
		return responseMsg{
			action:    action,
			fragments: sess.Fragments(),
			state:     sess.State(),
			err:       err,
		}
	}
}

func exportCmd(sess *session.Session, f export.Format, dir string) tea.Cmd {
	return func() tea.Msg {
		a, err := sess.Export(f)
		if err != nil {
			return exportedMsg{format: f, err: err}
		}
		path, err := a.Save(dir)
		return exportedMsg{format: f, path: path, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.renderer = render.NewWidth(max(20, m.viewport.Width-2))
		m.rerender()
		return m, nil
	case responseMsg:
		m.busy = false
		m.pending = ""
		m.fragments = msg.fragments
		m.state = msg.state
		switch {
		case msg.err == nil:
			m.setNotice(noticeInfo, msg.action.Label()+" complete.")
		case session.IsWarning(msg.err):
			m.setNotice(noticeWarn, warningText(msg.err))
		default:
			m.setNotice(noticeError, msg.action.Label()+" failed: "+msg.err.Error())
		}
		m.rerender()
		return m, nil
	case exportedMsg:
		m.busy = false
		m.pending = ""
		switch {
		case msg.err == nil:
			m.setNotice(noticeInfo, "Saved "+msg.path)
		case session.IsWarning(msg.err):
			m.setNotice(noticeWarn, warningText(msg.err))
		default:
			m.setNotice(noticeError, msg.format.Label()+" failed: "+msg.err.Error())
		}
		return m, nil
	case tea.KeyMsg:
		handled, cmd := m.handleKey(msg)
		if handled {
			return m, cmd
		}
		if m.busy {
			return m, nil
		}
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return true, tea.Quit
	case "enter":
		return true, m.trigger(prompt.Ask)
	case "ctrl+t":
		return true, m.trigger(prompt.Subtopics)
	case "ctrl+s":
		return true, m.trigger(prompt.Summarize)
	case "ctrl+w":
		return true, m.download(export.Word)
	case "ctrl+e":
		return true, m.download(export.CSV)
	case "ctrl+p":
		return true, m.download(export.PDF)
	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return true, cmd
	}
	return false, nil
}

func (m *model) trigger(action prompt.Action) tea.Cmd {
	if m.busy {
		m.setNotice(noticeWarn, "Still waiting for the assistant ("+m.pending+").")
		return nil
	}
	input := ""
	if action == prompt.Ask {
		input = m.input.Value()
		if strings.TrimSpace(input) == "" {
			m.setNotice(noticeWarn, "Please enter a question first.")
			return nil
		}
		m.input.Reset()
	}
	m.busy = true
	m.pending = action.Label()
	m.state = session.AwaitingResponse
	m.setNotice(noticeInfo, action.Label()+"…")
	return triggerCmd(m.ctx, m.requests, m.sess, action, input)
}

func (m *model) download(f export.Format) tea.Cmd {
	if m.busy {
		m.setNotice(noticeWarn, "Still waiting for the assistant ("+m.pending+").")
		return nil
	}
	if len(m.fragments) == 0 {
		m.setNotice(noticeWarn, warningText(session.ErrNothingToExport))
		return nil
	}
	m.busy = true
	m.pending = f.Label()
	return exportCmd(m.sess, f, m.outputDir)
}

func (m *model) setNotice(level noticeLevel, text string) {
	m.level = level
	m.notice = text
}

func warningText(err error) string {
	var validation *prompt.ValidationError
	var precondition *prompt.PreconditionError
	switch {
	case errors.As(err, &validation):
		return "Please enter a question first."
	case errors.As(err, &precondition):
		return "There is no response to work with yet. Ask a question first."
	case errors.Is(err, session.ErrNothingToExport):
		return "Nothing to download yet. Ask a question first."
	default:
		return err.Error()
	}
}

const (
	headerHeight = 2
	footerHeight = 3
)

func (m *model) resize() {
	m.viewport.Width = max(0, m.width)
	m.viewport.Height = max(0, m.height-headerHeight-footerHeight)
	m.input.Width = max(0, m.width-4)
}

func (m *model) rerender() {
	if len(m.fragments) == 0 {
		m.viewport.SetContent(lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("Responses will appear here."))
		return
	}
	m.viewport.SetContent(render.Fragments(m.renderer, m.fragments))
	m.viewport.GotoTop()
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	buttonStyle = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("236"))
)

func (m model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	header := titleStyle.Render(title)
	if m.modelName != "" {
		header += dimStyle.Render(fmt.Sprintf("  %s · %s", m.modelName, m.state))
	}

	var notice string
	switch m.level {
	case noticeWarn:
		notice = warnStyle.Render(m.notice)
	case noticeError:
		notice = errorStyle.Render(m.notice)
	default:
		notice = infoStyle.Render(m.notice)
	}

	buttons := []string{
		buttonStyle.Render("⏎ Ask"),
		buttonStyle.Render("^T Generate Subtopics"),
		buttonStyle.Render("^S Summarise"),
		buttonStyle.Render("^W Download Word"),
		buttonStyle.Render("^E Download CSV"),
		buttonStyle.Render("^P Download PDF"),
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.viewport.View(),
		m.input.View(),
		lipgloss.JoinHorizontal(lipgloss.Top, buttons...),
		notice,
	)
}
