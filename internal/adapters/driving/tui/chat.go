package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/askdoc-labs/askdoc-cli/internal/core/ports/driving"
)

// turn is one question/answer exchange in the transcript.
type turn struct {
	question string
	answer   string
}

// answerMsg carries a completed answer back into the update loop.
type answerMsg struct {
	answer string
}

// answerErrMsg carries a failed turn back into the update loop.
type answerErrMsg struct {
	err error
}

// Chat is the bubbletea model for the interactive question loop.
type Chat struct {
	session driving.SessionService
	ctx     context.Context
	styles  *Styles

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	turns   []turn
	pending string // question awaiting an answer, empty when idle
	err     error

	width  int
	height int
	ready  bool
}

// NewChat creates a chat model over the given session.
func NewChat(session driving.SessionService) *Chat {
	styles := DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Ask a question about the document..."
	ti.Focus()
	ti.CharLimit = 512

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Chat{
		session: session,
		ctx:     context.Background(),
		styles:  styles,
		input:   ti,
		spinner: sp,
		width:   80,
		height:  24,
	}
}

// WithContext sets the context used for session calls.
func (c *Chat) WithContext(ctx context.Context) *Chat {
	c.ctx = ctx
	return c
}

// Init initialises the chat model.
func (c *Chat) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the chat model.
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		c.resize()
		c.ready = true
		return c, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return c, tea.Quit
		case tea.KeyEnter:
			return c, c.submit()
		}

	case answerMsg:
		c.turns = append(c.turns, turn{question: c.pending, answer: msg.answer})
		c.pending = ""
		c.err = nil
		c.refreshTranscript()
		return c, nil

	case answerErrMsg:
		c.pending = ""
		c.err = msg.err
		return c, nil

	case spinner.TickMsg:
		if c.pending == "" {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	c.input, cmd = c.input.Update(msg)
	cmds = append(cmds, cmd)

	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return c, tea.Batch(cmds...)
}

// submit sends the typed question to the session.
func (c *Chat) submit() tea.Cmd {
	question := strings.TrimSpace(c.input.Value())
	if question == "" || c.pending != "" {
		return nil
	}

	c.pending = question
	c.err = nil
	c.input.SetValue("")

	ask := func() tea.Msg {
		answer, err := c.session.Ask(c.ctx, question)
		if err != nil {
			return answerErrMsg{err: err}
		}
		return answerMsg{answer: answer}
	}
	return tea.Batch(c.spinner.Tick, ask)
}

// View renders the chat interface.
func (c *Chat) View() string {
	if !c.ready {
		return "Loading..."
	}

	var b strings.Builder

	status := c.session.Status()
	title := fmt.Sprintf("askdoc — %s", status.SourceName)
	b.WriteString(c.styles.Title.Render(title))
	b.WriteString("\n\n")

	b.WriteString(c.viewport.View())
	b.WriteString("\n")

	switch {
	case c.pending != "":
		b.WriteString(c.styles.Muted.Render(c.spinner.View() + " Thinking..."))
	case c.err != nil:
		b.WriteString(c.styles.Error.Render("Error: " + c.err.Error()))
	default:
		b.WriteString(c.styles.Input.Width(c.width - 4).Render(c.input.View()))
	}
	b.WriteString("\n")
	b.WriteString(c.styles.Muted.Render("enter: ask · esc: quit"))

	return b.String()
}

// resize adjusts component dimensions to the terminal size.
func (c *Chat) resize() {
	inputWidth := c.width - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	c.input.Width = inputWidth

	viewportHeight := c.height - 7
	if viewportHeight < 3 {
		viewportHeight = 3
	}
	if c.viewport.Width == 0 {
		c.viewport = viewport.New(c.width, viewportHeight)
	} else {
		c.viewport.Width = c.width
		c.viewport.Height = viewportHeight
	}
	c.refreshTranscript()
}

// refreshTranscript rebuilds the viewport content from the turns.
func (c *Chat) refreshTranscript() {
	var b strings.Builder
	for i, t := range c.turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(c.styles.Question.Render("You: " + t.question))
		b.WriteString("\n")
		b.WriteString(c.styles.Answer.Render(t.answer))
	}
	c.viewport.SetContent(b.String())
	c.viewport.GotoBottom()
}
