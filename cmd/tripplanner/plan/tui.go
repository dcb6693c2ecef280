package plancmder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papercomputeco/tripplanner/pkg/form"
	"github.com/papercomputeco/tripplanner/pkg/itinerary"
	"github.com/papercomputeco/tripplanner/pkg/trip"
)

var (
	brandPrimary = lipgloss.Color("#A855F7")
	brandError   = lipgloss.Color("#F87171")
	textMuted    = lipgloss.Color("#9CA3AF")

	titleStyle = lipgloss.NewStyle().
			Foreground(brandPrimary).
			Bold(true).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(textMuted)

	focusedLabelStyle = lipgloss.NewStyle().
				Foreground(brandPrimary).
				Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(brandError)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(brandPrimary).
			Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(textMuted).
			Italic(true)
)

var fieldLabels = map[trip.Field]string{
	trip.FieldCurrentLocation: "Current Location",
	trip.FieldDestination:     "Destination",
	trip.FieldStartDate:       "Start Date",
	trip.FieldEndDate:         "End Date",
}

type phase int

const (
	phaseForm phase = iota
	phaseWaiting
	phasePlan
)

// chunkMsg carries streamed text from the controller's observer.
type chunkMsg string

// planMsg is the outcome of one submission.
type planMsg struct {
	text string
	err  error
}

// revealMsg uncovers the next itinerary block.
type revealMsg struct{}

type model struct {
	ctx      context.Context
	ctrl     *form.Controller
	renderer *itinerary.Renderer

	phase    phase
	inputs   []textinput.Model
	focus    int
	hint     string
	spinner  spinner.Model
	received int

	viewport viewport.Model
	blocks   []itinerary.Block
	offsets  []time.Duration
	shown    int

	width  int
	height int
}

func newModel(ctx context.Context, ctrl *form.Controller, renderer *itinerary.Renderer) model {
	inputs := make([]textinput.Model, len(trip.Fields))
	for i, f := range trip.Fields {
		ti := textinput.New()
		ti.Prompt = "› "
		switch f {
		case trip.FieldCurrentLocation:
			ti.Placeholder = "Where are you now?"
		case trip.FieldDestination:
			ti.Placeholder = "Where to?"
		default:
			ti.Placeholder = "YYYY-MM-DD (from " + ctrl.Today() + ")"
			ti.CharLimit = len(trip.DateLayout)
		}
		inputs[i] = ti
	}
	inputs[0].Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(brandPrimary)

	return model{
		ctx:      ctx,
		ctrl:     ctrl,
		renderer: renderer,
		inputs:   inputs,
		spinner:  s,
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 1)
		m.refreshPlan()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.phase {
		case phaseForm:
			return m.updateForm(msg)
		case phasePlan:
			return m.updatePlan(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseWaiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case chunkMsg:
		m.received += len(msg)
		return m, nil

	case planMsg:
		return m.handlePlan(msg)

	case revealMsg:
		if m.phase != phasePlan || m.shown >= len(m.blocks) {
			return m, nil
		}
		m.shown++
		m.refreshPlan()
		return m, m.nextReveal()
	}

	return m, nil
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		return m, m.setFocus(m.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setFocus(m.focus - 1)
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		if m.focus < len(m.inputs)-1 {
			return m, m.setFocus(m.focus + 1)
		}
		return m.startSubmit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.syncField(m.focus, false)
	return m, cmd
}

func (m model) updatePlan(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.phase = phaseForm
		return m, m.setFocus(0)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// syncField pushes one input into the controller. Partly typed dates are held
// back so the end date is only clamped against a complete start date.
func (m *model) syncField(i int, force bool) {
	field := trip.Fields[i]
	value := strings.TrimSpace(m.inputs[i].Value())
	if !force && (field == trip.FieldStartDate || field == trip.FieldEndDate) {
		if _, err := time.Parse(trip.DateLayout, value); err != nil {
			return
		}
	}

	_ = m.ctrl.Set(field, value)
	if field == trip.FieldStartDate {
		m.inputs[len(m.inputs)-1].SetValue(m.ctrl.Details().EndDate)
	}
	m.hint = m.ctrl.ValidationMessage()
}

func (m *model) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	m.focus = ((i % n) + n) % n
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	return m.inputs[m.focus].Focus()
}

func (m model) startSubmit() (tea.Model, tea.Cmd) {
	for i := range m.inputs {
		m.syncField(i, true)
	}
	if m.hint != "" {
		return m, nil
	}
	if err := m.ctrl.Details().Validate(m.ctrl.Today()); err != nil {
		m.hint = validationHint(err)
		return m, nil
	}

	m.phase = phaseWaiting
	m.received = 0
	return m, tea.Batch(m.spinner.Tick, m.submit())
}

func (m model) submit() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		text, err := ctrl.Submit(ctx)
		return planMsg{text: text, err: err}
	}
}

func (m model) handlePlan(msg planMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// The failure is already logged; the form stays as it was so the
		// same trip can be submitted again.
		m.phase = phaseForm
		return m, m.setFocus(len(m.inputs) - 1)
	}

	m.phase = phasePlan
	m.blocks = itinerary.Parse(msg.text)
	m.offsets = itinerary.Schedule(m.blocks, itinerary.DefaultStagger)
	m.shown = 0
	m.viewport.GotoTop()
	m.refreshPlan()
	return m, m.nextReveal()
}

// nextReveal waits out the gap between the last shown block and the next one.
func (m model) nextReveal() tea.Cmd {
	if m.shown >= len(m.blocks) {
		return nil
	}
	delay := m.offsets[m.shown]
	if m.shown > 0 {
		delay -= m.offsets[m.shown-1]
	}
	if delay <= 0 {
		return func() tea.Msg { return revealMsg{} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return revealMsg{} })
}

func (m *model) refreshPlan() {
	if m.shown == 0 {
		m.viewport.SetContent("")
		return
	}
	out, err := m.renderer.Render(m.blocks[:m.shown])
	if err != nil {
		out = err.Error()
	}
	m.viewport.SetContent(out)
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("AI Travel Planner"))
	b.WriteString("\n")

	if m.phase == phasePlan {
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • esc edit trip • q quit"))
		return b.String()
	}

	for i, f := range trip.Fields {
		label := labelStyle.Render(fieldLabels[f])
		if i == m.focus && m.phase == phaseForm {
			label = focusedLabelStyle.Render(fieldLabels[f])
		}
		b.WriteString(label + "\n" + m.inputs[i].View() + "\n\n")
	}

	if m.hint != "" {
		b.WriteString(errorStyle.Render(m.hint) + "\n\n")
	}

	if m.phase == phaseWaiting {
		status := "Creating Your Perfect Trip..."
		if m.received > 0 {
			status = fmt.Sprintf("%s (%d characters received)", status, m.received)
		}
		b.WriteString(m.spinner.View() + " " + status + "\n")
	} else {
		b.WriteString(buttonStyle.Render("Plan My Journey") + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("tab next field • enter submit • esc quit"))
	return b.String()
}

func validationHint(err error) string {
	switch {
	case errors.Is(err, trip.ErrMissingField):
		return "Please fill in every field"
	case errors.Is(err, trip.ErrInvalidDate):
		return "Dates must be written as YYYY-MM-DD"
	case errors.Is(err, trip.ErrStartInPast):
		return "Start date cannot be in the past"
	case errors.Is(err, trip.ErrEndBeforeStart):
		return form.MsgEndBeforeStart
	}
	return err.Error()
}
