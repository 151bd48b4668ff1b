// Package leaveform is the employee-facing leave submission form.
// Field-level rules (required values, date syntax) are validated inline
// by huh before anything leaves the terminal; the workflow controller
// re-checks the full submission so no invalid request ever reaches the
// network.
package leaveform

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/hr-console/internal/leave"
	"github.com/nhle/hr-console/internal/model"
	"github.com/nhle/hr-console/internal/theme"
)

// submitTimeout bounds the submission round trip.
const submitTimeout = 30 * time.Second

// LeaveSubmittedMsg is dispatched when the submission round trip
// finishes. On success Leave holds the created pending request.
type LeaveSubmittedMsg struct {
	Leave *model.LeaveRequest
	Err   error
}

// LeaveFormCancelMsg is dispatched when the user cancels the form.
type LeaveFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	leaveType string
	startDate string
	endDate   string
	reason    string
}

// Model is the Bubble Tea model for the leave submission form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	ctrl   *leave.Controller
	errMsg string
	width  int
	height int
}

// New creates a new leave form model bound to the workflow controller.
func New(ctrl *leave.Controller, width, height int) Model {
	return Model{
		fb:     &formBindings{leaveType: string(model.LeaveVacation)},
		ctrl:   ctrl,
		width:  width,
		height: height,
	}
}

// Start initializes a fresh form.
func (m *Model) Start() tea.Cmd {
	m.fb.leaveType = string(model.LeaveVacation)
	m.fb.startDate = ""
	m.fb.endDate = ""
	m.fb.reason = ""
	m.errMsg = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the leave form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if sub, ok := msg.(LeaveSubmittedMsg); ok && sub.Err != nil {
		// Keep the entered values so the user can correct and resend.
		m.errMsg = sub.Err.Error()
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return LeaveFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the leave form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("New Leave Request") + "\n" + m.form.View()
	if m.errMsg != "" {
		content += "\n" + theme.FieldErrorStyle.Render(m.errMsg)
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	typeOpts := make([]huh.Option[string], len(model.LeaveTypes))
	for i, t := range model.LeaveTypes {
		typeOpts[i] = huh.NewOption(string(t), string(t))
	}

	fb := m.fb
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Leave Type").
				Options(typeOpts...).
				Value(&fb.leaveType),
			huh.NewInput().
				Title("Start Date").
				Placeholder("YYYY-MM-DD").
				Value(&fb.startDate).
				Validate(validateDate("start date")),
			huh.NewInput().
				Title("End Date").
				Placeholder("YYYY-MM-DD").
				Value(&fb.endDate).
				Validate(func(s string) error {
					if err := validateDate("end date")(s); err != nil {
						return err
					}
					return validateDateOrder(fb.startDate, s)
				}),
			huh.NewText().
				Title("Reason").
				Placeholder("Why are you requesting leave?").
				Value(&fb.reason).
				Validate(validateRequired("reason")),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

// handleSubmit hands the completed form to the workflow controller.
// Submission is not auto-retried; a failure comes back as a
// LeaveSubmittedMsg and the form reopens with values intact.
func (m Model) handleSubmit() tea.Cmd {
	ctrl := m.ctrl
	leaveType := model.LeaveType(m.fb.leaveType)
	start, _ := time.Parse("2006-01-02", strings.TrimSpace(m.fb.startDate))
	end, _ := time.Parse("2006-01-02", strings.TrimSpace(m.fb.endDate))
	reason := m.fb.reason

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()

		created, err := ctrl.Submit(ctx, leaveType, start, end, reason)
		return LeaveSubmittedMsg{Leave: created, Err: err}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateDate(fieldName string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return fmt.Errorf("invalid date format, use YYYY-MM-DD")
		}
		return nil
	}
}

// validateDateOrder rejects an end date before the start date as soon
// as both fields parse.
func validateDateOrder(start, end string) error {
	s, err := time.Parse("2006-01-02", strings.TrimSpace(start))
	if err != nil {
		return nil
	}
	e, err := time.Parse("2006-01-02", strings.TrimSpace(end))
	if err != nil {
		return nil
	}
	if e.Before(s) {
		return fmt.Errorf("end date must not be before start date")
	}
	return nil
}
