package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tasks/internal/models"
	"github.com/tgienger/tasks/internal/ui/styles"
)

const (
	formTitle = iota
	formDesc
	formPriority
	formDue
	formSave
	formFields
)

// taskForm edits a new or existing task
type taskForm struct {
	editingID string // empty for a new task
	title     textinput.Model
	desc      textarea.Model
	priority  models.Priority
	due       textinput.Model
	focusIdx  int
	errMsg    string
	saving    bool
}

func newTaskForm(width int) *taskForm {
	title := textinput.New()
	title.Placeholder = "What needs to be done?"
	title.CharLimit = 200

	desc := textarea.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 1000
	desc.SetWidth(width)
	desc.SetHeight(3)
	desc.ShowLineNumbers = false

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = len(models.DateLayout)

	f := &taskForm{
		title:    title,
		desc:     desc,
		due:      due,
		priority: models.DefaultPriority,
	}
	f.updateFocus()
	return f
}

// editTaskForm returns a form prefilled from t
func editTaskForm(t models.Task, width int) *taskForm {
	f := newTaskForm(width)
	f.editingID = t.ID
	f.title.SetValue(t.Title)
	f.desc.SetValue(t.Description)
	f.priority = t.Priority
	if t.DueDate != nil {
		f.due.SetValue(t.DueDate.String())
	}
	return f
}

func (f *taskForm) isNew() bool {
	return f.editingID == ""
}

func (f *taskForm) setWidth(width int) {
	f.desc.SetWidth(width)
}

func (f *taskForm) next(dir int) {
	f.focusIdx = (f.focusIdx + dir + formFields) % formFields
	f.updateFocus()
}

func (f *taskForm) updateFocus() {
	f.title.Blur()
	f.desc.Blur()
	f.due.Blur()
	switch f.focusIdx {
	case formTitle:
		f.title.Focus()
	case formDesc:
		f.desc.Focus()
	case formDue:
		f.due.Focus()
	}
}

// update forwards a key to the focused input
func (f *taskForm) update(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focusIdx {
	case formTitle:
		f.title, cmd = f.title.Update(msg)
	case formDesc:
		f.desc, cmd = f.desc.Update(msg)
	case formPriority:
		switch msg.String() {
		case " ", "right", "l":
			f.priority = f.priority.Next()
		case "left", "h":
			f.priority = f.priority.Next().Next()
		}
	case formDue:
		f.due, cmd = f.due.Update(msg)
	}
	return cmd
}

func (f *taskForm) dueDate() (*models.Date, error) {
	raw := strings.TrimSpace(f.due.Value())
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// draft validates the form as a new task
func (f *taskForm) draft() (models.Draft, error) {
	due, err := f.dueDate()
	if err != nil {
		return models.Draft{}, errBadDueDate
	}
	d := models.Draft{
		Title:       f.title.Value(),
		Description: f.desc.Value(),
		Priority:    f.priority,
		DueDate:     due,
	}
	if err := d.Validate(); err != nil {
		return models.Draft{}, err
	}
	return d.Normalized(), nil
}

// patch validates the form as a full replacement of the editable fields
func (f *taskForm) patch() (models.Patch, error) {
	d, err := f.draft()
	if err != nil {
		return models.Patch{}, err
	}
	p := models.Patch{
		Title:       &d.Title,
		Description: &d.Description,
		Priority:    &d.Priority,
		DueDate:     d.DueDate,
	}
	if d.DueDate == nil {
		p.ClearDueDate = true
	}
	return p, nil
}

func (f *taskForm) view(s *styles.Styles, contentWidth, height int) string {
	heading := "New Task"
	if !f.isNew() {
		heading = "Edit Task"
	}

	titleStyle := s.Input
	descStyle := s.Input
	priorityStyle := s.Input
	dueStyle := s.Input
	btnStyle := s.Button

	switch f.focusIdx {
	case formTitle:
		titleStyle = s.InputFocused
	case formDesc:
		descStyle = s.InputFocused
	case formPriority:
		priorityStyle = s.InputFocused
	case formDue:
		dueStyle = s.InputFocused
	case formSave:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	var priorities []string
	for _, p := range models.Priorities() {
		label := string(p)
		if p == f.priority {
			priorities = append(priorities, s.Priority(p).Render("["+label+"]"))
		} else {
			priorities = append(priorities, s.TitleMuted.Render(" "+label+" "))
		}
	}

	btnLabel := " Save "
	if f.saving {
		btnLabel = " Saving... "
	}

	errLine := ""
	if f.errMsg != "" {
		errLine = s.ErrorText.Render(f.errMsg)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(heading),
		"",
		"Title:",
		titleStyle.Width(inputWidth).Render(f.title.View()),
		"",
		"Description:",
		descStyle.Render(f.desc.View()),
		"",
		"Priority:",
		priorityStyle.Render(strings.Join(priorities, " ")),
		"",
		"Due date:",
		dueStyle.Width(16).Render(f.due.View()),
		errLine,
		btnStyle.Render(btnLabel),
		"",
		s.TitleMuted.Render("Tab: next • Space/←→: priority • Ctrl+S: save • Esc: cancel"),
	)
}
