package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/tgienger/tasks/internal/models"
	"github.com/tgienger/tasks/internal/prefs"
	"github.com/tgienger/tasks/internal/tasks"
	"github.com/tgienger/tasks/internal/ui/keys"
	"github.com/tgienger/tasks/internal/ui/styles"
)

// toastTTL is how long a notification stays on screen
const toastTTL = 3 * time.Second

var errBadDueDate = errors.New("Due date must look like 2006-01-02")

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusSearchInput FocusArea = iota
	FocusTaskList
)

// NoticeMsg carries a repository outcome to be shown as a toast
type NoticeMsg tasks.Notice

// SignOutRequested asks the app to end the session
type SignOutRequested struct{}

type toast struct {
	id      int
	ok      bool
	message string
}

type toastExpiredMsg struct {
	id int
}

type tasksLoadedMsg struct {
	err error
}

type taskSavedMsg struct {
	err error
}

type taskChangedMsg struct {
	err error
}

type avatarMsg struct {
	url   string
	saved bool
	err   error
}

// TaskListView shows the signed-in user's tasks
type TaskListView struct {
	repo   *tasks.Repository
	prefs  prefs.Store
	user   models.User
	avatar string
	styles *styles.Styles
	keys   keys.KeyMap
	now    func() time.Time

	width  int
	height int

	// UI state
	focus       FocusArea
	cursor      int
	scrollY     int
	searchInput textinput.Model
	filter      tasks.Filter
	preFilter   tasks.Filter // filter to restore when leaving the completed view
	visible     []models.Task
	loading     bool

	// Task creation/editing
	form *taskForm

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	// Avatar picker
	choosingAvatar bool
	avatarCursor   int

	toasts      []toast
	nextToastID int

	// Help popup (shown with ?)
	showHelpPopup bool
}

// NewTaskListView creates a task list for user
func NewTaskListView(repo *tasks.Repository, store prefs.Store, user models.User) *TaskListView {
	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100

	return &TaskListView{
		repo:        repo,
		prefs:       store,
		user:        user,
		avatar:      prefs.DefaultAvatar,
		styles:      styles.NewStyles(),
		keys:        keys.DefaultKeyMap(),
		now:         time.Now,
		focus:       FocusTaskList,
		searchInput: search,
		filter:      tasks.FilterAll,
		preFilter:   tasks.FilterAll,
	}
}

// Init loads the task list and the avatar
func (v *TaskListView) Init() tea.Cmd {
	v.loading = true
	return tea.Batch(v.loadTasks, v.loadAvatar)
}

func (v *TaskListView) loadTasks() tea.Msg {
	return tasksLoadedMsg{err: v.repo.Load(context.Background(), v.user.ID)}
}

func (v *TaskListView) refetch() tea.Msg {
	return tasksLoadedMsg{err: v.repo.Refetch(context.Background())}
}

func (v *TaskListView) loadAvatar() tea.Msg {
	url, err := prefs.Avatar(context.Background(), v.prefs, v.user.ID)
	return avatarMsg{url: url, err: err}
}

// refresh recomputes the visible subset from the shared list
func (v *TaskListView) refresh() {
	v.visible = tasks.Visible(v.repo.State().Snapshot(), v.filter, v.searchInput.Value(), v.now())
	if v.cursor >= len(v.visible) {
		v.cursor = max(0, len(v.visible)-1)
	}
	v.ensureVisible()
}

func (v *TaskListView) selected() (models.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.visible) {
		return models.Task{}, false
	}
	return v.visible[v.cursor], true
}

func (v *TaskListView) pushToast(ok bool, message string) tea.Cmd {
	v.nextToastID++
	id := v.nextToastID
	v.toasts = append(v.toasts, toast{id: id, ok: ok, message: message})
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		if v.form != nil {
			v.form.setWidth(clamp(styles.ContentWidth(v.width)-10, 20, 50))
		}
		v.ensureVisible()
		return v, nil

	case tasksLoadedMsg:
		v.loading = false
		v.refresh()
		return v, nil

	case taskSavedMsg:
		if v.form != nil {
			v.form.saving = false
			if msg.err == nil {
				if v.form.isNew() {
					v.cursor = 0
					v.scrollY = 0
				}
				v.form = nil
			} else {
				var terr *tasks.Error
				if errors.As(msg.err, &terr) {
					v.form.errMsg = terr.Message()
				}
			}
		}
		v.refresh()
		return v, nil

	case taskChangedMsg:
		v.refresh()
		return v, nil

	case NoticeMsg:
		return v, v.pushToast(msg.OK, msg.Message)

	case toastExpiredMsg:
		for i, t := range v.toasts {
			if t.id == msg.id {
				v.toasts = append(v.toasts[:i], v.toasts[i+1:]...)
				break
			}
		}
		return v, nil

	case avatarMsg:
		switch {
		case msg.err != nil && msg.saved:
			return v, v.pushToast(false, "Failed to update profile image")
		case msg.err != nil:
			return v, v.pushToast(false, "Failed to load profile image")
		}
		v.avatar = msg.url
		if msg.saved {
			return v, v.pushToast(true, "Profile image updated")
		}
		return v, nil

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.form != nil {
			return v.updateEditing(msg)
		}

		if v.choosingAvatar {
			return v.updateChoosingAvatar(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle search input typing first - don't process hotkeys while typing
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, nil
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			v.cursor = 0
			v.scrollY = 0
			v.refresh()
			return v, cmd
		}
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		if v.searchInput.Value() != "" {
			v.searchInput.Reset()
			v.refresh()
		}
		return v, nil

	case key.Matches(msg, v.keys.Tab), key.Matches(msg, v.keys.Filter):
		v.cycleFilter(1)
		return v, nil

	case key.Matches(msg, v.keys.ShiftTab):
		v.cycleFilter(-1)
		return v, nil

	case len(msg.String()) == 1 && msg.String() >= "1" && msg.String() <= "5":
		v.setFilter(tasks.Filters()[msg.String()[0]-'1'])
		return v, nil

	case key.Matches(msg, v.keys.ShowCompleted):
		if v.filter == tasks.FilterCompleted {
			v.setFilter(v.preFilter)
		} else {
			v.preFilter = v.filter
			v.setFilter(tasks.FilterCompleted)
		}
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.visible)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if t, ok := v.selected(); ok {
			return v, v.toggle(t)
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
		if t, ok := v.selected(); ok {
			v.form = editTaskForm(t, clamp(styles.ContentWidth(v.width)-10, 20, 50))
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.form = newTaskForm(clamp(styles.ContentWidth(v.width)-10, 20, 50))
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if t, ok := v.selected(); ok {
			v.confirmingDelete = true
			v.deleteTargetID = t.ID
			v.deleteTargetName = t.Title
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Refresh):
		v.loading = true
		return v, v.refetch

	case key.Matches(msg, v.keys.Avatar):
		v.choosingAvatar = true
		v.avatarCursor = 0
		for i, url := range prefs.AvatarOptions() {
			if url == v.avatar {
				v.avatarCursor = i
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.SignOut):
		return v, func() tea.Msg { return SignOutRequested{} }

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) setFilter(f tasks.Filter) {
	v.filter = f
	v.cursor = 0
	v.scrollY = 0
	v.refresh()
}

func (v *TaskListView) cycleFilter(dir int) {
	all := tasks.Filters()
	idx := 0
	for i, f := range all {
		if f == v.filter {
			idx = i
			break
		}
	}
	v.setFilter(all[(idx+dir+len(all))%len(all)])
}

func (v *TaskListView) toggle(t models.Task) tea.Cmd {
	id, completed := t.ID, !t.Completed
	return func() tea.Msg {
		_, err := v.repo.ToggleComplete(context.Background(), id, completed)
		return taskChangedMsg{err: err}
	}
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		id := v.deleteTargetID
		return v, func() tea.Msg {
			return taskChangedMsg{err: v.repo.Delete(context.Background(), id)}
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateChoosingAvatar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := prefs.AvatarOptions()
	switch {
	case key.Matches(msg, v.keys.Back):
		v.choosingAvatar = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.avatarCursor > 0 {
			v.avatarCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.avatarCursor < len(options)-1 {
			v.avatarCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		v.choosingAvatar = false
		url := options[v.avatarCursor]
		return v, func() tea.Msg {
			if err := prefs.SetAvatar(context.Background(), v.prefs, v.user.ID, url); err != nil {
				return avatarMsg{saved: true, err: err}
			}
			return avatarMsg{url: url, saved: true}
		}
	}
	return v, nil
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := v.form
	if f.saving {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.form = nil
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		f.next(1)
		return v, nil

	case key.Matches(msg, v.keys.ShiftTab):
		f.next(-1)
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch f.focusIdx {
		case formSave:
			return v, v.saveTask()
		case formTitle, formPriority, formDue:
			f.next(1)
			return v, nil
		}
		// Enter in the description passes through for newlines
	}

	return v, f.update(msg)
}

func (v *TaskListView) saveTask() tea.Cmd {
	f := v.form
	owner := v.user.ID

	if f.isNew() {
		draft, err := f.draft()
		if err != nil {
			f.errMsg = formErrorText(err)
			return nil
		}
		f.errMsg = ""
		f.saving = true
		return func() tea.Msg {
			_, err := v.repo.Create(context.Background(), owner, draft)
			return taskSavedMsg{err: err}
		}
	}

	patch, err := f.patch()
	if err != nil {
		f.errMsg = formErrorText(err)
		return nil
	}
	f.errMsg = ""
	f.saving = true
	id := f.editingID
	return func() tea.Msg {
		_, err := v.repo.Update(context.Background(), id, patch)
		return taskSavedMsg{err: err}
	}
}

func formErrorText(err error) string {
	switch {
	case errors.Is(err, models.ErrEmptyTitle):
		return "Title is required"
	case errors.Is(err, models.ErrInvalidPriority):
		return "Priority must be low, medium or high"
	}
	return err.Error()
}

func (v *TaskListView) ensureVisible() {
	visibleItems := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

// visibleItems is how many task rows fit. Each task is 2 lines + 1 margin.
func (v *TaskListView) visibleItems() int {
	availableHeight := v.height - 18
	if availableHeight < 3 {
		availableHeight = 3
	}
	return max(availableHeight/3, 1)
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.form != nil {
		contentWidth := styles.ContentWidth(v.width)
		centered := lipgloss.Place(contentWidth, v.height,
			lipgloss.Center, lipgloss.Center,
			v.form.view(v.styles, contentWidth, v.height),
		)
		return styles.CenterView(centered, v.width, v.height)
	}

	if v.choosingAvatar {
		return v.renderAvatarPicker()
	}

	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	if toasts := v.renderToasts(); toasts != "" {
		b.WriteString(toasts)
		b.WriteString("\n")
	}
	b.WriteString(v.renderStatus())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	isNarrow := contentWidth < 60

	all := v.repo.State().Snapshot()
	counts := tasks.Count(all, v.now())

	title := lipgloss.JoinHorizontal(lipgloss.Bottom,
		s.Title.Render("My Tasks"),
		"  ",
		s.TitleMuted.Render(v.user.Email),
	)
	avatar := s.TitleMuted.Render(ansi.Truncate(v.avatar, clamp(contentWidth-4, 10, contentWidth), "…"))

	stats := fmt.Sprintf("%s %s  %s %s  %s %s",
		s.StatValue.Render(fmt.Sprintf("%d%%", counts.CompletionRate())), s.Stat.Render("complete"),
		s.StatValue.Render(fmt.Sprintf("%d", counts[tasks.FilterAll])), s.Stat.Render("total"),
		s.StatValue.Render(fmt.Sprintf("%d", counts[tasks.FilterPending])), s.Stat.Render("active"),
	)

	var tabs []string
	for i, f := range tasks.Filters() {
		label := f.Label()
		if isNarrow {
			label = fmt.Sprintf("%d", i+1)
		}
		label = fmt.Sprintf("%s %d", label, counts[f])
		if f == v.filter {
			tabs = append(tabs, s.TabActive.Render(label))
		} else {
			tabs = append(tabs, s.Tab.Render(label))
		}
	}

	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchBox := searchStyle.Width(clamp(contentWidth-8, 10, 40)).Render(v.searchInput.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		avatar,
		stats,
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, tabs...),
		searchBox,
	)
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if v.loading && len(v.visible) == 0 {
		return s.TitleMuted.Render("Loading...")
	}

	if len(v.visible) == 0 {
		switch {
		case v.searchInput.Value() != "":
			return s.TitleMuted.Render("No tasks match your search.")
		case v.filter != tasks.FilterAll:
			return s.TitleMuted.Render("No tasks in " + v.filter.Label() + ".")
		}
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	today := models.DateOf(v.now())
	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(v.visible))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.visible[i], today, i == v.cursor && v.focus == FocusTaskList))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, today models.Date, selected bool) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	check := "[ ]"
	titleText := s.TaskTitle.Render(task.Title)
	if task.Completed {
		check = "[✓]"
		titleText = s.TaskDone.Render(task.Title)
	}
	badge := s.Priority(task.Priority).Render(string(task.Priority))
	titleLine := check + " " + titleText + "  " + badge

	var details []string
	if task.DueDate != nil {
		due := *task.DueDate
		dueStyle := s.DueUpcoming
		label := "due " + due.String()
		switch {
		case task.Completed:
			dueStyle = s.TitleMuted
		case due.Equal(today):
			dueStyle = s.DueToday
			label = "due today"
		case due.Before(today):
			dueStyle = s.DueOverdue
			label = "overdue " + due.String()
		}
		details = append(details, dueStyle.Render(label))
	}
	if desc := firstLine(task.Description); desc != "" {
		details = append(details, s.TitleMuted.Render(desc))
	}
	detailLine := strings.Join(details, s.TitleMuted.Render(" • "))

	itemStyle := s.ListItem
	if selected {
		itemStyle = s.ListSelected
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		itemStyle.Width(width).Render(titleLine),
		itemStyle.Width(width).Render("    "+detailLine),
	) + "\n"
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

func (v *TaskListView) renderToasts() string {
	s := v.styles
	var lines []string
	for _, t := range v.toasts {
		if t.ok {
			lines = append(lines, s.ToastSuccess.Render("✓ "+t.message))
		} else {
			lines = append(lines, s.ToastError.Render("✗ "+t.message))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderStatus summarizes what the list is showing
func (v *TaskListView) renderStatus() string {
	status := fmt.Sprintf("%d of %d tasks • %s", len(v.visible), v.repo.State().Len(), v.filter.Label())
	if q := v.searchInput.Value(); q != "" {
		status += fmt.Sprintf(" • matching %q", q)
	}
	if v.loading {
		status += " • refreshing"
	}
	return v.styles.StatusBar.Render(status)
}

func (v *TaskListView) renderHelp() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return s.Help.Render(s.HelpKey.Render("?") + s.HelpDesc.Render(" help"))
	}

	hints := [][2]string{
		{"n", "new"}, {"e", "edit"}, {"space", "done"}, {"d", "del"},
		{"/", "search"}, {"tab", "filter"}, {"?", "help"}, {"q", "quit"},
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = s.HelpKey.Render(h[0]) + " " + s.HelpDesc.Render(h[1])
	}
	return s.Help.Render(strings.Join(parts, s.HelpDesc.Render(" • ")))
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	completedLabel := "show completed"
	if v.filter == tasks.FilterCompleted {
		completedLabel = "back to previous filter"
	}

	shortcuts := [][2]string{
		{"n", "new task"},
		{"e/↵", "edit task"},
		{"space", "toggle done"},
		{"d", "delete task"},
		{"/", "search"},
		{"tab", "next filter"},
		{"1-5", "pick filter"},
		{"c", completedLabel},
		{"r", "refresh"},
		{"p", "profile image"},
		{"L", "sign out"},
		{"q", "quit"},
	}
	var helpItems []string
	for _, sc := range shortcuts {
		helpItems = append(helpItems, s.HelpKey.Render(fmt.Sprintf("%-7s", sc[0]))+s.HelpDesc.Render(sc[1]))
	}
	helpItems = append(helpItems, "", s.TitleMuted.Render("Press any key to close"))

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderAvatarPicker() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := clamp(contentWidth-8, 20, 70)

	var items []string
	for i, url := range prefs.AvatarOptions() {
		marker := "  "
		if url == v.avatar {
			marker = "● "
		}
		label := fmt.Sprintf("%sAvatar %d", marker, i+1)
		if i == v.avatarCursor {
			items = append(items, s.ListSelected.Render(label))
		} else {
			items = append(items, s.ListItem.Render(label))
		}
	}

	preview := prefs.AvatarOptions()[v.avatarCursor]
	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Profile Image"),
		"",
		lipgloss.JoinVertical(lipgloss.Left, items...),
		"",
		s.TitleMuted.Width(width).Render(preview),
		"",
		s.TitleMuted.Render("↑↓: select • ↵: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("Are you sure you want to delete %q?", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
