// Package tui provides the interactive terminal view of the task list.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/studybuddy/studybuddy/internal/models"
	"github.com/studybuddy/studybuddy/internal/tracker"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	taskItemStyle = lipgloss.NewStyle().
			Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(fgColor).
			Bold(true).
			Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	statusPending    = lipgloss.NewStyle().Foreground(warningColor)
	statusIncomplete = lipgloss.NewStyle().Foreground(errorColor)
	statusCompleted  = lipgloss.NewStyle().Foreground(successColor)
)

// App is the main TUI application model. It is a read-only consumer of the
// controller's task cache; every mutation goes through the controller.
type App struct {
	controller  *tracker.Controller
	tasks       []models.Task
	selectedIdx int
	spinner     spinner.Model
	loading     bool
	message     string
	width       int
	height      int
}

// New creates a new TUI application over the controller.
func New(controller *tracker.Controller) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return &App{
		controller: controller,
		spinner:    sp,
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type tasksLoadedMsg struct {
	tasks []models.Task
}

type opDoneMsg struct {
	message string
}

type errMsg struct {
	err error
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	a.loading = true
	return tea.Batch(a.spinner.Tick, a.fetchTasks())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit

		case "up", "k":
			if a.selectedIdx > 0 {
				a.selectedIdx--
			}

		case "down", "j":
			if a.selectedIdx < len(a.tasks)-1 {
				a.selectedIdx++
			}

		case "r":
			a.loading = true
			a.message = ""
			return a, tea.Batch(a.spinner.Tick, a.fetchTasks())

		case "c":
			if task, ok := a.selected(); ok {
				return a, a.updateStatus(task.ID, models.TaskStatusCompleted)
			}

		case "i":
			if task, ok := a.selected(); ok {
				return a, a.updateStatus(task.ID, models.TaskStatusIncomplete)
			}

		case "d":
			if task, ok := a.selected(); ok {
				return a, a.removeTask(task.ID)
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case tasksLoadedMsg:
		a.loading = false
		a.tasks = msg.tasks
		if a.selectedIdx >= len(a.tasks) {
			a.selectedIdx = maxInt(0, len(a.tasks)-1)
		}

	case opDoneMsg:
		a.message = msg.message
		a.tasks = a.controller.Tasks()
		if a.selectedIdx >= len(a.tasks) {
			a.selectedIdx = maxInt(0, len(a.tasks)-1)
		}

	case errMsg:
		a.loading = false
		a.message = errorStyle.Render(msg.err.Error())

	case spinner.TickMsg:
		if a.loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
	}

	return a, nil
}

func (a *App) selected() (models.Task, bool) {
	if len(a.tasks) == 0 || a.selectedIdx >= len(a.tasks) {
		return models.Task{}, false
	}
	return a.tasks[a.selectedIdx], true
}

func (a *App) fetchTasks() tea.Cmd {
	return func() tea.Msg {
		tasks, err := a.controller.FetchAll(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return tasksLoadedMsg{tasks: tasks}
	}
}

func (a *App) updateStatus(id string, status models.TaskStatus) tea.Cmd {
	return func() tea.Msg {
		if err := a.controller.UpdateStatus(context.Background(), id, status); err != nil {
			return errMsg{err}
		}
		return opDoneMsg{message: fmt.Sprintf("Task %s marked %s", id, status)}
	}
}

func (a *App) removeTask(id string) tea.Cmd {
	return func() tea.Msg {
		if err := a.controller.Remove(context.Background(), id); err != nil {
			return errMsg{err}
		}
		return opDoneMsg{message: fmt.Sprintf("Task %s deleted", id)}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Study Buddy"))
	b.WriteString("\n\n")

	if a.loading {
		b.WriteString(fmt.Sprintf("%s Loading tasks...\n", a.spinner.View()))
	} else if len(a.tasks) == 0 {
		b.WriteString(taskItemStyle.Render("No tasks. Press r to refresh."))
		b.WriteString("\n")
	} else {
		for i, task := range a.tasks {
			line := fmt.Sprintf("%s  %s - %s  %s",
				task.Description,
				models.FormatWireTime(task.StartsAt),
				models.FormatWireTime(task.EndsAt),
				renderStatus(task.Status),
			)
			if i == a.selectedIdx {
				b.WriteString(selectedStyle.Render(line))
			} else {
				b.WriteString(taskItemStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if a.message != "" {
		b.WriteString(statusBarStyle.Render(a.message))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("j/k: move • r: refresh • c: complete • i: incomplete • d: delete • q: quit"))
	b.WriteString("\n")

	return b.String()
}

func renderStatus(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusPending:
		return statusPending.Render("● pending")
	case models.TaskStatusIncomplete:
		return statusIncomplete.Render("● incomplete")
	case models.TaskStatusCompleted:
		return statusCompleted.Render("● completed")
	}
	return string(status)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
