package dashboard

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/devicepool-cli/internal/application"
	"github.com/bnema/devicepool-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	codePreviewWidth   = 48
	resultPreviewWidth = 64
	barWidth           = 24
)

// Section selects which part of the dashboard Render prints.
type Section int

const (
	SectionAll Section = iota
	SectionPool
	SectionTasks
)

type RenderOptions struct {
	Now time.Time
	// MaxTasks limits the task list; zero shows every task.
	MaxTasks int
	Section  Section
}

func renderView(state application.DashboardState, opts RenderOptions, s styles) string {
	switch opts.Section {
	case SectionPool:
		return renderPool(state.Pool, s)
	case SectionTasks:
		return renderTasks(state.Tasks, opts, s)
	}

	lines := []string{
		s.title.Render("Device Pool"),
		renderPool(state.Pool, s),
	}
	if !state.LastRefresh.IsZero() {
		lines = append(lines, s.header.Render("updated "+state.LastRefresh.Local().Format("15:04:05")))
	}
	if state.Error != "" {
		lines = append(lines, s.errorText.Render("error: "+state.Error))
	}

	lines = append(lines, s.section.Render(renderTasks(state.Tasks, opts, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderPool(pool domain.PoolStatus, s styles) string {
	if pool.IsZero() {
		return s.warning.Render("Pool status: unknown (service unreachable or no phones registered)")
	}

	lines := []string{
		s.label.Render("Available phones: ") + s.value.Render(fmt.Sprintf("%d", pool.AvailablePhones)),
		s.label.Render("Busy phones: ") + s.value.Render(fmt.Sprintf("%d", pool.BusyPhones)),
	}
	if total := pool.TotalPhones(); total > 0 {
		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.label.Render("Utilization: "),
			renderProgressBar(pool.BusyPhones, total, barWidth, s),
			" ",
			s.meta.Render(fmt.Sprintf("%d/%d busy", pool.BusyPhones, total)),
		))
	}
	if pool.AverageProcessingTime > 0 {
		lines = append(lines, s.label.Render("Average processing time: ")+
			s.value.Render(formatDuration(pool.AverageProcessingDuration())))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderTasks(tasks []domain.Task, opts RenderOptions, s styles) string {
	lines := []string{s.title.Render(fmt.Sprintf("Tasks (%d)", len(tasks)))}
	if len(tasks) == 0 {
		lines = append(lines, s.empty.Render("No tasks submitted yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	shown := tasks
	if opts.MaxTasks > 0 && len(shown) > opts.MaxTasks {
		shown = shown[:opts.MaxTasks]
	}
	for _, task := range shown {
		lines = append(lines, renderTask(task, opts, s))
	}
	if hidden := len(tasks) - len(shown); hidden > 0 {
		lines = append(lines, s.empty.Render(fmt.Sprintf("... %d more", hidden)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderTask(task domain.Task, opts RenderOptions, s styles) string {
	head := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.taskID.Render(task.ID),
		" ",
		s.status(task.Status).Render("["+string(task.Status)+"]"),
		" ",
		s.meta.Render(taskSubject(task)),
	)

	parts := []string{head}
	if task.EstimatedCompletionTime != nil && !task.Status.Terminal() {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		parts = append(parts, "  "+s.label.Render("Estimated completion: ")+
			s.value.Render(domain.FormatEstimatedTime(*task.EstimatedCompletionTime, now)))
	}
	if len(task.Result) > 0 && string(task.Result) != "null" {
		parts = append(parts, "  "+s.label.Render("Result: ")+s.meta.Render(truncate(compact(string(task.Result)), resultPreviewWidth)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func taskSubject(task domain.Task) string {
	if task.FileName != "" {
		return task.FileName
	}
	if code := compact(task.Code); code != "" {
		return truncate(code, codePreviewWidth)
	}
	return "(empty)"
}

func renderProgressBar(part, total, width int, s styles) string {
	if width <= 0 || total <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * float64(part) / float64(total)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

func compact(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func truncate(text string, width int) string {
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width-3]) + "..."
}
