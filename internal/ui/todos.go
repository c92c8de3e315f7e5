package ui

import (
	"fmt"

	"github.com/idilsaglam/studywithme/internal/model"
)

const maxTextWidth = 80

// Header is the title line with live counts.
func Header(todos []model.Todo) string {
	t := Current()
	d, p := model.Stats(todos)
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(todos),
	)
}

// TodoLine renders one checklist row; the id is what `done`, `rm` and
// `edit` take.
func TodoLine(td model.Todo) string {
	t := Current()
	box, text := t.Muted.Render(t.BoxUnchecked), truncate(td.Text)
	if td.Completed {
		box, text = t.Success.Render(t.BoxChecked), t.Done.Render(text)
	}
	line := fmt.Sprintf("%s %s %s", t.Muted.Render(fmt.Sprintf("%d", td.ID)), box, text)
	if td.Author != "" {
		line += "  " + t.Muted.Render("by "+td.Author)
	}
	return line
}

// GroupLines renders todos grouped by period.
func GroupLines(groups []model.Group) []string {
	t := Current()
	if len(groups) == 0 {
		return []string{t.Muted.Render("no tasks yet. Add one!")}
	}
	var lines []string
	for i, g := range groups {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, t.Period.Render(g.Period))
		for _, td := range g.Todos {
			lines = append(lines, "  "+TodoLine(td))
		}
	}
	return lines
}

// ListLines is the full body of `ls`.
func ListLines(todos []model.Todo, displayName string) []string {
	d, p := model.Stats(todos)
	lines := []string{
		Header(todos),
		Current().Muted.Render(ProgressBar(d, d+p, 28)),
		"",
	}
	lines = append(lines, GroupLines(model.GroupByPeriod(todos))...)
	if displayName != "" {
		lines = append(lines, "", Current().Muted.Render("Author: "+displayName))
	}
	return lines
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > maxTextWidth {
		return string(r[:maxTextWidth-3]) + "..."
	}
	return s
}
