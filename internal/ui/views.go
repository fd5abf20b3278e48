package ui

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/templui/golfjournal/internal/ctxkeys"
	"github.com/templui/golfjournal/internal/model"
	"github.com/templui/golfjournal/internal/validation"
)

type navItem struct {
	href  string
	label string
}

var navItems = []navItem{
	{href: "/app/rounds/new", label: "New round"},
	{href: "/app/rounds", label: "History"},
	{href: "/app/stats", label: "Statistics"},
	{href: "/app/goals", label: "Goals"},
}

func appName(ctx context.Context) string {
	cfg := ctxkeys.Config(ctx)
	if cfg == nil || cfg.AppName == "" {
		return "Golf Journal"
	}
	return cfg.AppName
}

// RoundForm carries what the player typed so a rejected submission can be
// shown again.
type RoundForm struct {
	Error  string
	Date   string
	Course string
	Holes  [model.HoleCount]string
}

// Total sums the holes as typed. Blank or unreadable holes count as zero.
func (f RoundForm) Total() int {
	total := 0
	for _, raw := range f.Holes {
		score, err := validation.ParseHoleScore(raw)
		if err == nil && score != nil {
			total += *score
		}
	}
	return total
}

func holeName(i int) string {
	return "hole" + strconv.Itoa(i+1)
}

func decimal(v float64, digits int) string {
	return strconv.FormatFloat(v, 'f', digits, 64)
}

func barStyle(percent float64) templ.Attributes {
	return templ.Attributes{"style": "width: " + decimal(percent, 0) + "%"}
}

func bestScore(best *int) string {
	if best == nil {
		return "-"
	}
	return strconv.Itoa(*best)
}

func weekLabel(c model.PracticeChecklist) string {
	return "Week " + c.Week + " · " + strconv.Itoa(c.Done()) + "/" + strconv.Itoa(len(c.Items)) + " done"
}

func practicePath(goalID, action string) string {
	return "/app/goals/practice/" + goalID + "/" + action
}

func practiceTitleClass(checked bool) string {
	if checked {
		return "font-semibold text-slate-400 line-through"
	}
	return "font-semibold text-slate-800"
}

func practiceMarkClass(checked bool) string {
	base := "ml-auto flex h-8 w-8 items-center justify-center rounded-xl border-2 border-slate-200 text-sm"
	if checked {
		return cn(base, "border-green-600 bg-green-600 font-bold text-white")
	}
	return base
}

func practiceMark(checked bool) string {
	if checked {
		return "✓"
	}
	return ""
}
