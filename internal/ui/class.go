package ui

import twmerge "github.com/Oudwins/tailwind-merge-go"

// cn merges Tailwind classes; later classes win over conflicting earlier ones.
func cn(classes ...string) string {
	return twmerge.Merge(classes...)
}

const (
	buttonBase    = "inline-flex items-center justify-center rounded-md px-4 py-2 text-sm font-medium bg-green-700 text-white hover:bg-green-800"
	buttonOutline = "bg-white text-slate-800 border border-slate-300 hover:bg-slate-50"
	inputBase     = "block w-full rounded-md border border-slate-300 px-3 py-2 text-sm"
	cardBase      = "rounded-lg border border-slate-200 bg-white p-4 shadow-sm"
	navLink       = "px-3 py-2 text-sm text-slate-600 rounded-md hover:text-slate-900"
	navActive     = "text-green-800 bg-green-50 font-semibold"
)

func buttonClass(outline bool) string {
	if outline {
		return cn(buttonBase, buttonOutline)
	}
	return buttonBase
}

func navClass(active bool) string {
	if active {
		return cn(navLink, navActive)
	}
	return navLink
}
