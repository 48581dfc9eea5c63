package format

import "github.com/fatih/color"

var (
	Heading = color.New(color.FgCyan, color.Bold).SprintFunc()
	Alert   = color.New(color.FgRed).SprintFunc()
	Success = color.New(color.FgGreen).SprintFunc()
	Muted   = color.New(color.FgHiBlack).SprintFunc()
	Rating  = color.New(color.FgYellow).SprintFunc()
)

// DisableColor turns colour output off for the whole process.
func DisableColor(off bool) {
	color.NoColor = off
}
