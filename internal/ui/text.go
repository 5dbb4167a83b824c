package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter renders one kind of CLI text. With color it paints the text;
// without, it falls back to prefix and suffix decoration.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...interface{}) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats according to a format specifier and returns the resulting string.
func (f Formatter) Sprintf(format string, a ...interface{}) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline ensures the string ends with a newline character.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// noColor honours NO_COLOR (https://no-color.org/) and fatih/color's own
// terminal detection.
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

var (
	// Code: commands to run. `backticks` without color.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path: files and directories.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	// Flag: CLI flags such as --prune.
	Flag = Formatter{color.New(color.FgYellow), "", ""}

	Success = Formatter{color.New(color.FgGreen), "", ""}
	Error   = Formatter{color.New(color.FgRed), "", ""}
	Warning = Formatter{color.New(color.FgYellow), "", ""}
	Info    = Formatter{color.New(color.FgCyan), "", ""}

	// PostID: post identifiers. 'single quotes' without color.
	PostID = Formatter{color.New(color.FgCyan), "'", "'"}

	// Muted: secondary detail such as sizes. (parentheses) without color.
	Muted = Formatter{color.New(color.FgHiBlack), "(", ")"}

	// Public and Master label blob tiers. [brackets] without color.
	Public = Formatter{color.New(color.FgGreen), "[", "]"}
	Master = Formatter{color.New(color.FgMagenta, color.Bold), "[", "]"}
)

// TierLabel renders a tier name with the matching formatter. Unknown tiers
// are shown as errors.
func TierLabel(tier string) string {
	switch tier {
	case "public":
		return Public.Sprint(tier)
	case "master":
		return Master.Sprint(tier)
	default:
		return Error.Sprint(tier)
	}
}

// Status markers used at the start of summary lines.
func Check() string { return Success.Sprint("✓") }
func Cross() string { return Error.Sprint("✗") }
func Arrow() string { return Info.Sprint("→") }
