// Package ui provides semantic text formatting for CLI output.
//
// Formatters colorize with fatih/color when the terminal supports it. When
// NO_COLOR is set or the output is not a color terminal they fall back to
// plain decorations so meaning survives in logs and CI:
//
//	ui.Code.Sprint("musings build")   // `musings build`
//	ui.PostID.Sprint("hello")         // 'hello'
//	ui.Muted.Sprint("1.2 kB")         // (1.2 kB)
//	ui.TierLabel("master")            // [master]
package ui
