package cmd

import (
	"fmt"
	"io"
	"os"
)

// Status lines share one layout: two spaces, an icon, two spaces, an
// optional [name] and the message.
//
//	✓  success / healthy
//	✗  error / failure (stderr)
//	⚠  warning
//	○  skipped / not applicable
//	-  not found / missing
//	~  neutral info / state change
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func statusLine(w io.Writer, icon, name, msg string) {
	if name != "" {
		msg = "[" + name + "] " + msg
	}
	fmt.Fprintf(w, "  %s  %s\n", icon, msg)
}

// printSection prints a top-level header, e.g. "=== socsel doctor ===".
func printSection(title string) { fmt.Fprintf(stdout, "\n=== %s ===\n", title) }

// printBullet prints a group header, e.g. "● Selected features".
func printBullet(title string) { fmt.Fprintf(stdout, "\n● %s\n", title) }

func printOK(name, msg string)   { statusLine(stdout, "✓", name, msg) }
func printErr(name, msg string)  { statusLine(stderr, "✗", name, msg) }
func printWarn(name, msg string) { statusLine(stdout, "⚠", name, msg) }
func printSkip(name, msg string) { statusLine(stdout, "○", name, msg) }
func printMiss(name, msg string) { statusLine(stdout, "-", name, msg) }
func printInfo(name, msg string) { statusLine(stdout, "~", name, msg) }
