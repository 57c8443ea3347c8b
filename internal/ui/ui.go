// Package ui holds the terminal output helpers shared by the CLI commands
// and the interactive shell.
package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	Cyan      = color.New(color.FgCyan).SprintFunc()
	Yellow    = color.New(color.FgYellow).SprintFunc()
	Red       = color.New(color.FgRed).SprintFunc()
	Highlight = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// Error prints an error message in red.
func Error(format string, args ...interface{}) {
	fmt.Println(Red(fmt.Sprintf(format, args...)))
}

// Warning prints a warning message in yellow.
func Warning(format string, args ...interface{}) {
	fmt.Println(Yellow(fmt.Sprintf(format, args...)))
}

// Notice prints a secondary message in cyan.
func Notice(format string, args ...interface{}) {
	fmt.Println(Cyan(fmt.Sprintf(format, args...)))
}

// Confirm shows a yes/no prompt and reads the answer from stdin.
// defaultYes controls what a bare Enter means.
func Confirm(prompt string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Printf("%s %s: ", prompt, hint)

	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))

	if defaultYes {
		return input == "" || input == "y" || input == "yes"
	}
	return input == "y" || input == "yes"
}
