package main

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/riskboard/internal/ui"
)

var (
	// Flag type annotations: e.g. "--server string", "--interval duration".
	reFlagType = regexp.MustCompile(`(--?\S+\s+)(string|int|duration|float64|bool)`)

	// Only (default "...") annotations, so [command] and [flags] stay plain.
	reDefault = regexp.MustCompile(`\(default "[^"]*"\)`)
)

// helpStyle renders the parts of the help text that get highlighted.
type helpStyle struct {
	header  func(string) string
	command func(string) string
	muted   func(string) string
}

func plainHelpStyle() helpStyle {
	same := func(s string) string { return s }
	return helpStyle{header: same, command: same, muted: same}
}

func colorHelpStyle() helpStyle {
	return helpStyle{header: ui.RenderAccent, command: ui.RenderCommand, muted: ui.RenderMuted}
}

// helpFunc renders help with commands listed under their Views, Actions
// and System groups, colored when the terminal supports it.
func helpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, _ []string) {
		style := plainHelpStyle()
		if ui.ShouldUseColor() {
			style = colorHelpStyle()
		}
		writeHelp(cmd.OutOrStdout(), cmd, style)
	}
}

func writeHelp(w io.Writer, cmd *cobra.Command, style helpStyle) {
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	if desc != "" {
		fmt.Fprintf(w, "%s\n\n", strings.TrimRight(desc, "\n"))
	}

	fmt.Fprintln(w, style.header("Usage:"))
	if cmd.Runnable() {
		fmt.Fprintf(w, "  %s\n", cmd.UseLine())
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "  %s [command]\n", cmd.CommandPath())
	}
	if len(cmd.Aliases) > 0 {
		fmt.Fprintf(w, "\n%s\n  %s\n", style.header("Aliases:"), strings.Join(append([]string{cmd.Name()}, cmd.Aliases...), ", "))
	}
	if cmd.HasExample() {
		fmt.Fprintf(w, "\n%s\n%s\n", style.header("Examples:"), cmd.Example)
	}

	if cmd.HasAvailableSubCommands() {
		for _, g := range cmd.Groups() {
			writeCommandSection(w, g.Title, subcommandsIn(cmd, g.ID), style)
		}
		writeCommandSection(w, "Additional Commands:", subcommandsIn(cmd, ""), style)
	}

	if cmd.HasAvailableLocalFlags() {
		fmt.Fprintf(w, "\n%s\n%s", style.header("Flags:"), styleFlags(cmd.LocalFlags().FlagUsages(), style))
	}
	if cmd.HasAvailableInheritedFlags() {
		fmt.Fprintf(w, "\n%s\n%s", style.header("Global Flags:"), styleFlags(cmd.InheritedFlags().FlagUsages(), style))
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\nUse \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())
	}
}

// subcommandsIn returns the available subcommands of cmd in groupID, in
// registration order. An empty groupID selects ungrouped commands.
func subcommandsIn(cmd *cobra.Command, groupID string) []*cobra.Command {
	var out []*cobra.Command
	for _, sub := range cmd.Commands() {
		if (sub.IsAvailableCommand() || sub.Name() == "help") && sub.GroupID == groupID {
			out = append(out, sub)
		}
	}
	return out
}

func writeCommandSection(w io.Writer, title string, cmds []*cobra.Command, style helpStyle) {
	if len(cmds) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", style.header(title))
	for _, sub := range cmds {
		name := fmt.Sprintf("%-*s", sub.NamePadding(), sub.Name())
		fmt.Fprintf(w, "  %s %s\n", style.command(name), sub.Short)
	}
}

func styleFlags(usages string, style helpStyle) string {
	usages = reFlagType.ReplaceAllStringFunc(usages, func(match string) string {
		parts := reFlagType.FindStringSubmatch(match)
		return parts[1] + style.muted(parts[2])
	})
	return reDefault.ReplaceAllStringFunc(usages, style.muted)
}
