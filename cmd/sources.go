// Package cmd implements the command-line interface for yomikata.
package cmd

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/yomikata-app/yomikata/color"
	"github.com/yomikata-app/yomikata/icon"
	"github.com/yomikata-app/yomikata/provider"
	"github.com/yomikata-app/yomikata/style"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

// sourcesCmd provides a parent command for inspecting content sources.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Inspect built-in and extension content sources",
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)

	sourcesListCmd.Flags().BoolP("raw", "r", false, "Suppress headers in the output")
	sourcesListCmd.Flags().BoolP("builtin", "b", false, "Display only built-in sources")
	sourcesListCmd.Flags().BoolP("extensions", "e", false, "Display only installed extension sources")

	sourcesListCmd.MarkFlagsMutuallyExclusive("builtin", "extensions")
	sourcesListCmd.SetOut(os.Stdout)
}

// sourcesListCmd displays every source a search can be routed to.
var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display every registered content source",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader := !lo.Must(cmd.Flags().GetBool("raw"))
		headerStyle := style.New().Foreground(color.HiBlue).Bold(true).Render
		h := func(s string) {
			if printHeader {
				cmd.Println(headerStyle(s))
			}
		}

		printBuiltin := func() {
			h("Builtin:")
			for _, descriptor := range provider.Descriptors() {
				line := descriptor.ID
				if printHeader {
					line = fmt.Sprintf("%s %s %s",
						icon.Get(icon.Source),
						descriptor.ID,
						style.Faint(descriptor.BaseURL),
					)
				}
				cmd.Println(line)
			}
		}

		printExtensions := func() {
			h("Extensions:")
			for _, info := range extensions().Installed() {
				line := info.ID
				if printHeader {
					state := "installed"
					if info.Loaded {
						state = "loaded"
					}
					line = fmt.Sprintf("%s %s %s %s",
						icon.Get(icon.Extension),
						info.ID,
						style.Faint(info.Version),
						style.Faint(state),
					)
				}
				cmd.Println(line)
			}
		}

		switch {
		case lo.Must(cmd.Flags().GetBool("builtin")):
			printBuiltin()
		case lo.Must(cmd.Flags().GetBool("extensions")):
			printExtensions()
		default:
			printBuiltin()
			if printHeader {
				cmd.Println()
			}
			printExtensions()
		}
	},
}
