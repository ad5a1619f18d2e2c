// Package cmd implements the command-line interface for yomikata.
package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/yomikata-app/yomikata/color"
	"github.com/yomikata-app/yomikata/icon"
	"github.com/yomikata-app/yomikata/library"
	"github.com/yomikata-app/yomikata/source"
	"github.com/yomikata-app/yomikata/style"
)

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryRemoveCmd)

	libraryAddCmd.Flags().StringP("source", "s", "", "Name of the source the title belongs to")
	libraryAddCmd.Flags().String("id", "", "Source-native identifier of the title")
	libraryAddCmd.Flags().StringP("name", "n", "", "Display name of the title")
	lo.Must0(libraryAddCmd.MarkFlagRequired("source"))
	lo.Must0(libraryAddCmd.MarkFlagRequired("id"))
	lo.Must0(libraryAddCmd.MarkFlagRequired("name"))
	lo.Must0(libraryAddCmd.RegisterFlagCompletionFunc("source", completionSourceNames))

	for _, c := range []*cobra.Command{libraryCmd, libraryAddCmd, libraryRemoveCmd} {
		c.SetOut(os.Stdout)
	}
}

// libraryCmd lists every saved favorite.
var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List the titles saved in the library",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		favorites, err := library.Favorites()
		handleErr(err)

		if len(favorites) == 0 {
			cmd.Printf("%s the library is empty\n", icon.Get(icon.Fail))
			return
		}

		for _, favorite := range favorites {
			markers, err := library.ReadMarkers(favorite.ID)
			handleErr(err)

			cmd.Printf("%s %s %s %s\n",
				style.Faint(strconv.FormatInt(favorite.ID, 10)),
				style.Title(favorite.Name),
				style.Fg(color.Cyan)(favorite.Source),
				style.Faint(fmt.Sprintf("%d read", len(markers))),
			)
		}
	},
}

// libraryAddCmd saves a title to the library.
var libraryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a title to the library",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		favorite := source.Favorite{
			Name:     lo.Must(cmd.Flags().GetString("name")),
			Source:   lo.Must(cmd.Flags().GetString("source")),
			SourceID: lo.Must(cmd.Flags().GetString("id")),
		}

		saved, err := library.Add(favorite)
		handleErr(err)

		cmd.Printf("%s saved %s with id %s\n",
			icon.Get(icon.Success),
			style.Bold(saved.Name),
			style.Fg(color.Purple)(strconv.FormatInt(saved.ID, 10)),
		)
	},
}

// libraryRemoveCmd deletes a favorite and its read markers.
var libraryRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a title from the library",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		handleErr(err)

		handleErr(library.Remove(id))
		cmd.Printf("%s removed favorite %s\n", icon.Get(icon.Success), style.Bold(args[0]))
	},
}
