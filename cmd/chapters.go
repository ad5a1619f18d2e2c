// Package cmd implements the command-line interface for yomikata.
package cmd

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/yomikata-app/yomikata/color"
	"github.com/yomikata-app/yomikata/icon"
	"github.com/yomikata-app/yomikata/library"
	"github.com/yomikata-app/yomikata/source"
	"github.com/yomikata-app/yomikata/style"
	"github.com/yomikata-app/yomikata/util"
)

func init() {
	rootCmd.AddCommand(chaptersCmd)
	chaptersCmd.AddCommand(chaptersReadCmd)

	chaptersCmd.PersistentFlags().StringP("source", "s", "", "Name of the source the title belongs to")
	chaptersCmd.PersistentFlags().String("id", "", "Source-native identifier of the title")
	chaptersCmd.PersistentFlags().Int64P("favorite", "f", 0, "Library identifier of the title")
	chaptersCmd.PersistentFlags().StringP("language", "l", "en", "Translation language to list")

	lo.Must0(chaptersCmd.RegisterFlagCompletionFunc("source", completionSourceNames))
	chaptersCmd.MarkFlagsRequiredTogether("source", "id")
	chaptersCmd.MarkFlagsMutuallyExclusive("id", "favorite")

	for _, c := range []*cobra.Command{chaptersCmd, chaptersReadCmd} {
		c.SetOut(os.Stdout)
	}
}

// targetFavorite resolves the title a command operates on, either from the
// library by id or ad-hoc from source flags.
func targetFavorite(cmd *cobra.Command) (source.Favorite, error) {
	if id := lo.Must(cmd.Flags().GetInt64("favorite")); id != 0 {
		favorite, found, err := library.Get(id)
		if err != nil {
			return source.Favorite{}, err
		}
		if !found {
			return source.Favorite{}, fmt.Errorf("no favorite with id %d in the library", id)
		}
		return favorite, nil
	}

	var (
		sourceName = lo.Must(cmd.Flags().GetString("source"))
		sourceID   = lo.Must(cmd.Flags().GetString("id"))
	)
	if sourceName == "" || sourceID == "" {
		return source.Favorite{}, fmt.Errorf("either --favorite or both --source and --id are required")
	}

	if favorite, found, err := library.Find(sourceName, sourceID); err == nil && found {
		return favorite, nil
	}
	return source.Favorite{Source: sourceName, SourceID: sourceID}, nil
}

// chaptersCmd lists the chapters of a title, marking the ones already read.
var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "List the chapters of a manga",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		favorite, err := targetFavorite(cmd)
		handleErr(err)
		language := lo.Must(cmd.Flags().GetString("language"))

		e := util.PrintErasable(fmt.Sprintf("%s Fetching chapters...", icon.Get(icon.Progress)))
		chapters, err := manager().Chapters(favorite, language)
		e()
		handleErr(err)

		if len(chapters) == 0 {
			cmd.Printf("%s no chapters in %s\n", icon.Get(icon.Fail), style.Fg(color.Yellow)(language))
			return
		}

		for _, chapter := range chapters {
			mark := " "
			if read, err := library.IsRead(favorite, chapter); err == nil && read {
				mark = icon.Get(icon.Success)
			}

			line := chapter.String()
			if chapter.Scan != "" {
				line += " " + style.Faint("["+chapter.Scan+"]")
			}
			cmd.Printf("%s %s\n", mark, line)
		}
	},
}

// chaptersReadCmd marks a chapter as read.
var chaptersReadCmd = &cobra.Command{
	Use:   "read <number>",
	Short: "Mark a chapter as read",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		favorite, err := targetFavorite(cmd)
		handleErr(err)
		language := lo.Must(cmd.Flags().GetString("language"))

		chapters, err := manager().Chapters(favorite, language)
		handleErr(err)

		chapter, found := lo.Find(chapters, func(c source.Chapter) bool {
			return c.Number == args[0]
		})
		if !found {
			handleErr(fmt.Errorf("chapter %s not found", args[0]))
		}

		handleErr(library.MarkRead(favorite, chapter))
		cmd.Printf("%s marked chapter %s as read\n", icon.Get(icon.Success), style.Bold(chapter.Number))
	},
}
