// Package cmd implements the command-line interface for yomikata.
package cmd

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/yomikata-app/yomikata/color"
	"github.com/yomikata-app/yomikata/icon"
	"github.com/yomikata-app/yomikata/style"
	"github.com/yomikata-app/yomikata/util"
)

func init() {
	rootCmd.AddCommand(episodesCmd)
	episodesCmd.AddCommand(episodesURLsCmd)

	episodesCmd.PersistentFlags().StringP("source", "s", "", "Name of the anime source")
	lo.Must0(episodesCmd.MarkPersistentFlagRequired("source"))
	lo.Must0(episodesCmd.RegisterFlagCompletionFunc("source", completionSourceNames))

	for _, c := range []*cobra.Command{episodesCmd, episodesURLsCmd} {
		c.SetOut(os.Stdout)
	}
}

// episodesCmd lists the episodes of an anime.
var episodesCmd = &cobra.Command{
	Use:   "episodes <id>",
	Short: "List the episodes of an anime",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sourceName := lo.Must(cmd.Flags().GetString("source"))

		e := util.PrintErasable(fmt.Sprintf("%s Fetching episodes...", icon.Get(icon.Progress)))
		episodes, err := manager().Episodes(args[0], sourceName)
		e()
		handleErr(err)

		if len(episodes) == 0 {
			cmd.Printf("%s no episodes found\n", icon.Get(icon.Fail))
			return
		}

		for _, episode := range episodes {
			cmd.Printf("%s %s\n", episode.String(), style.Faint(episode.ID))
		}
	},
}

// episodesURLsCmd resolves the stream URLs of a single episode.
var episodesURLsCmd = &cobra.Command{
	Use:   "urls <episode-id>",
	Short: "Show the stream URLs of an episode",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sourceName := lo.Must(cmd.Flags().GetString("source"))

		urls, err := manager().EpisodeURLs(args[0], sourceName)
		handleErr(err)

		if len(urls) == 0 {
			cmd.Printf("%s no streams available\n", icon.Get(icon.Fail))
			return
		}

		for _, u := range urls {
			cmd.Println(style.Fg(color.Blue)(u))
		}
	},
}
