// Package cmd implements the command-line interface for yomikata.
package cmd

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yomikata-app/yomikata/color"
	"github.com/yomikata-app/yomikata/icon"
	"github.com/yomikata-app/yomikata/key"
	"github.com/yomikata-app/yomikata/query"
	"github.com/yomikata-app/yomikata/style"
	"github.com/yomikata-app/yomikata/util"
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("source", "s", "", "Name of the source to search")
	lo.Must0(searchCmd.MarkFlagRequired("source"))
	lo.Must0(searchCmd.RegisterFlagCompletionFunc("source", completionSourceNames))

	searchCmd.SetOut(os.Stdout)
}

func completionSourceNames(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return manager().Names(), cobra.ShellCompDirectiveNoFileComp
}

// searchCmd queries one source for matching titles.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search a source for manga or anime titles",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			q          = args[0]
			sourceName = lo.Must(cmd.Flags().GetString("source"))
		)

		e := util.PrintErasable(fmt.Sprintf("%s Searching %s...", icon.Get(icon.Search), q))
		favorites, err := manager().Search(q, sourceName)
		e()
		handleErr(err)

		if len(favorites) == 0 {
			cmd.Printf("%s nothing found for %s\n", icon.Get(icon.Fail), style.Fg(color.Yellow)(q))
			if suggestion := query.Suggest(q); suggestion.IsPresent() {
				cmd.Printf("Try %s instead\n", style.Fg(color.Cyan)(suggestion.MustGet()))
			}
			return
		}

		handleErr(query.Remember(q, 1))

		limit := viper.GetInt(key.DownloaderSearchLimit)
		if limit > 0 && len(favorites) > limit {
			favorites = favorites[:limit]
		}

		for _, favorite := range favorites {
			cmd.Printf("%s %s %s\n",
				style.Title(favorite.Name),
				style.Faint(favorite.SourceID),
				style.Faint(string(favorite.Kind)),
			)
			if favorite.Link != "" {
				cmd.Println("  " + style.Fg(color.Blue)(favorite.Link))
			}
		}
	},
}
