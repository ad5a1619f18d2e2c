// Package cmd implements the command-line interface for yomikata.
package cmd

import (
	"fmt"
	"os"
	"strings"
	"sync"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yomikata-app/yomikata/constant"
	"github.com/yomikata-app/yomikata/downloader"
	"github.com/yomikata-app/yomikata/extension"
	"github.com/yomikata-app/yomikata/extension/luahost"
	"github.com/yomikata-app/yomikata/icon"
	"github.com/yomikata-app/yomikata/key"
	"github.com/yomikata-app/yomikata/log"
	"github.com/yomikata-app/yomikata/provider"
	"github.com/yomikata-app/yomikata/util"
	"github.com/yomikata-app/yomikata/where"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, square)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("save-on-read", "R", true, "Persist read markers when a chapter is opened")
	lo.Must0(viper.BindPFlag(key.LibrarySaveOnRead, rootCmd.PersistentFlags().Lookup("save-on-read")))

	// Initialize cleanup of localized temporary files on application startup.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for the yomikata application.
var rootCmd = &cobra.Command{
	Use:   constant.Yomikata,
	Short: "Track manga and anime across sources from the command line",
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

var (
	extensionsOnce   sync.Once
	extensionsClient *extension.Client
)

// extensions returns the shared extension client, reconciling the installed
// list on first use.
func extensions() *extension.Client {
	extensionsOnce.Do(func() {
		extensionsClient = extension.NewClient(luahost.New(where.Extensions()))
		if err := extensionsClient.Refresh(); err != nil {
			log.Errorf("refreshing extensions: %s", err)
		}
	})
	return extensionsClient
}

var (
	managerOnce sync.Once
	managerInst *downloader.Manager
)

// manager returns the shared aggregator over built-in providers and extensions.
func manager() *downloader.Manager {
	managerOnce.Do(func() {
		managerInst = downloader.New(downloader.Options{
			Manga:      provider.Manga(),
			Anime:      provider.Anime(),
			Extensions: extensions(),
		})
	})
	return managerInst
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
