// Package cmd implements the command-line interface for yomikata.
package cmd

import (
	"os"
	"runtime"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/yomikata-app/yomikata/color"
	"github.com/yomikata-app/yomikata/constant"
	"github.com/yomikata-app/yomikata/style"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Display only the version string without metadata")
}

// versionCmd displays application version and build metadata.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version and build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		versionInfo := struct {
			Version  string
			OS       string
			Arch     string
			GoValues string
		}{
			Version:  constant.Version,
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
			GoValues: runtime.Version(),
		}

		t := template.Must(template.New("version").Funcs(template.FuncMap{
			"header": style.Fg(color.Purple),
		}).Parse(`{{ header "Version" }}  {{ .Version }}
{{ header "OS" }}       {{ .OS }}
{{ header "Arch" }}     {{ .Arch }}
{{ header "Go" }}       {{ .GoValues }}
`))

		handleErr(t.Execute(cmd.OutOrStdout(), versionInfo))
	},
}
