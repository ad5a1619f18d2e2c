// Package cmd implements the command-line interface for yomikata.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/yomikata-app/yomikata/color"
	"github.com/yomikata-app/yomikata/extension"
	"github.com/yomikata-app/yomikata/icon"
	"github.com/yomikata-app/yomikata/style"
)

func init() {
	rootCmd.AddCommand(extensionsCmd)
	extensionsCmd.AddCommand(extensionsListCmd)
	extensionsCmd.AddCommand(extensionsInstallCmd)
	extensionsCmd.AddCommand(extensionsLoadCmd)
	extensionsCmd.AddCommand(extensionsUnloadCmd)
	extensionsCmd.AddCommand(extensionsReloadCmd)
	extensionsCmd.AddCommand(extensionsUninstallCmd)
	extensionsCmd.AddCommand(extensionsSchemaCmd)

	extensionsInstallCmd.Flags().StringP("manifest", "m", "", "Path to the extension manifest")

	for _, c := range []*cobra.Command{
		extensionsCmd, extensionsListCmd, extensionsInstallCmd,
		extensionsLoadCmd, extensionsUnloadCmd, extensionsReloadCmd,
		extensionsUninstallCmd, extensionsSchemaCmd,
	} {
		c.SetOut(os.Stdout)
	}
}

func completionExtensionIDs(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	ids := lo.Map(extensions().Installed(), func(i extension.Info, _ int) string {
		return i.ID
	})
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// extensionsCmd manages Lua provider extensions.
var extensionsCmd = &cobra.Command{
	Use:     "extensions",
	Aliases: []string{"ext"},
	Short:   "Manage Lua source extensions",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(cmd.Help())
	},
}

var extensionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed extensions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		installed := extensions().Installed()
		if len(installed) == 0 {
			cmd.Printf("%s no extensions installed\n", icon.Get(icon.Fail))
			return
		}

		for _, info := range installed {
			state := style.Faint("installed")
			if info.Loaded {
				state = style.Fg(color.Green)("loaded")
			}

			cmd.Printf("%s %s %s %s %s\n",
				icon.Get(icon.Extension),
				style.Bold(info.Name),
				style.Faint(info.Version),
				style.Fg(color.Cyan)(string(info.Kind)),
				state,
			)
		}
	},
}

var extensionsInstallCmd = &cobra.Command{
	Use:   "install <script>",
	Short: "Install an extension from a Lua script and its manifest",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		scriptPath := args[0]
		manifestPath := lo.Must(cmd.Flags().GetString("manifest"))
		if manifestPath == "" {
			manifestPath = filepath.Join(filepath.Dir(scriptPath), "manifest.json")
		}

		info, err := extensions().Install(scriptPath, manifestPath)
		handleErr(err)

		cmd.Printf("%s installed %s %s\n",
			icon.Get(icon.Success),
			style.Bold(info.Name),
			style.Faint(info.Version),
		)
	},
}

var extensionsLoadCmd = &cobra.Command{
	Use:               "load <id>",
	Short:             "Load an installed extension into the Lua runtime",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionExtensionIDs,
	Run: func(cmd *cobra.Command, args []string) {
		info, err := extensions().Load(args[0])
		handleErr(err)
		cmd.Printf("%s loaded %s\n", icon.Get(icon.Success), style.Bold(info.Name))
	},
}

var extensionsUnloadCmd = &cobra.Command{
	Use:               "unload <id>",
	Short:             "Unload an extension, keeping it installed",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionExtensionIDs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(extensions().Unload(args[0]))
		cmd.Printf("%s unloaded %s\n", icon.Get(icon.Success), style.Bold(args[0]))
	},
}

var extensionsReloadCmd = &cobra.Command{
	Use:               "reload <id>",
	Short:             "Reload an extension from disk",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionExtensionIDs,
	Run: func(cmd *cobra.Command, args []string) {
		info, err := extensions().Reload(args[0])
		if err != nil {
			handleErr(fmt.Errorf("reload failed, extension stays unloaded: %w", err))
		}
		cmd.Printf("%s reloaded %s %s\n",
			icon.Get(icon.Success),
			style.Bold(info.Name),
			style.Faint(info.Version),
		)
	},
}

var extensionsUninstallCmd = &cobra.Command{
	Use:               "uninstall <id>",
	Short:             "Uninstall an extension and delete its files",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionExtensionIDs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(extensions().Uninstall(args[0]))
		cmd.Printf("%s uninstalled %s\n", icon.Get(icon.Success), style.Bold(args[0]))
	},
}

// extensionsSchemaCmd generates the JSON schema extension manifests must satisfy.
var extensionsSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema for extension manifests",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "manifest", "capabilities":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		schema := reflector.Reflect(&extension.Manifest{})
		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
