package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/devicetree-org/dtschema/pkg/cli"
	"github.com/devicetree-org/dtschema/pkg/console"
	"github.com/devicetree-org/dtschema/pkg/constants"
	"github.com/spf13/cobra"
)

// Build-time variables set by GoReleaser
var (
	version = "dev"
)

// Global flags
var verbose bool

var rootCmd = &cobra.Command{
	Use:   constants.CLIName,
	Short: "Devicetree binding schema tools",
	Long: `Devicetree binding schema tools

Bindings are YAML documents written in the devicetree dialect of JSON-Schema.
They are checked against the devicetree meta-schema, normalized, and then used
to validate devicetree data documents. Every reported problem carries the
file, line and column it was found at.

References to http://devicetree.org/ are served from the bundled schema set
and never fetched.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var docValidateCmd = &cobra.Command{
	Use:   "doc-validate <binding.yaml>...",
	Short: "Check binding schemas against the devicetree meta-schema",
	Long: `Check binding schemas against the devicetree meta-schema and report every violation.

Examples:
  ` + constants.CLIName + ` doc-validate bindings/serial/acme,uart.yaml
  ` + constants.CLIName + ` doc-validate --summary bindings/*.yaml
  ` + constants.CLIName + ` doc-validate --watch bindings/serial/acme,uart.yaml`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		watch, _ := cmd.Flags().GetBool("watch")
		summary, _ := cmd.Flags().GetBool("summary")
		var err error
		if watch {
			err = cli.WatchDocValidate(os.Stdout, args, verbose, summary)
		} else {
			err = cli.DocValidate(os.Stdout, args, verbose, summary)
		}
		exitOnError(err)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate -s <binding.yaml> <data.yaml>...",
	Short: "Validate devicetree data documents against bindings",
	Long: `Validate devicetree data documents against one or more bindings.

Each binding is checked against the meta-schema and normalized before use.

Examples:
  ` + constants.CLIName + ` validate -s bindings/serial.yaml board.yaml
  ` + constants.CLIName + ` validate -s a.yaml -s b.yaml board1.yaml board2.yaml`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		schemaFiles, _ := cmd.Flags().GetStringArray("schema")
		summary, _ := cmd.Flags().GetBool("summary")
		exitOnError(cli.Validate(os.Stdout, schemaFiles, args, verbose, summary))
	},
}

var fixupCmd = &cobra.Command{
	Use:   "fixup <binding.yaml>...",
	Short: "Print bindings with shorthand constraints expanded",
	Long: `Check bindings and print them with bare const/enum constraints turned into
single-cell arrays and fixed-length items lists given an explicit size.

The --write flag rewrites the files in place. If any file fails, the files
already rewritten are restored.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		write, _ := cmd.Flags().GetBool("write")
		exitOnError(cli.FixupSchemas(os.Stdout, args, write, verbose))
	},
}

var locateCmd = &cobra.Command{
	Use:   "locate <file.yaml> <json-pointer>",
	Short: "Print the source position of a node",
	Long: `Print the file:line:column of the node addressed by a JSON pointer.

Examples:
  ` + constants.CLIName + ` locate board.yaml /serial@1000/compatible/0
  ` + constants.CLIName + ` locate -v bindings/serial.yaml /properties/clocks`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(cli.Locate(os.Stdout, args[0], args[1], verbose))
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(console.FormatInfoMessage(fmt.Sprintf("%s version %s", constants.CLIName, cli.GetVersion())))
	},
}

// exitOnError reports err on stderr and exits with status 1
func exitOnError(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, cli.ErrValidationFailed) {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
	} else {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(fmt.Sprintf("%s: %v", constants.CLIName, err)))
	}
	os.Exit(1)
}

func init() {
	// Add global verbose flag to root command
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output showing detailed information")

	docValidateCmd.Flags().BoolP("watch", "w", false, "Watch the bindings and re-check them when they change")
	docValidateCmd.Flags().Bool("summary", false, "Print a per-file summary table")

	validateCmd.Flags().StringArrayP("schema", "s", nil, "Binding schema to validate against (repeatable)")
	validateCmd.Flags().Bool("summary", false, "Print a per-file summary table")
	_ = validateCmd.MarkFlagRequired("schema")

	fixupCmd.Flags().Bool("write", false, "Rewrite the bindings in place")

	rootCmd.AddCommand(docValidateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(fixupCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	// Set version information in the CLI package
	cli.SetVersionInfo(version)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
}
