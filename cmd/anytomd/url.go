package main

import (
	"github.com/spf13/cobra"

	"github.com/JaimeStill/anytomarkdown/pkg/client"
)

var urlCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Fetch a remote document and convert it to Markdown",
	Long: `URL asks the service to download the document at the given http or https
address and convert it. HTML pages are named after their <title>.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		resp := newClient().ConvertURL(cmd.Context(), target)

		out, _ := cmd.Flags().GetString("out")
		return emit(cmd, client.StateOf(resp), out, func(client.Result) string { return target })
	},
}

func init() {
	urlCmd.Flags().String("out", "", "directory for <name>.md files (default: print to stdout)")

	rootCmd.AddCommand(urlCmd)
}
