package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/anytomarkdown/pkg/client"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert local files to Markdown",
	Long: `Convert uploads one or more local files. A single file is sent to the
single-file endpoint; several files are sent together as one batch. Files the
service would reject by type or size are reported without being uploaded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("out", "", "directory for <name>.md files (default: print to stdout)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	files := make([]client.File, 0, len(args))
	paths := make(map[string]string, len(args))
	for _, path := range args {
		f, err := client.OpenFile(path)
		if err != nil {
			return err
		}
		files = append(files, f)
		paths[f.Name] = path
	}

	c := newClient()

	var resp client.Response
	if len(files) == 1 {
		resp = c.Convert(cmd.Context(), files[0])
	} else {
		resp = c.ConvertBatch(cmd.Context(), files)
	}

	out, _ := cmd.Flags().GetString("out")
	return emit(cmd, client.StateOf(resp), out, func(r client.Result) string {
		if path, ok := paths[r.Name]; ok {
			return path
		}
		return r.Name
	})
}

// emit reports a terminal state: warnings go to stderr, results to stdout or out.
func emit(cmd *cobra.Command, state client.State, out string, source func(client.Result) string) error {
	for _, w := range state.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "skipped:", w)
	}
	if state.Phase == client.Failed {
		return fmt.Errorf("%s", state.Message)
	}

	if out == "" {
		return printResults(cmd.OutOrStdout(), state.Results)
	}

	for _, r := range state.Results {
		path, err := writeMarkdown(out, source(r), r, now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "wrote", path)
	}
	return nil
}
