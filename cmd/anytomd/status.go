package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the conversion service is online",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp := newClient().Status(cmd.Context())
		if !resp.Success {
			return errors.New(resp.Error)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", resp.Service, resp.Version, resp.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
