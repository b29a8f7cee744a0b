package cmd

import (
	"github.com/spf13/cobra"

	"github.com/accesskit/accesskit/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize accesskit configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the widget server and generates a .accesskit.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
