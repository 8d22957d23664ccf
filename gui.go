package main

import (
	"github.com/fmuoria/interview-coach/internal/gui"
	"github.com/spf13/cobra"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the desktop app",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		gui.NewApp(env.cfg, env.agent).Run()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(guiCmd)
}
