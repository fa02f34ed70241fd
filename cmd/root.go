package cmd

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

// frontendFiles holds templates/ and static/
var frontendFiles fs.FS
var configDefault string
var rootCmd = &cobra.Command{
	Use:   "fast-note-web",
	Short: "Fast Note Web",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpTemplate()
		cmd.Help()
	},
}

func Execute(efs fs.FS, c string) {
	frontendFiles = efs
	configDefault = c
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
