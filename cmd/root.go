package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scorelang",
	Short: "Score notation compiler",
	Long:  `Compiles .score notation files into General MIDI files.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
