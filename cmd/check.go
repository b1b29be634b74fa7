package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scorelang/scorelang/parser"
	"github.com/scorelang/scorelang/semantics"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <file.score>",
	Short: "Validates a score file without generating MIDI",
	Long:  `Parses and analyzes a score file, reporting errors and warnings.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runCheck(args[0])
	},
}

func runCheck(path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		fatal(err)
	}

	comp, err := parser.Parse(string(src))
	if err != nil {
		fatal(err)
	}

	analyzed, warnings, err := semantics.NewAnalyzer().Analyze(comp)
	printWarnings(warnings)
	if err != nil {
		fatal(err)
	}

	voices := 0
	for _, inst := range analyzed.InstrumentsInOrder() {
		voices += len(inst.Voices)
	}
	fmt.Printf("%v: ok (%v instruments, %v voices)\n", path, len(analyzed.Instruments), voices)
}
