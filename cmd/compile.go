package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/scorelang/scorelang/constants"
	"github.com/scorelang/scorelang/midigen"
	"github.com/scorelang/scorelang/parser"
	"github.com/scorelang/scorelang/semantics"
	"github.com/scorelang/scorelang/util"
)

var (
	compileOutput string
	compilePPQ    int
)

func init() {
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "output .mid path (default: input with .mid extension)")
	compileCmd.Flags().IntVar(&compilePPQ, "ppq", constants.DefaultPPQ, "MIDI resolution in pulses per quarter note")
	rootCmd.AddCommand(compileCmd)
}

var compileCmd = &cobra.Command{
	Use:   "compile <file.score>",
	Short: "Compiles a score file to MIDI",
	Long:  `Compiles a score file to a General MIDI file.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runCompile(args[0])
	},
}

// Compile runs the full pipeline on source text and returns the rendered
// file in memory plus any analysis warnings.
func Compile(source string, ppq int) (*smf.SMF, []string, error) {
	comp, err := parser.Parse(source)
	if err != nil {
		return nil, nil, err
	}
	analyzed, warnings, err := semantics.NewAnalyzerWithPPQ(ppq).Analyze(comp)
	if err != nil {
		return nil, warnings, err
	}
	s, err := midigen.NewWithPPQ(ppq).Render(analyzed)
	return s, warnings, err
}

func runCompile(path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		fatal(err)
	}

	s, warnings, err := Compile(string(src), compilePPQ)
	printWarnings(warnings)
	if err != nil {
		fatal(err)
	}

	out := compileOutput
	if out == "" {
		out = strings.TrimSuffix(path, ".score") + ".mid"
	}
	err = util.WriteFileAtomic(out, func(w io.Writer) error {
		_, err := s.WriteTo(w)
		return err
	})
	if err != nil {
		fatal(err)
	}
	fmt.Println("wrote " + out)
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning: "+w)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
