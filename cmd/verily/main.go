// Command verily runs the Verily deductive theorem prover over a file,
// or drops into an interactive REPL when no file is given.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chzyer/readline"

	"github.com/verily-lang/verily/driver"
	"github.com/verily-lang/verily/latex"
	"github.com/verily-lang/verily/proof"
)

var (
	debug       bool
	alternate   bool
	passLimit   int
	measureTime bool
	printLatex  bool
	latexOut    string
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verily [file]",
		Short: "A deductive theorem prover",
		Long: "Verily is a deductive theorem prover: it applies forward and\n" +
			"backward proof search over user-declared inference rules and\n" +
			"axioms. Give it a file to analyze it in one shot; give it no\n" +
			"argument to enter an interactive REPL.",
		Args: cobra.MaximumNArgs(1),
		RunE: run,
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "toggles debug logging")
	cmd.Flags().BoolVar(&alternate, "alternate", false, "toggles forward/backward alternation")
	cmd.Flags().IntVar(&passLimit, "pass-limit", 64, "sets the default proof-search depth budget")
	cmd.Flags().BoolVar(&measureTime, "time", false, "reports wall-clock time for file mode")
	cmd.Flags().BoolVar(&printLatex, "latex", false, "renders rules, axioms, and proven theorems as LaTeX")
	cmd.Flags().StringVar(&latexOut, "latex-out", "", "file to write --latex output to (default: stdout)")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	logger := logrus.New()
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg := driver.Config{
		Debug:             debug,
		Time:              measureTime,
		EnableAlternation: alternate,
		PassLimit:         passLimit,
		PrintLatex:        printLatex,
		Logger:            logger,
	}
	d := driver.New(cfg)

	if len(args) == 1 {
		return runFile(d, args[0])
	}
	return runREPL(d, logger)
}

func runFile(d *driver.Driver, path string) error {
	start := time.Now()
	err := d.DoFile(path)
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	if debug {
		d.DumpState()
	}

	if err := reportProvenTheorems(d); err != nil {
		return err
	}

	if measureTime {
		perSecond := float64(len(d.ProvenTheorems)) / elapsed.Seconds()
		fmt.Printf("Took %s (%.2f theorems/second)\n", elapsed, perSecond)
	}

	if printLatex {
		if err := writeLatex(d); err != nil {
			return err
		}
	}

	if d.SawError {
		return fmt.Errorf("one or more statements failed")
	}
	return nil
}

func runREPL(d *driver.Driver, logger *logrus.Logger) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 "> ",
		HistoryFile:            "/tmp/verily-history",
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	if measureTime {
		logger.Warn("cannot measure time in REPL mode; ignoring --time")
	}
	fmt.Println("Verily REPL: Ctrl+D to exit, end a statement with ';'.")

	var pending strings.Builder
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			break
		}
		if pending.Len() > 0 {
			pending.WriteByte('\n')
		}
		pending.WriteString(line)

		if strings.HasSuffix(strings.TrimSpace(line), ";") {
			rl.SaveHistory(pending.String())
			if err := d.RunSource(pending.String(), "<repl>"); err != nil {
				logger.Error(err)
			}
			pending.Reset()
		}
	}
	if pending.Len() > 0 {
		logger.Warnf("discarding partial statement: %s", pending.String())
	}

	if err := reportProvenTheorems(d); err != nil {
		return err
	}
	if d.SawError {
		return fmt.Errorf("one or more statements failed")
	}
	return nil
}

func reportProvenTheorems(d *driver.Driver) error {
	for _, idx := range d.ProvenTheorems {
		tree, err := proof.Reconstruct(d.Engine.KB, d.Engine.Rules, idx)
		if err != nil {
			return err
		}
		fmt.Println(tree)
		fmt.Println()
	}
	return nil
}

func writeLatex(d *driver.Driver) error {
	doc, err := latex.Document(d.Engine.Rules, d.Engine.KB, d.AxiomIndices, d.ProvenTheorems)
	if err != nil {
		return err
	}
	if latexOut == "" {
		fmt.Print(doc)
		return nil
	}
	return os.WriteFile(latexOut, []byte(doc), 0o644)
}
