package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/ecmalite/internal/builder"
	"github.com/cwbudde/ecmalite/internal/config"
	"github.com/cwbudde/ecmalite/internal/parser"
	"github.com/cwbudde/ecmalite/pkg/engine"
	"github.com/spf13/cobra"
)

var (
	evalExpr   string
	dumpAST    bool
	trace      bool
	timeoutMS  int
	configPath string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a script file or expression",
	Long: `Execute a script from a file or an inline expression.

Examples:
  # Run a script file
  ecmalite run script.js

  # Evaluate an inline expression
  ecmalite run -e "console.log('Hello, World!');"

  # Run with AST dump (for debugging)
  ecmalite run --dump-ast script.js`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST (for debugging)")
	runCmd.Flags().BoolVar(&trace, "trace", false, "trace execution (for debugging)")
	runCmd.Flags().IntVar(&timeoutMS, "timeout", 0, "execution timeout in milliseconds (0 = no timeout)")
	runCmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
}

func runScript(_ *cobra.Command, args []string) error {
	var input string
	var filename string

	switch {
	case evalExpr != "":
		input = evalExpr
		filename = "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		input = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e flag for inline code")
	}

	if dumpAST {
		p := parser.New(input, filename)
		root := p.Parse()
		if p.Errors().HasErrors() {
			fmt.Fprint(os.Stderr, p.Errors().Error())
			fmt.Fprintln(os.Stderr)
			return fmt.Errorf("parsing failed")
		}
		prog, err := builder.Build(root)
		if err != nil {
			return err
		}
		fmt.Println("AST:")
		fmt.Println(prog.String())
		fmt.Println()
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config %s: %w", configPath, err)
		}
		cfg = loaded
	}
	if timeoutMS > 0 {
		cfg.ExecutionTimeoutMS = timeoutMS
	}
	if trace {
		cfg.EnableDebugStream = true
	}

	eg := engine.New(cfg)
	defer eg.Dispose()

	if trace {
		fmt.Fprintf(os.Stderr, "[Trace mode enabled - executing %s]\n", filename)
	}

	result, err := eg.Run(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %s\n", err)
		return fmt.Errorf("execution failed")
	}
	if result != nil {
		fmt.Println(result.String())
	}
	return nil
}
