package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/keycalc"
)

func main() {
	log.SetFlags(0)
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errFailed) {
			os.Exit(1)
		}
		log.Fatal(err)
	}
}

// errFailed reports that at least one expression failed. The failures have
// already been printed.
var errFailed = errors.New("some expressions failed")

type flags struct {
	inname   string
	echo     bool
	maxDepth int
	noCaret  bool
}

func (f *flags) parseOptions() ([]keycalc.ParseOption, error) {
	if f.maxDepth < 0 {
		return nil, fmt.Errorf("max depth (%d) must not be negative", f.maxDepth)
	}
	var opts []keycalc.ParseOption
	if f.maxDepth > 0 {
		opts = append(opts, keycalc.MaxDepth(f.maxDepth))
	}
	if f.noCaret {
		opts = append(opts, keycalc.NoCaret())
	}
	return opts, nil
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "keycalc [expr...]",
		Short: "Evaluate arithmetic expressions",
		Long: `Keycalc evaluates arithmetic expressions with + - * / % ** and parentheses.
^ means the same as **.

Each argument is one expression. With no arguments, expressions are read
one per line from --in or standard input. Anything other than arithmetic,
such as names or function calls, is rejected without being evaluated.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.parseOptions()
			if err != nil {
				return err
			}
			c := calc{opts: opts, echo: f.echo, out: cmd.OutOrStdout()}
			in, done, err := infile(f.inname, len(args) == 0, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer done()
			if in != nil {
				if err := c.lines(in); err != nil {
					return err
				}
			}
			for _, arg := range args {
				c.eval(arg)
			}
			if c.failed {
				return errFailed
			}
			return nil
		},
	}
	cmd.PersistentFlags().IntVar(&f.maxDepth, "max-depth", 0, "maximum nesting depth of expressions (default "+fmt.Sprint(keycalc.DefaultMaxDepth)+")")
	cmd.PersistentFlags().BoolVar(&f.noCaret, "no-caret", false, "treat ^ as bitwise xor instead of exponentiation")
	cmd.Flags().StringVar(&f.inname, "in", "", "input file, - for stdin (default stdin if no args given)")
	cmd.Flags().BoolVar(&f.echo, "echo", false, "print parse trees")
	cmd.AddCommand(newKeypadCmd(&f))
	return cmd
}

var errColor = color.New(color.FgRed)

// calc evaluates expressions and prints their results.
type calc struct {
	opts   []keycalc.ParseOption
	echo   bool
	out    io.Writer
	failed bool
}

func (c *calc) eval(src string) {
	a, err := keycalc.Parse(src, c.opts...)
	if err == nil {
		if c.echo {
			fmt.Fprintf(c.out, "%v : ", a)
		}
		var r keycalc.Number
		r, err = a.Eval()
		if err == nil {
			fmt.Fprintln(c.out, r)
			return
		}
	}
	c.failed = true
	errColor.Fprintf(c.out, "Error: %v\n", err)
}

// lines evaluates each non-blank line of in.
func (c *calc) lines(in io.Reader) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		c.eval(line)
	}
	return sc.Err()
}

// infile opens the input named by inname. If std is true and there is no
// name, the input is stdin. The reader is nil if there is no input. The
// returned function closes the file and is never nil.
func infile(inname string, std bool, stdin io.Reader) (io.Reader, func(), error) {
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			return nil, func() {}, err
		}
		return f, func() { f.Close() }, nil
	case inname == "-", std:
		return stdin, func() {}, nil
	}
	return nil, func() {}, nil
}
