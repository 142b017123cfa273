// Command mypl is the process entry point described in SPEC_FULL.md
// §6.1: a thin urfave/cli driver over lexer/parser/typecheck/interp,
// grounded on _examples/pontaoski-tawago's cli.App layout and using
// kr/pretty and alecthomas/repr for the diagnostic dump flags.
package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/alecthomas/repr"
	"github.com/kr/pretty"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"mypl/interp"
	"mypl/parser"
	"mypl/typecheck"
)

func main() {
	app := &cli.App{
		Name:  "mypl",
		Usage: "the MyPL interpreter",
		Commands: []*cli.Command{
			runCommand(),
			checkCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "mypl:", err)
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "lex, parse, type-check, and execute a MyPL source file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dump-ast", Usage: "print the parsed AST before running"},
			&cli.BoolFlag{Name: "verbose", Usage: "print a full stack trace on failure"},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return cli.Exit("run requires a source file path", 2)
			}
			src, err := ioutil.ReadFile(path)
			if err != nil {
				return cli.Exit(err, 1)
			}

			prog, err := parser.Parse(string(src))
			if err != nil {
				return reportFailure(err, c.Bool("verbose"))
			}
			if c.Bool("dump-ast") {
				pretty.Println(prog)
			}
			if err := typecheck.Check(prog); err != nil {
				return reportFailure(err, c.Bool("verbose"))
			}

			it := interp.New(os.Stdout, os.Stdin)
			code, err := it.Run(prog)
			if err != nil {
				return reportFailure(err, c.Bool("verbose"))
			}
			os.Exit(code)
			return nil
		},
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "lex, parse, and type-check a MyPL source file without running it",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "print the AST via repr on success"},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return cli.Exit("check requires a source file path", 2)
			}
			src, err := ioutil.ReadFile(path)
			if err != nil {
				return cli.Exit(err, 1)
			}

			prog, err := parser.Parse(string(src))
			if err != nil {
				return reportFailure(err, c.Bool("verbose"))
			}
			if err := typecheck.Check(prog); err != nil {
				return reportFailure(err, c.Bool("verbose"))
			}
			if c.Bool("verbose") {
				repr.Println(prog)
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func reportFailure(err error, verbose bool) error {
	if verbose {
		tracerr.PrintSourceColor(tracerr.Wrap(err))
	}
	return cli.Exit(err, 1)
}
