package main

import (
	"fmt"
	"io"
	"os"

	"github.com/agisilaos/gfare/internal/cli"
	"github.com/agisilaos/gfare/internal/config"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(stderr, "warning: .env: %v\n", err)
	}
	app := cli.NewApp(version)
	app.Stderr = stderr
	if err := app.Run(args); err != nil {
		fmt.Fprintln(stderr, err)
		for _, hint := range cli.ErrorHints(err) {
			fmt.Fprintf(stderr, "next: %s\n", hint)
		}
		return cli.ExitCode(err)
	}
	return cli.ExitSuccess
}
