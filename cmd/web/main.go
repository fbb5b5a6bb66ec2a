package main

import (
	"fmt"
	"os"

	"github.com/de-tools/compliance-monitor/pkg/runtime/terminal"
)

func main() {
	cli := terminal.NewWebCLI(terminal.Options{
		Output: os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
