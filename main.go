package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/imagebatch/imagebatch/cmd"
)

const version = "0.1.0"

func main() {
	root := cmd.NewRootCmd()

	// fang adds styled help and errors, --version, completions and manpages.
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
