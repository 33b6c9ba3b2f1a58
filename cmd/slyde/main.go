package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

// Version is the version of the application, set at build time
var Version = "dev"

func main() {
	root := newRootCmd(newRootOptions())

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
