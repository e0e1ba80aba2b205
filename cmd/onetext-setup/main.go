package main

import (
	"fmt"
	"os"

	"github.com/codename-B/OneText/cmd/onetext-setup/commands"
	"github.com/codename-B/OneText/pkg/errors"
)

func main() {
	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.ExitCode(err))
	}
}
