package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/codename-B/OneText/cmd/onetext-setup/commands"
	"github.com/codename-B/OneText/internal/version"
)

func main() {
	rootCmd := commands.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "ONETEXT-SETUP",
		Section: "1",
		Source:  "onetext-setup " + version.Version,
		Manual:  "onetext-setup manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
