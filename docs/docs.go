//go:build docs

package main

import (
	"fmt"
	"os"
	"path"

	log "github.com/rs/zerolog"
	"github.com/spf13/cobra/doc"

	"github.com/callsight/callprof/internal/settings"
	"github.com/callsight/callprof/pkg/cmd"
	"github.com/callsight/callprof/pkg/cmd/options"
)

const docsDir = "docs"

var linkHandler = func(filename string) string {
	if filename == settings.CmdName+".md" {
		// This is the root command.
		return "README.md"
	}
	// Otherwise prefix with docs/.
	return path.Join(docsDir, filename)
}

func main() {
	root := cmd.NewCommand(
		options.NewOptions(
			options.WithLogger(log.New(os.Stderr).Level(log.InfoLevel)),
		),
	)

	if err := doc.GenMarkdownTreeCustom(root, docsDir, func(string) string { return "" }, linkHandler); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
