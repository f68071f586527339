// Quill CLI - AI-assisted CMS content generation command-line interface.
package main

import (
	"os"

	"github.com/quillcms/quill/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
