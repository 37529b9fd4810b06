package main

import (
	"os"
	"strconv"
	"strings"

	"tally-cli/internal/cli"
)

func isItemID(s string) bool {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && id > 0
}

// rewriteDirectItemLookupArgs turns `tally <id>` into `tally items show <id>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten
// before parsing. Persistent flags may come first (`tally --list cutting 3`),
// so the first positional token is searched for, not just argv[1].
func rewriteDirectItemLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":       true,
		"--workspace": true,
		"--list":      true,
		"--backend":   true,
		"--format":    true,
	}

	rewrite := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "items", "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// Drop the separator: after it cobra would not resolve subcommands.
			if i+1 < len(argv) && isItemID(argv[i+1]) {
				out := make([]string, 0, len(argv)+1)
				out = append(out, argv[:i]...)
				out = append(out, "items", "show")
				return append(out, argv[i+1:]...)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isItemID(a) {
			return rewrite(i)
		}
		return argv
	}
	return argv
}

func main() {
	args := rewriteDirectItemLookupArgs(os.Args)
	if err := cli.Execute(args[1:]); err != nil {
		os.Exit(1)
	}
}
