// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/urfave/cli/v3"

	"github.com/staranto/fintrack/internal/command"
)

// Minimal doc generator. Walks the fintrack command tree and generates:
//   - docs/commands/<cmd>.md
//   - docs/man/share/man1/fintrack-<cmd>.1 via md2man
//   - docs/tldr/fintrack-<cmd>.md from the usage lines

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	commandsDir := filepath.Join(repoRoot, "docs", "commands")
	manOutDir := filepath.Join(repoRoot, "docs", "man", "share", "man1")
	tldrOutDir := filepath.Join(repoRoot, "docs", "tldr")

	for _, d := range []string{commandsDir, manOutDir, tldrOutDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			fatalf("creating output dir %s: %v", d, err)
		}
	}

	app, err := command.InitApp(context.Background(), []string{"fintrack"})
	if err != nil {
		fatalf("building command tree: %v", err)
	}

	var processed int
	for _, cmd := range app.Commands {
		if cmd.Hidden {
			continue
		}

		md := renderMarkdown(cmd)
		mdPath := filepath.Join(commandsDir, cmd.Name+".md")
		if err := writeFileIfChanged(mdPath, []byte(md), writeOnlyIfChanged); err != nil {
			fatalf("writing markdown for %s: %v", cmd.Name, err)
		}

		manPath := filepath.Join(manOutDir, fmt.Sprintf("fintrack-%s.1", cmd.Name))
		if err := writeFileIfChanged(manPath, md2man.Render([]byte(md)), writeOnlyIfChanged); err != nil {
			fatalf("writing man page for %s: %v", cmd.Name, err)
		}

		tldrPath := filepath.Join(tldrOutDir, fmt.Sprintf("fintrack-%s.md", cmd.Name))
		if err := writeFileIfChanged(tldrPath, []byte(buildTLDR(cmd)), writeOnlyIfChanged); err != nil {
			fatalf("writing TLDR for %s: %v", cmd.Name, err)
		}

		processed++
	}

	if processed == 0 {
		fatalf("no commands found")
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}

// renderMarkdown writes a man-style page for cmd and its subcommands.
func renderMarkdown(cmd *cli.Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# fintrack-%s 1\n\n", cmd.Name)
	b.WriteString("## NAME\n\n")
	fmt.Fprintf(&b, "fintrack-%s - %s\n\n", cmd.Name, cmd.Usage)

	leaves := leafCommands(cmd, "fintrack")
	b.WriteString("## SYNOPSIS\n\n")
	for _, l := range leaves {
		fmt.Fprintf(&b, "`%s`\n\n", usageLine(l.path, l.cmd))
	}

	for _, l := range leaves {
		fmt.Fprintf(&b, "## %s\n\n", strings.ToUpper(strings.TrimPrefix(l.path, "fintrack ")))
		if l.cmd.Usage != "" {
			fmt.Fprintf(&b, "%s.\n\n", l.cmd.Usage)
		}
		for _, f := range l.cmd.Flags {
			names := f.Names()
			flags := make([]string, 0, len(names))
			for _, n := range names {
				if len(n) == 1 {
					flags = append(flags, "-"+n)
				} else {
					flags = append(flags, "--"+n)
				}
			}
			usage := ""
			if df, ok := f.(cli.DocGenerationFlag); ok {
				usage = df.GetUsage()
			}
			fmt.Fprintf(&b, "**%s**\n: %s\n\n", strings.Join(flags, ", "), usage)
		}
	}

	return b.String()
}

type leaf struct {
	path string
	cmd  *cli.Command
}

func leafCommands(cmd *cli.Command, prefix string) []leaf {
	path := prefix + " " + cmd.Name
	if len(cmd.Commands) == 0 {
		return []leaf{{path: path, cmd: cmd}}
	}
	var out []leaf
	for _, sub := range cmd.Commands {
		out = append(out, leafCommands(sub, path)...)
	}
	return out
}

func usageLine(path string, cmd *cli.Command) string {
	if cmd.UsageText != "" {
		return sanitizeCommand(cmd.UsageText)
	}
	return path + " [options]"
}

func buildTLDR(cmd *cli.Command) string {
	var b strings.Builder
	b.WriteString("# fintrack-" + cmd.Name + "\n\n")
	b.WriteString("> " + cmd.Usage + ".\n")
	b.WriteString("> More information: `fintrack " + cmd.Name + " --help`.\n")

	for _, l := range leafCommands(cmd, "fintrack") {
		desc := l.cmd.Usage
		if desc == "" {
			desc = "Run " + l.path
		}
		b.WriteString("\n- " + strings.ToUpper(desc[:1]) + desc[1:] + ":\n\n")
		b.WriteString("`" + usageLine(l.path, l.cmd) + "`\n")
	}
	return b.String()
}

func sanitizeCommand(s string) string {
	// Compress runs of whitespace.
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
