package match

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Command is one simple command recovered from a bash command line.
type Command struct {
	Name       string   // invoked program ("git", "rm")
	Args       []string // arguments as written
	Subcommand string   // first non-flag argument ("commit" in "git commit")
}

// ParseCommands parses a bash command line into its simple commands using
// a real bash grammar, so pattern suggestions survive pipes, lists, and
// redirections.
func ParseCommands(command string) ([]Command, error) {
	parser := syntax.NewParser(
		syntax.Variant(syntax.LangBash),
		syntax.KeepComments(false),
	)

	file, err := parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, fmt.Errorf("parse command: %w", err)
	}

	var commands []Command
	syntax.Walk(file, func(node syntax.Node) bool {
		if call, ok := node.(*syntax.CallExpr); ok {
			if cmd, ok := callToCommand(call); ok {
				commands = append(commands, cmd)
			}
		}
		return true
	})
	return commands, nil
}

func callToCommand(call *syntax.CallExpr) (Command, bool) {
	if len(call.Args) == 0 {
		return Command{}, false
	}

	cmd := Command{Name: wordText(call.Args[0])}
	if cmd.Name == "" {
		return Command{}, false
	}

	for _, arg := range call.Args[1:] {
		text := wordText(arg)
		cmd.Args = append(cmd.Args, text)
		if cmd.Subcommand == "" && !strings.HasPrefix(text, "-") {
			cmd.Subcommand = text
		}
	}
	return cmd, true
}

// wordText flattens a syntax.Word into plain text, with placeholders for
// dynamic parts.
func wordText(word *syntax.Word) string {
	var sb strings.Builder
	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, qp := range p.Parts {
				if lit, ok := qp.(*syntax.Lit); ok {
					sb.WriteString(lit.Value)
				}
			}
		case *syntax.ParamExp:
			sb.WriteString("$" + p.Param.Value)
		case *syntax.CmdSubst:
			sb.WriteString("$()")
		}
	}
	return sb.String()
}

// Pattern builds the allow pattern a user would be asked to approve for
// cmd: "git commit *" for subcommand-style tools, "ls *" otherwise.
func (c Command) Pattern() string {
	if c.Subcommand != "" {
		return c.Name + " " + c.Subcommand + " *"
	}
	return c.Name + " *"
}

// SuggestPatterns returns deduplicated approval patterns for every simple
// command in line. When the line does not parse as bash, the whole line
// is the only suggestion.
func SuggestPatterns(line string) []string {
	commands, err := ParseCommands(line)
	if err != nil || len(commands) == 0 {
		return []string{strings.TrimSpace(line)}
	}

	seen := make(map[string]bool)
	var patterns []string
	for _, cmd := range commands {
		p := cmd.Pattern()
		if !seen[p] {
			seen[p] = true
			patterns = append(patterns, p)
		}
	}
	return patterns
}
