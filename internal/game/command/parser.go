package command

import "strings"

// ParseResult holds the parsed command word and arguments of one input line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the text after the command with inner spacing kept, so
	// multi-word names such as "capture net" survive intact.
	RawArgs string
}

// Empty reports whether the line held no command.
func (p ParseResult) Empty() bool { return p.Command == "" }

// Parse splits a text line into a command and arguments.
//
// Postcondition: Returns a ParseResult. If line is blank, Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}
	word, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	return ParseResult{
		Command: strings.ToLower(word),
		Args:    strings.Fields(rest),
		RawArgs: rest,
	}
}
