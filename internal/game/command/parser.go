package command

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseResult is one line of battle input split into a command word and
// its arguments.
type ParseResult struct {
	// Command is the first word, lowercased.
	Command string
	// Args are the remaining words; numeric answers queued for later prompts.
	Args []string
	// RawArgs is the text after the command with its inner spacing kept and
	// one pair of enclosing quotes removed, so it can carry a file path.
	RawArgs string
}

// Parse splits line at its first whitespace into a command and arguments.
//
// Postcondition: Command is empty iff line is blank.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	cut := strings.IndexFunc(line, unicode.IsSpace)
	if cut < 0 {
		return ParseResult{Command: strings.ToLower(line)}
	}

	rest := strings.TrimSpace(line[cut:])
	return ParseResult{
		Command: strings.ToLower(line[:cut]),
		Args:    strings.Fields(rest),
		RawArgs: unquote(rest),
	}
}

func unquote(s string) string {
	if len(s) >= 2 {
		if q := s[0]; (q == '"' || q == '\'') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Choice converts a 1-based menu answer into a 0-based index.
//
// Postcondition: returns -1 when answer is not an integer.
func Choice(answer string) int {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return -1
	}
	return n - 1
}
