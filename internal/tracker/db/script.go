package db

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// ExecScript runs every statement of a SQL script against the store, in
// order and inside a single transaction. It returns the number of
// statements executed. A failing statement rolls the whole script back.
func (r *Repository) ExecScript(ctx context.Context, script io.Reader) (int, error) {
	raw, err := io.ReadAll(script)
	if err != nil {
		return 0, fmt.Errorf("failed to read script: %w", err)
	}

	statements := SplitStatements(string(raw))
	err = r.WithTransaction(ctx, func(tx *Repository) error {
		for i, stmt := range statements {
			if err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("statement %d failed: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(statements), nil
}

// SplitStatements cuts a SQL script into individual statements on ';'.
// Comments are dropped, quoted text is kept intact and blank statements
// are skipped. Inside the BEGIN ... END body of a CREATE TRIGGER statement
// ';' does not end the statement.
func SplitStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
		scan       triggerScanner
	)

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
		scan = triggerScanner{}
	}

	for i := 0; i < len(script); i++ {
		c := script[i]
		if !isWordByte(c) {
			scan.endWord()
		}
		switch {
		case c == '-' && i+1 < len(script) && script[i+1] == '-':
			for i < len(script) && script[i] != '\n' {
				i++
			}
			current.WriteByte('\n')
		case c == '/' && i+1 < len(script) && script[i+1] == '*':
			end := strings.Index(script[i+2:], "*/")
			if end < 0 {
				i = len(script)
			} else {
				i += end + 3
			}
			current.WriteByte(' ')
		case c == '\'' || c == '"' || c == '`':
			j := quotedEnd(script, i)
			current.WriteString(script[i:j])
			i = j - 1
		case c == ';' && !scan.inBody():
			flush()
		default:
			if isWordByte(c) {
				scan.word.WriteByte(c)
			}
			current.WriteByte(c)
		}
	}
	scan.endWord()
	flush()

	return statements
}

// triggerScanner follows the keywords of one statement to tell whether it
// is a CREATE [TEMP] TRIGGER and how deep its BEGIN/CASE ... END nesting is.
type triggerScanner struct {
	word    strings.Builder
	leading []string
	trigger bool
	depth   int
}

func (s *triggerScanner) endWord() {
	if s.word.Len() == 0 {
		return
	}
	w := strings.ToUpper(s.word.String())
	s.word.Reset()

	if len(s.leading) < 3 {
		s.leading = append(s.leading, w)
		s.trigger = isTriggerPrefix(s.leading)
	}
	if !s.trigger {
		return
	}
	switch w {
	case "BEGIN", "CASE":
		s.depth++
	case "END":
		if s.depth > 0 {
			s.depth--
		}
	}
}

func (s *triggerScanner) inBody() bool {
	return s.trigger && s.depth > 0
}

func isTriggerPrefix(words []string) bool {
	if len(words) < 2 || words[0] != "CREATE" {
		return false
	}
	if words[1] == "TRIGGER" {
		return true
	}
	return len(words) == 3 && (words[1] == "TEMP" || words[1] == "TEMPORARY") && words[2] == "TRIGGER"
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// quotedEnd returns the index just past the quoted run starting at start.
// A doubled quote character is an escaped quote.
func quotedEnd(s string, start int) int {
	quote := s[start]
	for i := start + 1; i < len(s); i++ {
		if s[i] != quote {
			continue
		}
		if i+1 < len(s) && s[i+1] == quote {
			i++
			continue
		}
		return i + 1
	}
	return len(s)
}
