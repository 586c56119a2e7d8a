// Package diffparse reads classic ed-style diff output (NaM, NdM, NcM hunks
// with "<" and ">" payload lines) between a prod and a dev annotation table.
package diffparse

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

const (
	oldPrefix = "< "
	newPrefix = "> "

	maxLineBytes = 1 << 20
)

// hunkHeaderPattern matches NaM, NdM and NcM where either side may be a
// comma-joined range.
var hunkHeaderPattern = regexp.MustCompile(`^\d+(?:,\d+)*([acd])\d+(?:,\d+)*$`)

type state int

const (
	stateScan state = iota
	stateAdded
	stateDeleted
	stateChangedDel
	stateChangedAdd
)

func (s state) String() string {
	switch s {
	case stateScan:
		return "SCAN"
	case stateAdded:
		return "ADDED"
	case stateDeleted:
		return "DELETED"
	case stateChangedDel:
		return "CHANGED_DEL"
	case stateChangedAdd:
		return "CHANGED_ADD"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// HunkLineCount returns the number of payload lines a hunk header announces,
// computed as commas/2 + 1 over the whole header. An odd comma count is a
// FormatError.
func HunkLineCount(header string) (int, error) {
	commas := strings.Count(header, ",")
	if commas%2 != 0 {
		return 0, domain.NewFormatError(domain.ErrHunkHeaderFormat,
			fmt.Sprintf("odd comma count (%d) in hunk header", commas), header)
	}
	return commas/2 + 1, nil
}

// parseHunkHeader returns the hunk kind ('a', 'd' or 'c') when line is a hunk
// header.
func parseHunkHeader(line string) (byte, bool) {
	m := hunkHeaderPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	return m[1][0], true
}

// tokenizer is the single-pass state machine behind Tokenize.
type tokenizer struct {
	state            state
	addedRemaining   int
	deletedRemaining int
	out              *domain.RawDiff
}

func (t *tokenizer) feed(line string) error {
	switch t.state {
	case stateScan:
		kind, ok := parseHunkHeader(line)
		if !ok {
			return nil
		}
		n, err := HunkLineCount(line)
		if err != nil {
			return err
		}
		switch kind {
		case 'c':
			t.addedRemaining, t.deletedRemaining = n, n
			t.state = stateChangedDel
		case 'a':
			t.addedRemaining = n
			t.state = stateAdded
		case 'd':
			t.deletedRemaining = n
			t.state = stateDeleted
		}

	case stateAdded:
		if payload, ok := strings.CutPrefix(line, newPrefix); ok {
			t.out.Added = append(t.out.Added, payload)
			t.addedRemaining--
			if t.addedRemaining <= 0 {
				t.state = stateScan
			}
		}

	case stateDeleted:
		if payload, ok := strings.CutPrefix(line, oldPrefix); ok {
			t.out.Deleted = append(t.out.Deleted, payload)
			t.deletedRemaining--
			if t.deletedRemaining <= 0 {
				t.state = stateScan
			}
		}

	case stateChangedDel:
		if payload, ok := strings.CutPrefix(line, oldPrefix); ok {
			t.out.ChangedFrom = append(t.out.ChangedFrom, payload)
			t.deletedRemaining--
			if t.deletedRemaining <= 0 {
				t.state = stateChangedAdd
			}
		}

	case stateChangedAdd:
		if payload, ok := strings.CutPrefix(line, newPrefix); ok {
			t.out.ChangedTo = append(t.out.ChangedTo, payload)
			t.addedRemaining--
			if t.addedRemaining <= 0 {
				t.state = stateScan
			}
		}
	}
	return nil
}

// Tokenize reads diff text line by line in a single forward pass and sorts
// payloads into added, deleted and changed-from/changed-to buckets. Lines that
// do not fit the current state, such as "---" separators, are ignored. A
// malformed hunk header aborts the pass.
func Tokenize(r io.Reader) (*domain.RawDiff, error) {
	t := &tokenizer{
		state: stateScan,
		out:   &domain.RawDiff{},
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if err := t.feed(line); err != nil {
			if fe, ok := err.(*domain.FormatError); ok {
				fe.Line = lineNo
			}
			return nil, fmt.Errorf("tokenizing diff: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading diff: %w", err)
	}

	return t.out, nil
}

// TokenizeString is Tokenize over an in-memory diff.
func TokenizeString(diff string) (*domain.RawDiff, error) {
	return Tokenize(strings.NewReader(diff))
}
