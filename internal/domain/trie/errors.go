package trie

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKeyword matches any *DuplicateKeywordError.
	ErrDuplicateKeyword = errors.New("duplicate keyword")

	// ErrInvalidPattern matches any *InvalidPatternError.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrCaseSensitivity matches any *CaseSensitivityError.
	ErrCaseSensitivity = errors.New("case sensitivity is fixed once keywords exist")
)

// DuplicateKeywordError reports a pattern whose (folded) trie path already
// terminates another keyword. The automaton is left unchanged.
type DuplicateKeywordError struct {
	Pattern  string // the rejected pattern
	Existing string // the keyword that already owns the path
	ID       int    // id of the existing keyword, -1 if it is an earlier pattern of the same batch
	Index    int    // position of the rejected pattern in its batch, -1 for single inserts
}

func (e *DuplicateKeywordError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("duplicate keyword %q at batch position %d (collides with %q)", e.Pattern, e.Index, e.Existing)
	}
	return fmt.Sprintf("duplicate keyword %q (collides with %q)", e.Pattern, e.Existing)
}

// Is makes errors.Is(err, ErrDuplicateKeyword) hold.
func (e *DuplicateKeywordError) Is(target error) bool {
	return target == ErrDuplicateKeyword
}

// CaseSensitivityError reports an attempt to change the folding mode after
// keywords were inserted.
type CaseSensitivityError struct {
	Keywords  int  // keywords already inserted
	Requested bool // requested case sensitivity
}

func (e *CaseSensitivityError) Error() string {
	return fmt.Sprintf("cannot set case sensitivity to %t: %d keyword(s) already inserted", e.Requested, e.Keywords)
}

// Is makes errors.Is(err, ErrCaseSensitivity) hold.
func (e *CaseSensitivityError) Is(target error) bool {
	return target == ErrCaseSensitivity
}

// InvalidPatternError reports a pattern that cannot be spelled in the
// automaton's alphabet: invalid UTF-8 for a rune automaton.
type InvalidPatternError struct {
	Pattern string
	Index   int // position in its batch, -1 for single inserts
}

func (e *InvalidPatternError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid UTF-8 in keyword %q at batch position %d", e.Pattern, e.Index)
	}
	return fmt.Sprintf("invalid UTF-8 in keyword %q", e.Pattern)
}

// Is makes errors.Is(err, ErrInvalidPattern) hold.
func (e *InvalidPatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}
