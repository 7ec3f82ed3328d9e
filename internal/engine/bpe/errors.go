package bpe

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrUnencodable is returned when a character has no vocabulary entry at
	// any length. Only reachable after pruning discards single characters.
	ErrUnencodable = errors.New("bpe: unencodable character")

	// ErrUnknownTokenID is returned by Decode for an ID outside the vocabulary.
	ErrUnknownTokenID = errors.New("bpe: unknown token id")

	// ErrInvalidUTF8 is returned when training or input text is not valid
	// UTF-8. Such bytes cannot survive a decode round trip.
	ErrInvalidUTF8 = errors.New("bpe: invalid utf-8")

	ErrInvalidVocabSize   = errors.New("bpe: target vocab size must be positive")
	ErrNegativeIterations = errors.New("bpe: iteration count must not be negative")
	ErrInvalidSnapshot    = errors.New("bpe: invalid snapshot")
)

// UnencodableError reports the character that could not be matched and its
// rune offset within the input text.
type UnencodableError struct {
	Char   rune
	Offset int
}

func (e *UnencodableError) Error() string {
	return fmt.Sprintf("bpe: unencodable character %q at offset %d", e.Char, e.Offset)
}

func (e *UnencodableError) Unwrap() error { return ErrUnencodable }

// UnknownTokenIDError reports an ID that does not map to a vocabulary entry
// and its position in the decoded sequence.
type UnknownTokenIDError struct {
	ID       int
	Position int
}

func (e *UnknownTokenIDError) Error() string {
	return fmt.Sprintf("bpe: unknown token id %d at position %d", e.ID, e.Position)
}

func (e *UnknownTokenIDError) Unwrap() error { return ErrUnknownTokenID }

// InvalidUTF8Error reports the byte offset of the first invalid UTF-8
// sequence in a text.
type InvalidUTF8Error struct {
	Offset int
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("bpe: invalid utf-8 at byte %d", e.Offset)
}

func (e *InvalidUTF8Error) Unwrap() error { return ErrInvalidUTF8 }

// checkUTF8 returns an *InvalidUTF8Error for the first invalid byte in s.
func checkUTF8(s string) error {
	if utf8.ValidString(s) {
		return nil
	}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return &InvalidUTF8Error{Offset: i}
		}
		i += size
	}
	return nil
}
