package bpe

import (
	"strings"
	"unicode/utf8"

	"github.com/crimson-sun/subword/internal/engine/segment"
)

// Segmentation is the result of tokenizing a text. Tokens and IDs are
// parallel and always have the same length.
type Segmentation struct {
	Tokens []string
	IDs    []int
}

// unitSegment is the memoized segmentation of one word unit.
type unitSegment struct {
	tokens []string
	ids    []int
}

// Tokenize splits text into word units and segments each one by greedy
// longest match: from the current position, the longest subword of
// MaxSubwordLen..1 runes present in the vocabulary is consumed.
//
// If some character cannot be matched at any length, Tokenize returns an
// *UnencodableError and no partial output. Text that is not valid UTF-8
// yields an *InvalidUTF8Error.
func (t *Tokenizer) Tokenize(text string) (Segmentation, error) {
	if err := checkUTF8(text); err != nil {
		return Segmentation{}, err
	}
	seg := Segmentation{Tokens: []string{}, IDs: []int{}}
	offset := 0
	for _, unit := range segment.Split(text) {
		us, err := t.segmentUnit(unit, offset)
		if err != nil {
			return Segmentation{}, err
		}
		seg.Tokens = append(seg.Tokens, us.tokens...)
		seg.IDs = append(seg.IDs, us.ids...)
		offset += utf8.RuneCountInString(unit)
	}
	return seg, nil
}

// Encode returns the token IDs of text.
func (t *Tokenizer) Encode(text string) ([]int, error) {
	seg, err := t.Tokenize(text)
	if err != nil {
		return nil, err
	}
	return seg.IDs, nil
}

// Decode concatenates the entries for ids. An ID with no entry yields an
// *UnknownTokenIDError.
func (t *Tokenizer) Decode(ids []int) (string, error) {
	var b strings.Builder
	for i, id := range ids {
		tok, ok := t.vocab.token(id)
		if !ok {
			return "", &UnknownTokenIDError{ID: id, Position: i}
		}
		b.WriteString(tok)
	}
	return b.String(), nil
}

// segmentUnit segments a single word unit. offset is the rune offset of the
// unit within the text and only feeds error reporting.
func (t *Tokenizer) segmentUnit(unit string, offset int) (unitSegment, error) {
	if t.cache != nil {
		if cached, ok := t.cache.Get(unit); ok {
			return cached.(unitSegment), nil
		}
	}

	runes := []rune(unit)
	var us unitSegment
	for start := 0; start < len(runes); {
		n := min(t.maxLen, len(runes)-start)
		found := false
		for ; n > 0; n-- {
			sub := string(runes[start : start+n])
			if id, ok := t.vocab.lookup(sub); ok {
				us.tokens = append(us.tokens, sub)
				us.ids = append(us.ids, id)
				found = true
				break
			}
		}
		if !found {
			return unitSegment{}, &UnencodableError{Char: runes[start], Offset: offset + start}
		}
		start += n
	}

	if t.cache != nil {
		t.cache.Add(unit, us)
	}
	return us, nil
}
