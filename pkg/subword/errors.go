package subword

import (
	"github.com/crimson-sun/subword/internal/engine/bpe"
	"github.com/crimson-sun/subword/internal/store"
)

// Errors returned by Tokenizer methods. Use errors.Is to test for them and
// errors.As with the typed errors to get details.
var (
	ErrUnencodable        = bpe.ErrUnencodable
	ErrUnknownTokenID     = bpe.ErrUnknownTokenID
	ErrInvalidUTF8        = bpe.ErrInvalidUTF8
	ErrInvalidVocabSize   = bpe.ErrInvalidVocabSize
	ErrNegativeIterations = bpe.ErrNegativeIterations
	ErrInvalidSnapshot    = bpe.ErrInvalidSnapshot
	ErrNotFound           = store.ErrNotFound
)

// UnencodableError reports a character no vocabulary entry covers, with its
// rune offset in the input.
type UnencodableError = bpe.UnencodableError

// UnknownTokenIDError reports an ID with no vocabulary entry, with its
// position in the input.
type UnknownTokenIDError = bpe.UnknownTokenIDError

// InvalidUTF8Error reports the byte offset of the first invalid UTF-8
// sequence in training or input text.
type InvalidUTF8Error = bpe.InvalidUTF8Error
