package bpe

// vocab is an insertion-ordered set of subwords. A token's ID is its
// position in idToToken; tokenToID is kept in step with it so lookups in
// both directions are O(1).
type vocab struct {
	tokenToID map[string]int
	idToToken []string
}

func newVocab(capacity int) *vocab {
	return &vocab{
		tokenToID: make(map[string]int, capacity),
		idToToken: make([]string, 0, capacity),
	}
}

// vocabOf builds a vocab from tokens in order, skipping duplicates.
func vocabOf(tokens []string) *vocab {
	v := newVocab(len(tokens))
	for _, tok := range tokens {
		v.add(tok)
	}
	return v
}

// add inserts token at the next ID. Returns false if it was already present.
func (v *vocab) add(token string) bool {
	if _, ok := v.tokenToID[token]; ok {
		return false
	}
	v.tokenToID[token] = len(v.idToToken)
	v.idToToken = append(v.idToToken, token)
	return true
}

// lookup returns the ID of token.
func (v *vocab) lookup(token string) (int, bool) {
	id, ok := v.tokenToID[token]
	return id, ok
}

// token returns the token with the given ID.
func (v *vocab) token(id int) (string, bool) {
	if id < 0 || id >= len(v.idToToken) {
		return "", false
	}
	return v.idToToken[id], true
}

// contains reports whether the token is in the vocabulary.
func (v *vocab) contains(token string) bool {
	_, ok := v.tokenToID[token]
	return ok
}

// size returns the number of tokens in the vocabulary.
func (v *vocab) size() int {
	return len(v.idToToken)
}

// tokens returns a copy of the vocabulary in ID order.
func (v *vocab) tokens() []string {
	out := make([]string, len(v.idToToken))
	copy(out, v.idToToken)
	return out
}
