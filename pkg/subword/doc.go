// Package subword provides a byte-pair-encoding style subword tokenizer.
// It learns a vocabulary of frequent substrings from a corpus, prunes it to
// a target size, and encodes text into token IDs by greedy longest match.
//
// Quick start:
//
//	tok, err := subword.New(subword.WithMaxSubwordLen(4))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := tok.LearnText("the cat sat on the mat", 50); err != nil {
//	    log.Fatal(err)
//	}
//
//	ids, _ := tok.Encode("the hat")
//	text, _ := tok.Decode(ids) // "the hat"
//
// A Tokenizer is safe for concurrent use: encoding and inspection take a
// shared lock, learning and pruning take an exclusive one.
package subword
