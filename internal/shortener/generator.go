package shortener

import "github.com/jaevor/go-nanoid"

// codeAlphabet is the 62-symbol alphabet used for generated codes.
const codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultCodeLength is the length of generated short codes.
const DefaultCodeLength = 6

// Generator produces random candidate codes. It has no side effects and
// no failure modes; collisions are resolved by the allocation loop.
type Generator func() string

// NewGenerator creates a generator drawing uniformly from the 62-symbol
// alphanumeric alphabet.
func NewGenerator(length int) (Generator, error) {
	gen, err := nanoid.CustomASCII(codeAlphabet, length)
	if err != nil {
		return nil, err
	}

	return Generator(gen), nil
}
