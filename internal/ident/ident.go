package ident

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"ankideck/internal/deckerr"
	"ankideck/internal/language"
)

const (
	hexAlphabet = "0123456789abcdef"
	// base91Alphabet is every printable ASCII character minus quotes,
	// backslash, and space.
	base91Alphabet = "abcdefghijklmnopqrstuvwxyz" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"0123456789" +
		"!#$%&()*+,-./:;<=>?@[]^_`{|}~"
)

var base91Index = func() [256]int {
	var idx [256]int
	for i := range idx {
		idx[i] = -1
	}
	for i := 0; i < len(base91Alphabet); i++ {
		idx[base91Alphabet[i]] = i
	}
	return idx
}()

// LanguageShift returns the hex shift applied to identifiers of lang:
// the sum of the tag's character codes modulo 16. The default language has
// shift 0.
func LanguageShift(lang string) int {
	if lang == language.Default {
		return 0
	}
	sum := 0
	for _, r := range lang {
		sum += int(r)
	}
	return sum % len(hexAlphabet)
}

// DeriveForLanguage returns the language-specific variant of id. Hex digits
// are shifted forward by LanguageShift(lang), wrapping within 0-f;
// separators and any other characters pass through unchanged.
func DeriveForLanguage(id, lang string) string {
	if lang == language.Default {
		return id
	}
	shift := LanguageShift(lang)
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		if r >= 'A' && r <= 'F' {
			r += 'a' - 'A'
		}
		pos := strings.IndexRune(hexAlphabet, r)
		if pos < 0 {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(hexAlphabet[(pos+shift)%len(hexAlphabet)])
	}
	return b.String()
}

// Obfuscate hides a row guid behind key (the model identifier).
func Obfuscate(row, key string) (string, error) {
	return transform(row, key, -1)
}

// Deobfuscate reverses Obfuscate for the same key.
func Deobfuscate(opaque, key string) (string, error) {
	return transform(opaque, key, 1)
}

// transform walks key and moves the row character at j mod len(row) by
// sign*index(key[j]) within the base-91 alphabet. Positions visited more
// than once accumulate their shifts, so the two directions cancel exactly.
func transform(row, key string, sign int) (string, error) {
	if err := checkAlphabet(row); err != nil {
		return "", err
	}
	if err := checkAlphabet(key); err != nil {
		return "", err
	}
	if row == "" || key == "" {
		return row, nil
	}
	n := len(base91Alphabet)
	out := []byte(row)
	for j := 0; j < len(key); j++ {
		i := j % len(out)
		shifted := (base91Index[out[i]] + sign*base91Index[key[j]]) % n
		if shifted < 0 {
			shifted += n
		}
		out[i] = base91Alphabet[shifted]
	}
	return string(out), nil
}

func checkAlphabet(value string) error {
	for i := 0; i < len(value); i++ {
		if base91Index[value[i]] < 0 {
			return deckerr.Wrap(deckerr.ErrUnsupportedCharacter, "identifier", "", fmt.Sprintf("%q in %q", value[i], value), nil)
		}
	}
	return nil
}

// Generate returns a fresh note guid: a random 64-bit integer rendered in
// base 91, the same shape the flashcard application produces itself.
func Generate() string {
	num := rand.Uint64()
	for num == 0 {
		num = rand.Uint64()
	}
	return EncodeBase91(num)
}

// EncodeBase91 renders num most-significant digit first. Zero renders as
// the empty string.
func EncodeBase91(num uint64) string {
	n := uint64(len(base91Alphabet))
	var buf [16]byte
	pos := len(buf)
	for num > 0 {
		pos--
		buf[pos] = base91Alphabet[num%n]
		num /= n
	}
	return string(buf[pos:])
}

// NewGlobalID returns a time-ordered identifier for decks, configurations,
// and models.
func NewGlobalID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
