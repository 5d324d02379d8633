// Package sequence provides amino-acid sequence normalization, validation and
// physicochemical property computation for peptides.
package sequence

import (
	"strings"
	"unicode"

	"github.com/peptoxlab/toxpred-go/internal/errors"
)

// aminoAcids is the 20-letter standard amino-acid alphabet.
const aminoAcids = "ACDEFGHIKLMNPQRSTVWY"

// validResidues is the set of accepted residue letters.
var validResidues = func() map[rune]bool {
	set := make(map[rune]bool, len(aminoAcids))
	for _, r := range aminoAcids {
		set[r] = true
	}
	return set
}()

// Alphabet returns the residue letters accepted by Validate, in canonical order.
func Alphabet() string {
	return aminoAcids
}

// Normalize trims the input, removes all internal whitespace and uppercases it.
// Normalization is idempotent.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.TrimSpace(raw) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Validate checks that a normalized sequence is non-empty and contains only
// standard amino-acid letters. No length bounds are enforced here.
func Validate(normalized string) error {
	if normalized == "" {
		return errors.Newf("sequence is empty").
			Component("sequence").
			Category(errors.CategoryValidation).
			Build()
	}

	for i, r := range normalized {
		if !validResidues[r] {
			return errors.Newf("invalid amino acid %q at position %d", r, i+1).
				Component("sequence").
				Category(errors.CategoryValidation).
				Context("sequence", normalized).
				Build()
		}
	}

	return nil
}
