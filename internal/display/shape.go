package display

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// IDShape is the explicit classification of a name-field value. Anything that
// is not FreeText is an identifier leaking into a name slot and must not be
// shown to a human.
type IDShape int

const (
	// ShapeFreeText is an ordinary human-readable name.
	ShapeFreeText IDShape = iota
	// ShapeNumeric is a purely numeric platform id.
	ShapeNumeric
	// ShapeGsisPattern matches the league feed id form NN-NNNNNNN.
	ShapeGsisPattern
	// ShapeUuidPattern is a canonical player_uid or other UUID.
	ShapeUuidPattern
	// ShapePlaceholderName is a synthesized stand-in like "Sleeper Player 12345".
	ShapePlaceholderName
)

var (
	numericPattern     = regexp.MustCompile(`^[0-9]+$`)
	gsisPattern        = regexp.MustCompile(`^[0-9]{2}-[0-9]{6,7}$`)
	placeholderPattern = regexp.MustCompile(`^[A-Za-z]+ [Pp]layer [0-9]+$`)
)

// ClassifyIDShape tags a value so callers can dispatch exhaustively instead of
// re-testing patterns at every site.
func ClassifyIDShape(value string) IDShape {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return ShapeFreeText
	case numericPattern.MatchString(value):
		return ShapeNumeric
	case gsisPattern.MatchString(value):
		return ShapeGsisPattern
	case placeholderPattern.MatchString(value):
		return ShapePlaceholderName
	}
	if _, err := uuid.Parse(value); err == nil {
		return ShapeUuidPattern
	}
	return ShapeFreeText
}

// UsableName reports whether a value can be shown as a human-facing name:
// non-empty and classified as free text.
func UsableName(value string) bool {
	return strings.TrimSpace(value) != "" && ClassifyIDShape(value) == ShapeFreeText
}
