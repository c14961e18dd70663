package phh

import (
	"strings"

	"github.com/lox/holdem/poker"
)

// cards joins cards without separators, e.g. "AhKh"; unknown cards are "??"
func cards(cs []poker.Card) string {
	if len(cs) == 0 {
		return "????"
	}
	var b strings.Builder
	for _, c := range cs {
		if !c.Valid() {
			b.WriteString("??")
			continue
		}
		b.WriteString(c.String())
	}
	return b.String()
}
