package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// FormatHint renders the hint for word with the letter at the given
// 1-indexed position revealed in upper case.
func FormatHint(word string, position int) string {
	letters := []rune(word)
	if position < 1 || position > len(letters) {
		return ""
	}
	return fmt.Sprintf("Current word has %d letters\nThe letter at position %d is %s",
		len(letters), position, strings.ToUpper(string(letters[position-1])))
}

// hintFor picks a uniformly random position in word. Empty words have no hint.
func hintFor(rng *rand.Rand, word string) string {
	n := len([]rune(word))
	if n == 0 {
		return ""
	}
	return FormatHint(word, rng.IntN(n)+1)
}

// FormatTime renders whole seconds as MM:SS.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
