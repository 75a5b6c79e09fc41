package utils

import (
	"strings"
	"unicode/utf8"
)

// Separators tried strongest-first when looking for a natural cut point.
var chunkSeparators = []string{". ", ".\n", "\n\n", "\n", " "}

// SplitText splits text into chunks of at most chunkSize bytes, with
// consecutive chunks sharing roughly overlap bytes. Cuts prefer sentence and
// line boundaries over hard size cuts. Deterministic for identical inputs.
func SplitText(text string, chunkSize int, overlap int) []string {
	if text == "" || chunkSize <= 0 {
		return nil
	}
	if len(text) <= chunkSize {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return []string{trimmed}
		}
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}

	var chunks []string
	start := 0

	for start < len(text) {
		end := start + chunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			cut := end
			found := false
			// Rightmost occurrence of the strongest separator inside the
			// window. The index must be > start or the cursor would stall.
			for _, sep := range chunkSeparators {
				if idx := strings.LastIndex(text[start:end], sep); idx > 0 {
					cut = start + idx + len(sep)
					found = true
					break
				}
			}
			if !found {
				// Hard cut: back off to a rune boundary so multi-byte
				// characters are never split.
				for cut > start+1 && !utf8.RuneStart(text[cut]) {
					cut--
				}
			}
			end = cut
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(text) {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		for next < len(text) && !utf8.RuneStart(text[next]) {
			next++
		}
		start = next
	}

	return chunks
}
