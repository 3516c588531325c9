package chunker

import "strings"

// SplitText cuts raw text into pieces of at most size characters with the
// given character overlap between consecutive pieces. Cuts prefer the last
// word boundary inside the window; a window with no spaces is cut hard.
// Whitespace-only input yields no pieces.
func SplitText(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 {
		return []string{text}
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var pieces []string
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			piece := strings.TrimSpace(text[start:])
			if piece != "" {
				pieces = append(pieces, piece)
			}
			break
		}

		// Break at the last space inside the window when there is one.
		cut := end
		if idx := strings.LastIndex(text[start:end], " "); idx > 0 {
			cut = start + idx
		}

		piece := strings.TrimSpace(text[start:cut])
		if piece != "" {
			pieces = append(pieces, piece)
		}

		next := cut - overlap
		if next <= start {
			next = cut // guarantee forward progress on pathological input
		}
		start = next
	}
	return pieces
}
