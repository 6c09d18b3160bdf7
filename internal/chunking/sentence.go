// Package chunking splits essay text into sentence spans and assembles them
// into overlapping, citation-tagged chunks for embedding and retrieval.
package chunking

// SplitSentences splits text into sentence-like spans. A boundary falls
// immediately after a run of terminal punctuation (. ! ?) that is followed
// by whitespace; the punctuation run and its trailing whitespace stay
// attached to the preceding span, so concatenating the spans in order
// reproduces text exactly.
//
// Terminal punctuation not followed by whitespace (decimals, abbreviations,
// closing quotes) is not a boundary. This is a known limitation of the
// splitting rule, not something callers should work around.
//
// Text with no qualifying boundary yields a single span equal to the whole
// text. Empty text yields no spans.
func SplitSentences(text string) []string {
	var spans []string

	start := 0
	i := 0
	n := len(text)

	for i < n {
		if !isTerminal(text[i]) {
			i++
			continue
		}

		// Consume the full run of terminal punctuation.
		j := i
		for j < n && isTerminal(text[j]) {
			j++
		}

		// Only a run followed by whitespace ends a sentence. The trailing
		// whitespace run belongs to the span being closed.
		if j < n && isSpace(text[j]) {
			k := j
			for k < n && isSpace(text[k]) {
				k++
			}
			spans = append(spans, text[start:k])
			start = k
			i = k
			continue
		}

		i = j
	}

	if start < n {
		spans = append(spans, text[start:])
	}

	return spans
}

// isTerminal reports whether c is sentence-terminal punctuation.
func isTerminal(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

// isSpace reports whether c is ASCII whitespace. Boundaries are only ever
// placed at ASCII bytes, so multi-byte runes are never split.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
