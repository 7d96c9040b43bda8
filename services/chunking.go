package services

import (
	"strings"
	"unicode"
)

// sentence-terminal runes; fullwidth forms cover Japanese text.
const sentenceTerminals = ".!?。！？"

// SplitText splits text into bounded, overlapping, sentence-aligned chunks.
//
// Sentences are packed greedily into a buffer; when the next sentence would
// push the buffer past maxChars the buffer is emitted and the next one is
// seeded with the trailing overlap runes of the emitted chunk. A single
// sentence longer than maxChars is emitted as an oversized chunk rather
// than split mid-sentence; callers that need a hard bound must enforce it
// at the embedding backend. Limits are counted in runes, not bytes.
func SplitText(text string, maxChars, overlap int) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var buf []rune
	for _, sentence := range sentences {
		runes := []rune(sentence)
		if len(buf)+len(runes) <= maxChars {
			buf = append(buf, runes...)
			continue
		}

		if len(buf) > 0 {
			chunk := strings.TrimSpace(string(buf))
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
			// Seed the next buffer with the tail of the closed chunk to
			// preserve context across the boundary.
			if overlap > 0 && len(buf) > overlap {
				tail := []rune(chunk)
				if len(tail) > overlap {
					tail = tail[len(tail)-overlap:]
				}
				buf = append(append([]rune{}, tail...), runes...)
				continue
			}
		}
		buf = runes
	}

	if chunk := strings.TrimSpace(string(buf)); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// splitSentences cuts text after sentence-terminal punctuation, keeping the
// terminal with the preceding sentence and dropping inter-sentence
// whitespace. Text without any terminal comes back as a single unit.
func splitSentences(text string) []string {
	var sentences []string
	var current []rune

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current = append(current, r)
		if !strings.ContainsRune(sentenceTerminals, r) {
			continue
		}
		// Consume a run of terminals ("?!", "！？") as one boundary.
		for i+1 < len(runes) && strings.ContainsRune(sentenceTerminals, runes[i+1]) {
			i++
			current = append(current, runes[i])
		}
		for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			i++
		}
		if s := strings.TrimSpace(string(current)); s != "" {
			sentences = append(sentences, s)
		}
		current = current[:0]
	}

	if s := strings.TrimSpace(string(current)); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
