// Package resume loads a respondent's resume and answers similarity queries
// against it.
package resume

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

var separators = []string{"\n\n", "\n", " ", ""}

// Split cuts text into chunks of at most chunkSize runes, preferring
// paragraph, then line, then word boundaries. Consecutive chunks share up to
// overlap runes. Non-positive sizes use the defaults; an overlap that is not
// smaller than the chunk size is reduced to a fifth of it.
func Split(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 5
	}

	s := splitter{size: chunkSize, overlap: overlap}
	return s.split(strings.ReplaceAll(text, "\r\n", "\n"), separators)
}

type splitter struct {
	size    int
	overlap int
}

func (s splitter) split(text string, seps []string) []string {
	separator := seps[len(seps)-1]
	var rest []string
	for i, sep := range seps {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = seps[i+1:]
			break
		}
	}

	var pieces []string
	if separator == "" {
		pieces = strings.Split(text, "")
	} else {
		pieces = strings.Split(text, separator)
	}

	var (
		chunks []string
		small  []string
	)
	for _, piece := range pieces {
		if utf8.RuneCountInString(piece) < s.size {
			small = append(small, piece)
			continue
		}

		if len(small) > 0 {
			chunks = append(chunks, s.merge(small, separator)...)
			small = nil
		}
		if len(rest) == 0 {
			chunks = append(chunks, piece)
			continue
		}
		chunks = append(chunks, s.split(piece, rest)...)
	}

	if len(small) > 0 {
		chunks = append(chunks, s.merge(small, separator)...)
	}

	return chunks
}

// merge packs pieces into chunks no longer than the size, carrying the tail
// of each chunk into the next one up to the overlap.
func (s splitter) merge(pieces []string, separator string) []string {
	sepLen := utf8.RuneCountInString(separator)

	var (
		chunks  []string
		current []string
		total   int
	)

	joinedLen := func(extra int) int {
		if len(current) > 0 {
			return total + extra + sepLen
		}
		return total + extra
	}

	for _, piece := range pieces {
		n := utf8.RuneCountInString(piece)

		if joinedLen(n) > s.size && len(current) > 0 {
			if chunk := strings.TrimSpace(strings.Join(current, separator)); chunk != "" {
				chunks = append(chunks, chunk)
			}

			for total > s.overlap || (joinedLen(n) > s.size && total > 0) {
				drop := utf8.RuneCountInString(current[0])
				if len(current) > 1 {
					drop += sepLen
				}
				total -= drop
				current = current[1:]
			}
		}

		current = append(current, piece)
		total += n
		if len(current) > 1 {
			total += sepLen
		}
	}

	if chunk := strings.TrimSpace(strings.Join(current, separator)); chunk != "" {
		chunks = append(chunks, chunk)
	}

	return chunks
}
