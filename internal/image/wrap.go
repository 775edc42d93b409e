package imagepkg

import (
	"strings"
	"unicode"
)

const tabWidth = 8

// Wrap splits s into lines of at most width characters. Tabs are expanded and
// every ASCII whitespace character becomes a space. The text is cut into chunks at
// whitespace runs and after hyphens inside hyphenated words, and chunks are
// packed greedily. Whitespace is kept inside a line but dropped at line ends
// and at the start of every line after the first. A chunk longer than width
// is broken, after its last hyphen that fits when there is one.
// All-whitespace input yields no lines.
func Wrap(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	chunks := splitChunks(mungeWhitespace(s))

	var lines []string
	for len(chunks) > 0 {
		if len(lines) > 0 && isBlank(chunks[0]) {
			chunks = chunks[1:]
		}
		var cur [][]rune
		curLen := 0
		for len(chunks) > 0 && curLen+len(chunks[0]) <= width {
			cur = append(cur, chunks[0])
			curLen += len(chunks[0])
			chunks = chunks[1:]
		}
		if len(chunks) > 0 && len(chunks[0]) > width {
			head, rest := breakLongChunk(chunks[0], width-curLen)
			cur = append(cur, head)
			chunks[0] = rest
		}
		if n := len(cur); n > 0 && isBlank(cur[n-1]) {
			cur = cur[:n-1]
		}
		if len(cur) > 0 {
			var b strings.Builder
			for _, c := range cur {
				b.WriteString(string(c))
			}
			lines = append(lines, b.String())
		}
	}
	return lines
}

// breakLongChunk splits c so the head fits in spaceLeft, preferring to cut
// right after the last hyphen that fits and has a non-hyphen before it.
func breakLongChunk(c []rune, spaceLeft int) (head, rest []rune) {
	if spaceLeft < 1 {
		return nil, c
	}
	end := spaceLeft
	if len(c) > spaceLeft {
		for i := spaceLeft - 1; i > 0; i-- {
			if c[i] == '-' {
				if strings.Trim(string(c[:i]), "-") != "" {
					end = i + 1
				}
				break
			}
		}
	}
	if end > len(c) {
		end = len(c)
	}
	return c[:end], c[end:]
}

func mungeWhitespace(s string) []rune {
	var out []rune
	col := 0
	for _, r := range s {
		switch {
		case r == '\t':
			n := tabWidth - col%tabWidth
			for i := 0; i < n; i++ {
				out = append(out, ' ')
			}
			col += n
		case r == '\n' || r == '\r':
			out = append(out, ' ')
			col = 0
		case r == ' ' || r == '\v' || r == '\f':
			out = append(out, ' ')
			col++
		default:
			out = append(out, r)
			col++
		}
	}
	return out
}

// splitChunks cuts text into whitespace runs and words, splitting words after
// a hyphen that joins two letter groups ("Navi-Mumbai" → "Navi-", "Mumbai")
// and around em-dashes written as two or more hyphens.
func splitChunks(text []rune) [][]rune {
	var chunks [][]rune
	for i := 0; i < len(text); {
		j := i
		if text[i] == ' ' {
			for j < len(text) && text[j] == ' ' {
				j++
			}
			chunks = append(chunks, text[i:j])
			i = j
			continue
		}
		for j < len(text) && text[j] != ' ' {
			j++
		}
		chunks = append(chunks, splitWord(text, i, j)...)
		i = j
	}
	return chunks
}

// splitWord splits text[start:end], a run without spaces. The checks before a
// hyphen may look at characters of the previous chunk.
func splitWord(text []rune, start, end int) [][]rune {
	var out [][]rune
	from := start
	for i := start; i < end; i++ {
		if text[i] != '-' {
			continue
		}
		j := i
		for j < end && text[j] == '-' {
			j++
		}
		if j-i >= 2 && i > 0 && isWordPunct(text[i-1]) && j < end && isWordChar(text[j]) {
			if i > from {
				out = append(out, text[from:i])
			}
			out = append(out, text[i:j])
			from = j
			i = j - 1
			continue
		}
		if i > from && hyphenBreak(text, i, end) {
			out = append(out, text[from:i+1])
			from = i + 1
		}
	}
	if from < end {
		out = append(out, text[from:end])
	}
	return out
}

// hyphenBreak reports whether a word may be split after the hyphen at i: two
// letters (or letter-hyphen-letter) before it, and a letter, an optional
// hyphen and a letter after it.
func hyphenBreak(text []rune, i, end int) bool {
	before := i >= 2 && isLetter(text[i-1]) && isLetter(text[i-2]) ||
		i >= 3 && isLetter(text[i-1]) && text[i-2] == '-' && isLetter(text[i-3])
	if !before || i+1 >= end || !isLetter(text[i+1]) {
		return false
	}
	if i+2 < end && isLetter(text[i+2]) {
		return true
	}
	return i+3 < end && text[i+2] == '-' && isLetter(text[i+3])
}

func isBlank(c []rune) bool {
	for _, r := range c {
		if r != ' ' {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool { return unicode.IsLetter(r) || r == '_' }

func isWordChar(r rune) bool { return isLetter(r) || unicode.IsDigit(r) }

func isWordPunct(r rune) bool { return isWordChar(r) || strings.ContainsRune(`!"'&.,?`, r) }
