package retrieval

import "strings"

// Splitter chunks long text into overlapping pieces sized for embedding.
// Splitting is recursive: it prefers paragraph boundaries, then line breaks,
// then sentence ends, then word breaks, falling back to a hard cut.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

// SplitterOptions configure a Splitter.
type SplitterOptions struct {
	ChunkSize    int
	ChunkOverlap int
}

// NewSplitter returns a Splitter with the given options applied. Defaults are
// 1000-character chunks with 200 characters of overlap.
func NewSplitter(optFns ...func(o *SplitterOptions)) *Splitter {
	opts := SplitterOptions{ChunkSize: 1000, ChunkOverlap: 200}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Splitter{
		chunkSize:    opts.ChunkSize,
		chunkOverlap: opts.ChunkOverlap,
		separators:   []string{"\n\n", "\n", ". ", " "},
	}
}

// Split chunks text into pieces of at most the configured chunk size,
// overlapping consecutive chunks. Empty and whitespace-only pieces are dropped.
func (s *Splitter) Split(text string) []string {
	var chunks []string
	for _, piece := range s.split(text, 0) {
		trimmed := strings.TrimSpace(piece)
		if trimmed != "" {
			chunks = append(chunks, trimmed)
		}
	}
	return chunks
}

func (s *Splitter) split(text string, sepIdx int) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}
	if sepIdx >= len(s.separators) {
		return s.hardSplit(text)
	}

	sep := s.separators[sepIdx]
	parts := strings.Split(text, sep)
	if len(parts) == 1 {
		return s.split(text, sepIdx+1)
	}

	var chunks []string
	var current strings.Builder
	for _, part := range parts {
		candidateLen := current.Len() + len(sep) + len(part)
		if current.Len() > 0 && candidateLen > s.chunkSize {
			chunks = append(chunks, current.String())
			tail := overlapTail(current.String(), s.chunkOverlap)
			current.Reset()
			current.WriteString(tail)
		}
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(part)
	}
	if current.Len() > 0 {
		last := current.String()
		if len(last) > s.chunkSize {
			chunks = append(chunks, s.split(last, sepIdx+1)...)
		} else {
			chunks = append(chunks, last)
		}
	}
	return chunks
}

func (s *Splitter) hardSplit(text string) []string {
	var chunks []string
	step := s.chunkSize - s.chunkOverlap
	if step <= 0 {
		step = s.chunkSize
	}
	for start := 0; start < len(text); start += step {
		end := start + s.chunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}
	}
	return chunks
}

// overlapTail returns the last n characters of text for chunk overlap.
func overlapTail(text string, n int) string {
	if n <= 0 || len(text) <= n {
		return ""
	}
	return text[len(text)-n:]
}
