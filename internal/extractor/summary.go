package extractor

import (
	"log"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// summarySentences is how many leading sentences the extractive summary keeps
const summarySentences = 3

// The sentence tokenizer is a process-wide optional capability. It is
// provisioned at most once; if provisioning fails, summaries are skipped
// for the rest of the process but extraction itself is unaffected.
var (
	tokenizerOnce sync.Once
	tokenizer     *sentences.DefaultSentenceTokenizer
	tokenizerErr  error
)

func ensureTokenizer() bool {
	tokenizerOnce.Do(func() {
		tokenizer, tokenizerErr = english.NewSentenceTokenizer(nil)
		if tokenizerErr != nil {
			log.Printf("Sentence tokenizer unavailable, summaries disabled: %v", tokenizerErr)
		}
	})
	return tokenizerErr == nil && tokenizer != nil
}

// Summarizer produces short extractive summaries from article text
type Summarizer struct{}

// NewSummarizer creates a summarizer. The underlying tokenizer is
// provisioned lazily on first use.
func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// Summarize returns the first few sentences of text, or "" when text is
// empty or the tokenizer is unavailable.
func (s *Summarizer) Summarize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if !ensureTokenizer() {
		return ""
	}

	parts := tokenizer.Tokenize(text)
	if len(parts) == 0 {
		return ""
	}
	if len(parts) > summarySentences {
		parts = parts[:summarySentences]
	}

	out := make([]string, 0, len(parts))
	for _, sentence := range parts {
		if trimmed := strings.TrimSpace(sentence.Text); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return strings.Join(out, " ")
}
