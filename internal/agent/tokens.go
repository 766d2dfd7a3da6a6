package agent

import (
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter measures text in model tokens.
type TokenCounter interface {
	Count(text string) int
}

const charactersPerToken = 4

// CharEstimator approximates four characters per token, rounding up.
type CharEstimator struct{}

func (CharEstimator) Count(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + charactersPerToken - 1) / charactersPerToken
}

// TiktokenCounter counts with a BPE encoding.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func (t *TiktokenCounter) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

const defaultEncoding = "cl100k_base"

// NewTokenCounter uses the encoding for model, then cl100k_base, and falls
// back to CharEstimator when no encoding can be loaded.
func NewTokenCounter(model string) TokenCounter {
	if enc, err := tiktoken.EncodingForModel(model); err == nil {
		return &TiktokenCounter{enc: enc}
	}
	if enc, err := tiktoken.GetEncoding(defaultEncoding); err == nil {
		return &TiktokenCounter{enc: enc}
	}
	return CharEstimator{}
}

func countMessages(counter TokenCounter, messages []Message) int {
	total := 0
	for _, m := range messages {
		total += counter.Count(m.Content)
	}
	return total
}
