// Package cost derives an approximate usage cost from a finished
// transcript. There is no real tokenizer behind this: each content block
// is priced at a fixed token multiplier, so the result is a best-effort
// estimate, not billing data.
package cost

import "github.com/Sn1r/shannon/internal/message"

const (
	// DefaultTokensPerBlock is the flat token weight of one content block.
	DefaultTokensPerBlock = 160
	// DefaultPricePerMTok is USD per million estimated tokens.
	DefaultPricePerMTok = 3.0
)

// Estimator prices transcripts. The zero value is unusable; use New.
type Estimator struct {
	tokensPerBlock int
	pricePerMTok   float64
}

// New builds an estimator. Non-positive parameters fall back to the
// package defaults.
func New(tokensPerBlock int, pricePerMTok float64) *Estimator {
	if tokensPerBlock <= 0 {
		tokensPerBlock = DefaultTokensPerBlock
	}
	if pricePerMTok <= 0 {
		pricePerMTok = DefaultPricePerMTok
	}
	return &Estimator{tokensPerBlock: tokensPerBlock, pricePerMTok: pricePerMTok}
}

// Estimate returns the approximate USD cost of a transcript. It is zero
// for an empty transcript and non-decreasing as blocks are appended.
func (e *Estimator) Estimate(t *message.Transcript) float64 {
	if t == nil {
		return 0
	}
	tokens := float64(t.Blocks() * e.tokensPerBlock)
	return tokens / 1_000_000 * e.pricePerMTok
}
