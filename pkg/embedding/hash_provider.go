package embedding

import (
	"hash/fnv"
	"strings"
)

// HashProvider is a deterministic, offline embedding provider. It hashes
// word unigrams and bigrams into a fixed-width bag-of-features vector and
// normalizes it. Quality is far below a real model, but identical text always
// maps to an identical vector, which makes it usable for development and for
// environments without an embedding service.
type HashProvider struct{}

func NewHashProvider() *HashProvider {
	return &HashProvider{}
}

func (p *HashProvider) Generate(text string, taskType string) ([]float32, error) {
	vec := make([]float32, Dimensions)
	tokens := tokenize(text)
	for i, tok := range tokens {
		addFeature(vec, tok)
		if i+1 < len(tokens) {
			addFeature(vec, tok+" "+tokens[i+1])
		}
	}
	return normalizeVector(vec), nil
}

func addFeature(vec []float32, feature string) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(len(vec)))
	// Sign from a high bit keeps features from only accumulating positively.
	if sum&(1<<63) != 0 {
		vec[idx] -= 1
	} else {
		vec[idx] += 1
	}
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,:;!?\"'()[]")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
