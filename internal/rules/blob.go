package rules

import (
	"encoding/json"
	"fmt"

	"github.com/merchkit/pricing-api/internal/pricing"
)

// configVersion is bumped when the blob layout changes. Decoding rejects
// versions it does not know; unknown rule kinds are carried through so the
// engine can degrade them to zero-amount candidates instead.
const configVersion = 1

type configDoc struct {
	Version int       `json:"version"`
	Rules   []ruleDoc `json:"rules"`
}

type ruleDoc struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Magnitude  int64    `json:"magnitude"`
	ProductIDs []string `json:"productIds,omitempty"`
}

// EncodeConfig serialises rules into the blob handed to the checkout sandbox.
func EncodeConfig(rules []pricing.Rule) ([]byte, error) {
	doc := configDoc{Version: configVersion, Rules: make([]ruleDoc, 0, len(rules))}
	for _, r := range rules {
		doc.Rules = append(doc.Rules, ruleDoc{
			ID:         r.ID,
			Name:       r.Name,
			Kind:       string(r.Kind),
			Magnitude:  r.Magnitude,
			ProductIDs: r.ProductIDs,
		})
	}
	return json.Marshal(doc)
}

// DecodeConfig parses a rule config blob. Any parse or version failure is an
// error; a malformed configuration cannot be partially trusted.
func DecodeConfig(data []byte) ([]pricing.Rule, error) {
	var doc configDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode rule config: %w", err)
	}
	if doc.Version != configVersion {
		return nil, fmt.Errorf("decode rule config: unsupported version %d", doc.Version)
	}
	out := make([]pricing.Rule, 0, len(doc.Rules))
	for i, r := range doc.Rules {
		if r.ID == "" {
			return nil, fmt.Errorf("decode rule config: rule %d has no id", i)
		}
		out = append(out, pricing.Rule{
			ID:         r.ID,
			Name:       r.Name,
			Kind:       pricing.Kind(r.Kind),
			Magnitude:  r.Magnitude,
			ProductIDs: r.ProductIDs,
		})
	}
	return out, nil
}
