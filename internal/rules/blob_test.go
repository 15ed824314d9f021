package rules_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/merchkit/pricing-api/internal/pricing"
	"github.com/merchkit/pricing-api/internal/rules"
)

func TestConfigRoundTripPreservesRules(t *testing.T) {
	in := []pricing.Rule{
		{ID: "r1", Name: "20% off", Kind: pricing.KindPercentage, Magnitude: 20},
		{ID: "r2", Name: "Rp15 off", Kind: pricing.KindFixed, Magnitude: 1_500, ProductIDs: []string{"sku-1", "sku-2"}},
	}
	blob, err := rules.EncodeConfig(in)
	require.NoError(t, err)

	out, err := rules.DecodeConfig(blob)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestDecodeConfigRejectsMalformedBlob(t *testing.T) {
	_, err := rules.DecodeConfig([]byte(`{"version":1,"rules":[{`))
	require.Error(t, err)
}

func TestDecodeConfigRejectsUnknownVersion(t *testing.T) {
	_, err := rules.DecodeConfig([]byte(`{"version":2,"rules":[]}`))
	require.Error(t, err)
}

func TestDecodeConfigRejectsRuleWithoutID(t *testing.T) {
	_, err := rules.DecodeConfig([]byte(`{"version":1,"rules":[{"name":"x","kind":"fixed","magnitude":5}]}`))
	require.Error(t, err)
}

func TestDecodeConfigCarriesUnknownKind(t *testing.T) {
	// A newer schema may introduce kinds this build does not understand; the
	// engine degrades them to zero-amount candidates instead of failing.
	out, err := rules.DecodeConfig([]byte(`{"version":1,"rules":[{"id":"r1","name":"x","kind":"bogo","magnitude":5}]}`))
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, pricing.Kind("bogo"), out[0].Kind)
	require.Equal(t, int64(0), pricing.DiscountAmount(1_000, out[0]))
}
