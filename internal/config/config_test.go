package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "localhost:8080", cfg.ServerAddr())
	assert.NotEmpty(t, cfg.DBPath())
	assert.Equal(t, "./emails", cfg.EmailsPath())
	assert.Equal(t, "info", cfg.LogLevel())
	assert.Equal(t, "console", cfg.LogFormat())
}

func TestDefault_ComponentConfigs(t *testing.T) {
	cfg := Default()

	ec := cfg.ExtractConfig()
	assert.Equal(t, 7, ec.PhoneMinDigits)
	assert.Equal(t, 15, ec.PhoneMaxDigits)

	sc := cfg.SignatureConfig()
	assert.Equal(t, 8, sc.MaxLines)

	sp := cfg.SpamConfig()
	assert.InDelta(t, 0.5, sp.UppercaseRatio, 1e-9)
	assert.Equal(t, 200, sp.URLDensity)
	assert.Equal(t, 3, sp.MaxTrackingURLs)
	assert.Empty(t, sp.Weights)
}

func TestSpamConfig_WeightOverrides(t *testing.T) {
	cfg := Default()
	cfg.v.Set("spam.weights", map[string]interface{}{
		"uppercase_subject": 0.5,
		"noreply_sender":    1,
	})

	sp := cfg.SpamConfig()
	require.Len(t, sp.Weights, 2)
	assert.InDelta(t, 0.5, sp.Weights["uppercase_subject"], 1e-9)
	assert.InDelta(t, 1.0, sp.Weights["noreply_sender"], 1e-9)
}
