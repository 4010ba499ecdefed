package formatter

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/foresight-engine/internal/application/guardian"
	domain "github.com/bryanwahyu/foresight-engine/internal/domain/guardian"
)

func sample(raw string) guardian.Result {
	return guardian.Result{Review: domain.Review{
		ID:         "r-1",
		Root:       ".",
		Files:      []string{"Dockerfile"},
		Verdict:    domain.ParseVerdict(raw),
		ReviewedAt: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
	}}
}

func TestDisplayHuman(t *testing.T) {
	color.NoColor = true
	cases := map[string]string{
		"PASS":                 "Configuration approved",
		"BLOCK: runs as root.": "Build HALTED",
		"I am not sure":        "indeterminate response",
	}
	for raw, want := range cases {
		var buf bytes.Buffer
		require.NoError(t, DisplayReview(&buf, sample(raw), "human"))
		assert.Contains(t, buf.String(), raw)
		assert.Contains(t, buf.String(), want)
	}
}

func TestDisplayHumanListsSecrets(t *testing.T) {
	color.NoColor = true
	res := sample("BLOCK: AWS access key exposed in cloudbuild.yaml.")
	res.Secrets = []domain.SecretFinding{{File: "cloudbuild.yaml", Title: "AWS access key exposed", Excerpt: "AKIAAB***"}}

	var buf bytes.Buffer
	require.NoError(t, DisplayReview(&buf, res, "human"))
	assert.Contains(t, buf.String(), "CREDENTIALS FOUND")
	assert.Contains(t, buf.String(), "AKIAAB***")
}

func TestDisplayJSONAndYAMLFlattenReview(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayReview(&buf, sample("PASS"), "json"))
	var asJSON map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &asJSON))
	assert.Equal(t, "r-1", asJSON["id"])

	buf.Reset()
	require.NoError(t, DisplayReview(&buf, sample("PASS"), "yaml"))
	var asYAML map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &asYAML))
	assert.Equal(t, "r-1", asYAML["id"])
	assert.Equal(t, "pass", asYAML["verdict"].(map[string]any)["decision"])
}

func TestDisplayUnknownFormat(t *testing.T) {
	assert.Error(t, DisplayReview(&bytes.Buffer{}, sample("PASS"), "xml"))
}
