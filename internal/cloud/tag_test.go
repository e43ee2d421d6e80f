package cloud

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTag(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		tag     string
		wantErr string
	}{
		{name: "simple tag", tag: "integration-ci"},
		{name: "digits allowed", tag: "run-42"},
		{name: "single character", tag: "x"},
		{name: "uppercase rejected", tag: "Integration", wantErr: "lowercase"},
		{name: "empty rejected", tag: "", wantErr: "between 1 and 63"},
		{name: "too long rejected", tag: strings.Repeat("a", 64), wantErr: "between 1 and 63"},
		{name: "leading hyphen rejected", tag: "-ci", wantErr: "start or end with a hyphen"},
		{name: "trailing hyphen rejected", tag: "ci-", wantErr: "start or end with a hyphen"},
		{name: "underscore rejected", tag: "ci_run", wantErr: "alphanumeric and hyphens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateTag(tt.tag)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateTagReportsAllRules(t *testing.T) {
	t.Parallel()
	err := ValidateTag("-Bad_Tag-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lowercase")
	assert.Contains(t, err.Error(), "hyphen")
	assert.Contains(t, err.Error(), "alphanumeric")
}

func TestTimestampedTag(t *testing.T) {
	t.Parallel()
	tag := TimestampedTag("ci")
	assert.True(t, strings.HasPrefix(tag, "ci-"))
	assert.NoError(t, ValidateTag(tag))
}
