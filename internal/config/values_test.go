package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuesGet(t *testing.T) {
	t.Parallel()
	v := Values{"region": "us-west-2", "count": int64(3), "nil_key": nil}

	got, err := v.Get("region")
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", got)

	_, err = v.Get("absent")
	var missing *MissingKeyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "absent", missing.Key)
	// The message must name the key and say how to supply it.
	assert.Contains(t, err.Error(), "absent")
	assert.Contains(t, err.Error(), "override")

	_, err = v.Get("nil_key")
	require.ErrorAs(t, err, &missing)
}

func TestValuesGetString(t *testing.T) {
	t.Parallel()
	v := Values{"name": "ci", "count": int64(3), "ratio": 1.5, "flag": true}

	s, err := v.GetString("name")
	require.NoError(t, err)
	assert.Equal(t, "ci", s)

	// Non-string scalars pass through as their natural rendering.
	s, err = v.GetString("count")
	require.NoError(t, err)
	assert.Equal(t, "3", s)

	s, err = v.GetString("flag")
	require.NoError(t, err)
	assert.Equal(t, "true", s)

	_, err = v.GetString("absent")
	var missing *MissingKeyError
	require.ErrorAs(t, err, &missing)
}

func TestValuesGetStringDefault(t *testing.T) {
	t.Parallel()
	v := Values{"key_name": "integration"}

	assert.Equal(t, "integration", v.GetStringDefault("key_name", "fallback"))
	assert.Equal(t, "fallback", v.GetStringDefault("absent", "fallback"))
}

func TestValuesGetBool(t *testing.T) {
	t.Parallel()
	v := Values{"insecure_transport": true, "name": "x"}

	b, err := v.GetBool("insecure_transport")
	require.NoError(t, err)
	assert.True(t, b)

	_, err = v.GetBool("name")
	assert.Error(t, err)
}

func TestValuesHas(t *testing.T) {
	t.Parallel()
	v := Values{"a": "x", "b": nil}

	assert.True(t, v.Has("a"))
	assert.False(t, v.Has("b"))
	assert.False(t, v.Has("c"))
}
