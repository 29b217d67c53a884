package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycleEventName(t *testing.T) {
	cases := map[string]string{
		"":                 "load",
		"load":             "load",
		"domcontentloaded": "DOMContentLoaded",
		"networkidle0":     "networkIdle",
		"networkidle2":     "networkAlmostIdle",
	}
	for waitUntil, want := range cases {
		got, err := lifecycleEventName(waitUntil)
		require.NoError(t, err, "waitUntil %q", waitUntil)
		assert.Equal(t, want, got)
	}
}

func TestLifecycleEventNameRejectsUnknown(t *testing.T) {
	_, err := lifecycleEventName("eventually")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, err.Error(), "eventually")
}
