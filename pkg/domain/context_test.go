package domain_test

import (
	"testing"

	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextSerializeRoundTrip(t *testing.T) {
	orig := &domain.Context{
		Project:             "alpha",
		Entity:              "sh010",
		Task:                "comp",
		FilesystemLocations: []string{"/proj/alpha/sh010"},
		WebURL:              "https://tracker.example.com/sh010",
	}

	payload, err := orig.Serialize()
	require.NoError(t, err)

	got, err := domain.DeserializeContext(payload)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
}

func TestDeserializeContext_Invalid(t *testing.T) {
	_, err := domain.DeserializeContext("not base64 !!!")
	assert.Error(t, err)
}

func TestContextEqual(t *testing.T) {
	a := &domain.Context{Project: "alpha", Entity: "sh010", Task: "comp"}
	b := &domain.Context{Project: "alpha", Entity: "sh010", Task: "comp", WebURL: "https://x"}
	c := &domain.Context{Project: "alpha", Entity: "sh020", Task: "comp"}

	// Derived fields do not participate in identity.
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))

	var nilCtx *domain.Context
	assert.True(t, nilCtx.Equal(nil))
}

func TestContextSufficient(t *testing.T) {
	assert.False(t, (&domain.Context{}).Sufficient())
	assert.False(t, (*domain.Context)(nil).Sufficient())
	assert.True(t, (&domain.Context{Project: "alpha"}).Sufficient())
}

func TestDecodeCommandProperties(t *testing.T) {
	props, err := domain.DecodeCommandProperties(map[string]any{
		"app":  "Work Files",
		"type": "context_menu",
	})
	require.NoError(t, err)
	assert.Equal(t, "Work Files", props.App)
	assert.True(t, domain.Command{Properties: props}.IsContextMenu())

	props, err = domain.DecodeCommandProperties(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.CommandTypeDefault, props.Type)
}
