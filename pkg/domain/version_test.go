package domain_test

import (
	"testing"

	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.Version
	}{
		{"katana release form", "6.0v2", domain.Version{Major: 6, Minor: 0, Release: 2}},
		{"dotted form", "3.0.0.5", domain.Version{Major: 3, Release: 0, Build: 5}},
		{"major only", "7", domain.Version{Major: 7}},
		{"leading v", "v3.1", domain.Version{Major: 3, Minor: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseVersion(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVersion_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "1.2.3.4.5"} {
		_, err := domain.ParseVersion(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestVersionCompare(t *testing.T) {
	v := func(parts ...int) domain.Version {
		var out domain.Version
		fields := []*int{&out.Major, &out.Minor, &out.Release, &out.Build}
		for i, p := range parts {
			*fields[i] = p
		}
		return out
	}

	assert.Equal(t, 0, v(6, 0, 1).Compare(v(6, 0, 1)))
	assert.Equal(t, -1, v(3, 0, 0, 5).Compare(v(3, 1)))
	assert.Equal(t, 1, v(6, 1).Compare(v(6, 0, 9, 9)))
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "6.0v2", domain.Version{Major: 6, Minor: 0, Release: 2}.String())
}
