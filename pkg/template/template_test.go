package template_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardenfx/stagehand/pkg/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_NoFields(t *testing.T) {
	_, err := template.Parse("work/static.katana")
	assert.Error(t, err)
}

func TestGetFieldsAndApplyFields(t *testing.T) {
	tmpl, err := template.Parse("shots/{shot}/work/{shot}_{task}_v{version:03}.katana")
	require.NoError(t, err)

	fields, err := tmpl.GetFields("shots/sh010/work/sh010_comp_v004.katana")
	require.NoError(t, err)
	assert.Equal(t, "sh010", fields["shot"])
	assert.Equal(t, "comp", fields["task"])
	assert.Equal(t, 4, fields.Version())

	fields[template.VersionField] = 5
	path, err := tmpl.ApplyFields(fields)
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("shots/sh010/work/sh010_comp_v005.katana"), path)
}

func TestGetFields_InconsistentRepeat(t *testing.T) {
	tmpl, err := template.Parse("shots/{shot}/work/{shot}_v{version:03}.katana")
	require.NoError(t, err)

	_, err = tmpl.GetFields("shots/sh010/work/sh020_v001.katana")
	assert.ErrorContains(t, err, "inconsistent")
}

func TestGetFields_NoMatch(t *testing.T) {
	tmpl, err := template.Parse("work/{name}_v{version:03}.katana")
	require.NoError(t, err)

	_, err = tmpl.GetFields("elsewhere/foo.katana")
	assert.Error(t, err)
}

func TestApplyFields_MissingField(t *testing.T) {
	tmpl, err := template.Parse("work/{name}_v{version:03}.katana")
	require.NoError(t, err)

	_, err = tmpl.ApplyFields(template.Fields{"name": "foo"})
	assert.ErrorContains(t, err, "missing field")
}

func TestPathsAndVersions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"scene_v001.katana",
		"scene_v002.katana",
		"scene_v005.katana",
		"other_v003.katana",
		"scene_v00x.katana", // glob-visible, template-invalid
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	tmpl, err := template.Parse(filepath.ToSlash(filepath.Join(dir, "{name}_v{version:03}.katana")))
	require.NoError(t, err)

	paths, err := tmpl.Paths(template.Fields{"name": "scene"}, template.VersionField)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	assert.ElementsMatch(t, []int{1, 2, 5}, tmpl.Versions(paths))
}

func TestFieldsClone(t *testing.T) {
	orig := template.Fields{"name": "scene", template.VersionField: 3}
	clone := orig.Clone()
	clone[template.VersionField] = 9

	assert.Equal(t, 3, orig.Version())
	assert.Equal(t, 9, clone.Version())
}
