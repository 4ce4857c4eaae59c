package hooks_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ardenfx/stagehand/internal/hooks"
	"github.com/ardenfx/stagehand/internal/hostmock"
	"github.com/ardenfx/stagehand/pkg/ports"
	"github.com/ardenfx/stagehand/pkg/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextVersion(t *testing.T) {
	cases := []struct {
		name     string
		current  int
		existing []int
		want     int
	}{
		{"current ahead of disk", 3, []int{1, 2}, 4},
		{"disk ahead of current", 3, []int{1, 2, 5}, 6},
		{"no existing versions", 7, nil, 8},
		{"gaps are not reused", 2, []int{1, 9}, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, hooks.NextVersion(tc.current, tc.existing))
		})
	}
}

func workArea(t *testing.T, versions ...string) (string, *template.Template) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range versions {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	tmpl, err := template.Parse(filepath.ToSlash(dir) + "/{shot}_comp_v{version:03}.katana")
	require.NoError(t, err)
	return dir, tmpl
}

func TestVersionUp(t *testing.T) {
	dir, tmpl := workArea(t,
		"sh010_comp_v001.katana",
		"sh010_comp_v002.katana",
		"sh010_comp_v005.katana",
	)

	host := hostmock.New()
	var milestones []int
	pub := hooks.NewPublisher(host, tmpl,
		hooks.WithProgress(func(pct int, msg string) { milestones = append(milestones, pct) }))

	newPath, err := pub.VersionUp(context.Background(), filepath.Join(dir, "sh010_comp_v003.katana"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "sh010_comp_v006.katana"), newPath)
	assert.Equal(t, []string{newPath}, host.SaveCalls)
	assert.Equal(t, []int{0, 25, 50, 100}, milestones)
}

func TestVersionUp_OtherShotsIgnored(t *testing.T) {
	dir, tmpl := workArea(t,
		"sh010_comp_v001.katana",
		"sh020_comp_v009.katana", // different shot, same template
	)

	host := hostmock.New()
	pub := hooks.NewPublisher(host, tmpl)

	newPath, err := pub.VersionUp(context.Background(), filepath.Join(dir, "sh010_comp_v001.katana"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sh010_comp_v002.katana"), newPath)
}

func TestVersionUp_PathOutsideTemplate(t *testing.T) {
	_, tmpl := workArea(t)

	pub := hooks.NewPublisher(hostmock.New(), tmpl)
	_, err := pub.VersionUp(context.Background(), "/scratch/unmanaged.katana")
	assert.Error(t, err)
}

// recordingLocker verifies that the scan and save happen under the lock.
type recordingLocker struct {
	keys     []string
	unlocked int
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.keys = append(l.keys, key)
	return func(ctx context.Context) error {
		l.unlocked++
		return nil
	}, nil
}

func TestVersionUp_UsesLocker(t *testing.T) {
	dir, tmpl := workArea(t, "sh010_comp_v001.katana")

	locker := &recordingLocker{}
	pub := hooks.NewPublisher(hostmock.New(), tmpl,
		hooks.WithLocker(locker, time.Minute))

	_, err := pub.VersionUp(context.Background(), filepath.Join(dir, "sh010_comp_v001.katana"))
	require.NoError(t, err)

	require.Len(t, locker.keys, 1)
	assert.Contains(t, locker.keys[0], "versionup:")
	assert.Equal(t, 1, locker.unlocked)
}
