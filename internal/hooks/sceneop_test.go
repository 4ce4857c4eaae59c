package hooks_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardenfx/stagehand/internal/hooks"
	"github.com/ardenfx/stagehand/internal/hostmock"
	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/ardenfx/stagehand/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_CurrentPath(t *testing.T) {
	host := hostmock.New()
	host.File = "/proj/alpha/sh010/comp/v003.katana"
	hook := hooks.NewSceneOperation(host)

	result, err := hook.Execute(context.Background(), hooks.OpCurrentPath, "")
	require.NoError(t, err)
	assert.Equal(t, host.File, result)
}

func TestExecute_Open(t *testing.T) {
	host := hostmock.New()
	hook := hooks.NewSceneOperation(host)

	_, err := hook.Execute(context.Background(), hooks.OpOpen, "/proj/alpha/./shot.katana")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Clean("/proj/alpha/shot.katana")}, host.LoadCalls)
}

func TestExecute_OpenFailureWrapped(t *testing.T) {
	host := hostmock.New()
	host.LoadErr = errors.New("file is corrupt")
	hook := hooks.NewSceneOperation(host)

	_, err := hook.Execute(context.Background(), hooks.OpOpen, "/proj/alpha/shot.katana")
	require.Error(t, err)

	var opErr *domain.OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, hooks.OpOpen, opErr.Op)
	assert.ErrorIs(t, err, host.LoadErr)
}

func TestExecute_SaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "work", "comp", "v001.katana")

	host := hostmock.New()
	hook := hooks.NewSceneOperation(host)

	_, err := hook.Execute(context.Background(), hooks.OpSaveAs, target)
	require.NoError(t, err)
	assert.Equal(t, []string{target}, host.SaveCalls)

	info, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExecute_SaveDefaultsToCurrentFile(t *testing.T) {
	dir := t.TempDir()
	current := filepath.Join(dir, "v002.katana")

	host := hostmock.New()
	host.File = current
	hook := hooks.NewSceneOperation(host)

	_, err := hook.Execute(context.Background(), hooks.OpSave, "")
	require.NoError(t, err)
	assert.Equal(t, []string{current}, host.SaveCalls)
}

func TestExecute_UnknownOperation(t *testing.T) {
	hook := hooks.NewSceneOperation(hostmock.New())

	_, err := hook.Execute(context.Background(), "defragment", "")
	assert.ErrorIs(t, err, domain.ErrUnknownOperation)
}

func TestReset_CleanSceneProceeds(t *testing.T) {
	host := hostmock.New()
	dialogs := &hostmock.Dialogs{}
	hook := hooks.NewSceneOperation(host, hooks.WithSceneDialogs(dialogs))

	result, err := hook.Execute(context.Background(), hooks.OpReset, "")
	require.NoError(t, err)
	assert.Equal(t, true, result)
	assert.Empty(t, host.SaveCalls)
}

func TestReset_CancelAbortsWithoutSaving(t *testing.T) {
	host := hostmock.New()
	host.Dirty = true
	dialogs := &hostmock.Dialogs{Answers: []ports.Answer{ports.AnswerCancel}}
	hook := hooks.NewSceneOperation(host, hooks.WithSceneDialogs(dialogs))

	result, err := hook.Execute(context.Background(), hooks.OpReset, "")
	require.NoError(t, err)
	assert.Equal(t, false, result)
	assert.Empty(t, host.SaveCalls)
	assert.True(t, host.Dirty)
}

func TestReset_NoDiscardsChanges(t *testing.T) {
	host := hostmock.New()
	host.Dirty = true
	dialogs := &hostmock.Dialogs{Answers: []ports.Answer{ports.AnswerNo}}
	hook := hooks.NewSceneOperation(host, hooks.WithSceneDialogs(dialogs))

	result, err := hook.Execute(context.Background(), hooks.OpReset, "")
	require.NoError(t, err)
	assert.Equal(t, true, result)
	assert.Empty(t, host.SaveCalls)
}

func TestReset_YesSavesCurrentFile(t *testing.T) {
	dir := t.TempDir()
	current := filepath.Join(dir, "v005.katana")

	host := hostmock.New()
	host.File = current
	host.Dirty = true
	dialogs := &hostmock.Dialogs{Answers: []ports.Answer{ports.AnswerYes}}
	hook := hooks.NewSceneOperation(host, hooks.WithSceneDialogs(dialogs))

	result, err := hook.Execute(context.Background(), hooks.OpReset, "")
	require.NoError(t, err)
	assert.Equal(t, true, result)
	assert.Equal(t, []string{current}, host.SaveCalls)
	assert.False(t, host.Dirty)
}

func TestReset_BatchModeSkipsPrompt(t *testing.T) {
	host := hostmock.New()
	host.UIMode = false
	host.Dirty = true
	hook := hooks.NewSceneOperation(host)

	result, err := hook.Execute(context.Background(), hooks.OpReset, "")
	require.NoError(t, err)
	assert.Equal(t, true, result)
	assert.Empty(t, host.SaveCalls)
}
