package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ardenfx/stagehand/pkg/domain"
)

// Environment variables forming the launch contract with the bootstrap.
const (
	EnvEngine     = "SGTK_ENGINE"
	EnvContext    = "SGTK_CONTEXT"
	EnvFileToOpen = "SGTK_FILE_TO_OPEN"
	EnvResources  = "KATANA_RESOURCES"
	EnvRelease    = "KATANA_RELEASE"
)

// LaunchInfo is a fully prepared host launch: the executable, its
// arguments and the environment entries to add on top of the parent
// process environment.
type LaunchInfo struct {
	Path string
	Args []string
	Env  []string
}

// PrepareLaunch builds the launch spec for a discovered installation.
// The pipeline context and engine name travel to the child process
// through the environment; fileToOpen may be empty.
func PrepareLaunch(sw SoftwareVersion, engineName string, pipelineCtx *domain.Context, fileToOpen string) (LaunchInfo, error) {
	serialized, err := pipelineCtx.Serialize()
	if err != nil {
		return LaunchInfo{}, fmt.Errorf("failed to serialize launch context: %w", err)
	}

	info := LaunchInfo{
		Path: sw.Path,
		Env: []string{
			EnvEngine + "=" + engineName,
			EnvContext + "=" + serialized,
		},
	}
	if fileToOpen != "" {
		info.Env = append(info.Env, EnvFileToOpen+"="+fileToOpen)
	}
	return info, nil
}

// Launch starts the host process detached from the caller. The child
// inherits the parent environment plus the prepared entries.
func Launch(ctx context.Context, info LaunchInfo) error {
	cmd := exec.CommandContext(ctx, info.Path, info.Args...)
	cmd.Env = append(cmd.Environ(), info.Env...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %q: %w", info.Path, err)
	}
	return nil
}

// ResourcePaths collects the host resource directories contributed by
// installed sub-applications: every appRoot with a resources/Katana
// directory adds it. The result appends to existing (the current
// KATANA_RESOURCES value) with the platform path list separator.
func ResourcePaths(existing string, appRoots []string) string {
	paths := make([]string, 0, len(appRoots)+1)
	if existing != "" {
		paths = append(paths, existing)
	}
	for _, root := range appRoots {
		dir := filepath.Join(root, "resources", "Katana")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			paths = append(paths, dir)
		}
	}
	return strings.Join(paths, string(os.PathListSeparator))
}
