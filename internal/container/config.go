// Package container builds the execution-environment templates stored in
// registered_groups.container_config.
package container

import (
	"path"

	"github.com/linkerlin/nanoclaw-brain/internal/types"
)

// ExtraMountRoot is where the container runtime exposes additional mounts.
const ExtraMountRoot = "/workspace/extra"

// MountSpec describes one additional mount before the base path is known.
type MountSpec struct {
	// HostPath is joined onto the base path when RepoRelative is set and
	// used verbatim otherwise.
	HostPath      string
	RepoRelative  bool
	ContainerPath string
	Readonly      bool
}

// Build resolves specs against basePath, keeping their order. With gitSync
// set the host syncs basePath around each run.
func Build(basePath string, specs []MountSpec, gitSync bool) *types.ContainerConfig {
	mounts := make([]types.AdditionalMount, 0, len(specs))
	for _, s := range specs {
		host := s.HostPath
		if s.RepoRelative {
			host = path.Join(basePath, s.HostPath)
		}
		mounts = append(mounts, types.AdditionalMount{
			HostPath:      host,
			ContainerPath: s.ContainerPath,
			Readonly:      s.Readonly,
		})
	}

	cfg := &types.ContainerConfig{AdditionalMounts: mounts}
	if gitSync {
		cfg.GitSync = &types.GitSync{RepoPath: basePath}
	}
	return cfg
}

// BrainMounts returns the brain repo layout: writable context, read-only
// Claude config and specs, and writable Google Workspace credentials under
// credsDir.
func BrainMounts(credsDir string) []MountSpec {
	return []MountSpec{
		{HostPath: "context", RepoRelative: true, ContainerPath: "context"},
		{HostPath: ".claude/config", RepoRelative: true, ContainerPath: "claude-config/config", Readonly: true},
		{HostPath: ".claude/tools", RepoRelative: true, ContainerPath: "claude-config/tools", Readonly: true},
		{HostPath: ".claude/agents", RepoRelative: true, ContainerPath: "claude-config/agents", Readonly: true},
		{HostPath: "specs", RepoRelative: true, ContainerPath: "specs", Readonly: true},
		{HostPath: path.Join(credsDir, "personal"), ContainerPath: "google-creds/personal"},
		{HostPath: path.Join(credsDir, "imxp"), ContainerPath: "google-creds/imxp"},
	}
}

// ContainerTarget returns the in-container location of a mount.
func ContainerTarget(m types.AdditionalMount) string {
	return path.Join(ExtraMountRoot, m.ContainerPath)
}
