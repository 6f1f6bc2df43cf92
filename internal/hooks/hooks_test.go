package hooks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupInstaller(t *testing.T, strategy Strategy) (*Installer, string, string) {
	t.Helper()
	root := t.TempDir()
	zenithDir := filepath.Join(root, ".zenith", "hooks")
	gitDir := filepath.Join(root, ".git", "hooks")
	require.NoError(t, os.MkdirAll(gitDir, 0o755))
	return New(zenithDir, gitDir, strategy), zenithDir, gitDir
}

func TestInstallFreshHookReportsOK(t *testing.T) {
	inst, _, _ := setupInstaller(t, StrategyChain)
	require.NoError(t, inst.Install(PreCommit, "#!/bin/sh\necho hi\n"))
	require.Equal(t, StatusOK, inst.StatusOf(PreCommit))
}

func TestInstallChainsExistingHook(t *testing.T) {
	inst, _, gitDir := setupInstaller(t, StrategyChain)
	userHook := filepath.Join(gitDir, string(PreCommit))
	require.NoError(t, os.WriteFile(userHook, []byte("#!/bin/sh\necho user-hook\n"), 0o755))

	require.NoError(t, inst.Install(PreCommit, "#!/bin/sh\necho zenith\n"))

	backup, err := os.ReadFile(inst.backupPath(PreCommit))
	require.NoError(t, err)
	require.Contains(t, string(backup), "user-hook")

	installed, err := os.ReadFile(userHook)
	require.NoError(t, err)
	require.Contains(t, string(installed), chainMarker)
	require.Equal(t, StatusOK, inst.StatusOf(PreCommit))
}

func TestInstallRefuseStrategySkipsConflict(t *testing.T) {
	inst, _, gitDir := setupInstaller(t, StrategyRefuse)
	userHook := filepath.Join(gitDir, string(PreCommit))
	require.NoError(t, os.WriteFile(userHook, []byte("#!/bin/sh\necho user-hook\n"), 0o755))

	err := inst.Install(PreCommit, "#!/bin/sh\necho zenith\n")
	require.Error(t, err)

	content, readErr := os.ReadFile(userHook)
	require.NoError(t, readErr)
	require.Equal(t, "#!/bin/sh\necho user-hook\n", string(content))
}

func TestUninstallRestoresBackup(t *testing.T) {
	inst, _, gitDir := setupInstaller(t, StrategyChain)
	userHook := filepath.Join(gitDir, string(PreCommit))
	require.NoError(t, os.WriteFile(userHook, []byte("#!/bin/sh\necho user-hook\n"), 0o755))
	require.NoError(t, inst.Install(PreCommit, "#!/bin/sh\necho zenith\n"))

	require.NoError(t, inst.Uninstall(PreCommit))

	content, err := os.ReadFile(userHook)
	require.NoError(t, err)
	require.Contains(t, string(content), "user-hook")
	_, statErr := os.Stat(inst.backupPath(PreCommit))
	require.True(t, os.IsNotExist(statErr))
}

func TestStatusMissingScript(t *testing.T) {
	inst, _, _ := setupInstaller(t, StrategyChain)
	require.Equal(t, StatusMissingScript, inst.StatusOf(PostMerge))
}

func TestStatusMissingGitHook(t *testing.T) {
	inst, zenithDir, _ := setupInstaller(t, StrategyChain)
	require.NoError(t, os.MkdirAll(zenithDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(zenithDir, string(PostMerge)), []byte("#!/bin/sh\n"), 0o755))
	require.Equal(t, StatusMissingGitHook, inst.StatusOf(PostMerge))
}
