package boot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRearmCommand(t *testing.T) {
	assert.Equal(t, []string{"/usr/bin/moodtrack", "rearm"}, RearmCommand("/usr/bin/moodtrack", ""))
	assert.Equal(t, []string{"/usr/bin/moodtrack", "rearm", "--config", "/etc/moodtrack.yaml"},
		RearmCommand("/usr/bin/moodtrack", "/etc/moodtrack.yaml"))
}

func TestNewHookAbsolutizesConfig(t *testing.T) {
	h, err := NewHook("moodtrack.yaml", nil)
	require.NoError(t, err)

	exec := h.Exec()
	require.Len(t, exec, 4)
	assert.Equal(t, "rearm", exec[1])
	assert.True(t, filepath.IsAbs(exec[0]))
	assert.True(t, filepath.IsAbs(exec[3]))
	assert.Equal(t, "moodtrack.yaml", filepath.Base(exec[3]))
}
