package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinesKeepsMostRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "editor.log")
	l, err := New(Options{Path: path, MaxLines: 3})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		l.Log(fmt.Sprintf("line %d", i))
	}
	lines := l.Lines()
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "line 2")
	assert.Contains(t, lines[2], "line 4")
	assert.Contains(t, lines[2], "INFO")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"line 0"`, "the file keeps everything")
}

func TestLinesIsACopy(t *testing.T) {
	l := Nop()
	l.Log("hello")
	lines := l.Lines()
	lines[0] = "changed"
	assert.Contains(t, l.Lines()[0], "hello")

	l.ClearLines()
	assert.Empty(t, l.Lines())
}

func TestDebugToggle(t *testing.T) {
	l := Nop()
	l.Debugw("hidden", "k", 1)
	assert.Empty(t, l.Lines())

	l.SetDebug(true)
	l.Debugw("shown", "k", 1)
	require.Len(t, l.Lines(), 1)
	assert.Contains(t, l.Lines()[0], "shown")
	assert.Contains(t, l.Lines()[0], `"k": 1`)

	l.SetDebug(false)
	l.Debug("hidden again")
	assert.Len(t, l.Lines(), 1)
}

func TestSetMaxLines(t *testing.T) {
	l := Nop()
	for i := 0; i < 10; i++ {
		l.Infof("n=%d", i)
	}
	l.SetMaxLines(4)
	lines := l.Lines()
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "n=6")
}
