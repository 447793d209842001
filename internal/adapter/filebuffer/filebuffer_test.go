package filebuffer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyContentsUpdate_ReplacesBuffer(t *testing.T) {
	a := New(t.TempDir(), nil)
	a.ApplyContentsUpdate("hello world")
	assert.Equal(t, "hello world", a.CurrentContents())
	a.ApplyContentsUpdate("replaced")
	assert.Equal(t, "replaced", a.CurrentContents())
}

func TestApplyCursorPosition_UpdatesLineAndColumn(t *testing.T) {
	a := New(t.TempDir(), nil)
	a.ApplyCursorPosition(3, 7)
	line, column := a.CurrentCursorPosition()
	assert.Equal(t, 3, line)
	assert.Equal(t, 7, column)
}

func TestSwitchToBuffer_ChangesFilenameAndLogs(t *testing.T) {
	var logged []string
	a := New(t.TempDir(), func(message string) { logged = append(logged, message) })

	a.SwitchToBuffer("notes.txt")

	filename, _ := a.CurrentFilename()
	assert.Equal(t, "notes.txt", filename)
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], "notes.txt")
}

func TestSaveCurrentFile_WritesContentsToScratchDir(t *testing.T) {
	dir := t.TempDir()
	a := New(dir, nil)
	a.SwitchToBuffer("scratch.go")
	a.ApplyContentsUpdate("package main\n")

	require.NoError(t, a.SaveCurrentFile())

	got, err := os.ReadFile(filepath.Join(dir, "scratch.go"))
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(got))
}

func TestSaveCurrentFile_DefaultsToUntitledWhenNoFilenameSet(t *testing.T) {
	dir := t.TempDir()
	a := New(dir, nil)
	a.ApplyContentsUpdate("x")

	require.NoError(t, a.SaveCurrentFile())

	_, err := os.ReadFile(filepath.Join(dir, "untitled"))
	require.NoError(t, err)
}

func TestSaveCurrentFile_ConfinesPathTraversalToScratchDir(t *testing.T) {
	dir := t.TempDir()
	a := New(dir, nil)
	a.SwitchToBuffer("../../etc/passwd")
	a.ApplyContentsUpdate("pwned")

	require.NoError(t, a.SaveCurrentFile())

	_, err := os.ReadFile(filepath.Join(dir, "passwd"))
	assert.NoError(t, err)
}

func TestNew_EmptyDirFallsBackToTempDir(t *testing.T) {
	a := New("", nil)
	assert.Equal(t, os.TempDir(), a.dir)
}

func TestShowStatusMessage_ForwardsToLog(t *testing.T) {
	var logged []string
	a := New(t.TempDir(), func(message string) { logged = append(logged, message) })
	a.ShowStatusMessage("took control")
	assert.Equal(t, []string{"took control"}, logged)
}

func TestSetCurrentFileAndContents_AreObservedByCurrentAccessors(t *testing.T) {
	a := New(t.TempDir(), nil)
	a.SetCurrentFile("main.go", "/home/dev/project")
	a.SetCurrentContents("package main")

	filename, folder := a.CurrentFilename()
	assert.Equal(t, "main.go", filename)
	assert.Equal(t, "/home/dev/project", folder)
	assert.Equal(t, "package main", a.CurrentContents())
}
