package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand is a helper for testing Cobra commands
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	output, err := executeCommand(rootCmd, "--help")
	require.NoError(t, err)
	assert.Contains(t, output, "publish")
}

func TestRootUnknownCommand(t *testing.T) {
	_, err := executeCommand(rootCmd, "frobnicate")
	assert.Error(t, err)
}
