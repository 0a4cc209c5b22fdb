// Package main provides tests for the tidata CLI.
package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/MartinUnity/games-terra-invicta/internal/cli"
	"github.com/MartinUnity/games-terra-invicta/internal/cli/config"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	output, err := runCommand(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "tidata v") {
		t.Errorf("version output should contain 'tidata v', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output, err := runCommand(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"extract", "saves", "history", "version"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	_, err := runCommand(t, "nonsense")
	if err == nil {
		t.Error("unknown command should return an error")
	}
}
