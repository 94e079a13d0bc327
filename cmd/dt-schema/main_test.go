package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/devicetree-org/dtschema/pkg/cli"
)

func TestRootCommand(t *testing.T) {
	if rootCmd.Use == "" || rootCmd.Short == "" || rootCmd.Long == "" {
		t.Error("rootCmd should have Use, Short and Long set")
	}

	expectedCommands := []string{"doc-validate", "validate", "fixup", "locate", "version"}

	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}
	for _, expected := range expectedCommands {
		if !cmdMap[expected] {
			t.Errorf("missing expected command %q", expected)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	if flag == nil {
		t.Fatal("verbose flag should be configured")
	}
	if flag.DefValue != "false" {
		t.Error("verbose flag should default to false")
	}

	tests := []struct {
		command string
		flag    string
	}{
		{command: "doc-validate", flag: "watch"},
		{command: "doc-validate", flag: "summary"},
		{command: "validate", flag: "schema"},
		{command: "fixup", flag: "write"},
	}
	for _, tt := range tests {
		cmd, _, err := rootCmd.Find([]string{tt.command})
		if err != nil {
			t.Fatalf("Find(%s) error = %v", tt.command, err)
		}
		if cmd.Flags().Lookup(tt.flag) == nil {
			t.Errorf("%s should have a --%s flag", tt.command, tt.flag)
		}
	}
}

func TestRootCommandHelp(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--help"})
	defer func() {
		rootCmd.SetOut(os.Stdout)
		rootCmd.SetArgs([]string{})
	}()

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("root command help failed: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("doc-validate")) {
		t.Errorf("help output should list doc-validate:\n%s", buf.String())
	}
}

func TestInvalidCommand(t *testing.T) {
	rootCmd.SetArgs([]string{"invalid-command"})
	defer rootCmd.SetArgs([]string{})

	if err := rootCmd.Execute(); err == nil {
		t.Error("invalid command should produce an error")
	}
}

func TestVersionInfo(t *testing.T) {
	original := cli.GetVersion()
	defer cli.SetVersionInfo(original)

	cli.SetVersionInfo("test-version")
	if cli.GetVersion() != "test-version" {
		t.Error("SetVersionInfo should update the version in CLI package")
	}
	if version == "" {
		t.Error("version should default to a non-empty value")
	}
}
