package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"shady/internal/config"
)

const addOne = `%i32 = int(width: 32, signed: true)
%x   = variable(type: %i32, name: "x", id: 1)
%f   = function(name: "add_one", params: [%x], return_types: [%i32])
%sum = prim_op(op: add, operands: [%x, int_literal(width: 32, signed: true, value: 1)])
%r   = variable(type: %i32, name: "r", id: 2)
%ret = return(fn: %f, values: [%r])
%let = let(instruction: %sum, variables: [%r], tail: %ret)
body %f = %let
`

// workspace writes a config and the given IR files into a temp dir.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files[config.FileName] = "[driver]\npasses = [\"verify\"]\n"
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// resetFlags restores every flag of the command tree to its default.
func resetFlags() {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}
	rootCmd.PersistentFlags().VisitAll(reset)
}

// execute runs the root command with args and fresh flag values.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--color=off", "--ui=off"))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestResetFlagsClearsPasses(t *testing.T) {
	dir := workspace(t, map[string]string{"f.shd": addOne})
	cfg := filepath.Join(dir, config.FileName)
	if _, stderr, err := execute(t, "print", "--config", cfg, "--passes", "rewrite", filepath.Join(dir, "f.shd")); err != nil {
		t.Fatalf("print: %v\n%s", err, stderr)
	}
	resetFlags()
	got, err := printCmd.Flags().GetStringSlice("passes")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 || printCmd.Flags().Changed("passes") {
		t.Fatalf("passes after reset = %q, changed=%t", got, printCmd.Flags().Changed("passes"))
	}
	if _, stderr, err := execute(t, "print", "--config", cfg, "--passes", "verify", filepath.Join(dir, "f.shd")); err != nil {
		t.Fatalf("second print: %v\n%s", err, stderr)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("expected an error")
	}
	if shouldUseTUI(uiModeOff, 10) || !shouldUseTUI(uiModeOn, 1) {
		t.Fatal("explicit modes must win")
	}
}

func TestRenderTable(t *testing.T) {
	got := renderTable([]string{"kind", "fields"}, [][]string{{"int", "width, signed"}, {"true_literal", ""}}, false)
	want := "kind          fields\n" +
		"int           width, signed\n" +
		"true_literal\n"
	if got != want {
		t.Fatalf("renderTable:\n%q\nwant\n%q", got, want)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := workspace(t, map[string]string{
		"good.shd": addOne,
		"bad.shd":  "%p = ptr_type(address_space: generic, pointee: %u8)\n",
	})
	cfg := filepath.Join(dir, config.FileName)

	_, stderr, err := execute(t, "check", "--config", cfg, "--format", "short", filepath.Join(dir, "good.shd"))
	if err != nil {
		t.Fatalf("good.shd: %v\n%s", err, stderr)
	}
	if stderr != "" {
		t.Fatalf("unexpected diagnostics:\n%s", stderr)
	}

	_, stderr, err = execute(t, "check", "--config", cfg, "--format", "short", dir)
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v, want errFailed", err)
	}
	if !strings.Contains(stderr, "error IRB3004 bad.shd:1:") {
		t.Fatalf("missing diagnostic:\n%s", stderr)
	}
}

func TestCheckCommandJSON(t *testing.T) {
	dir := workspace(t, map[string]string{"bad.shd": "%x = frob()\n"})
	_, stderr, err := execute(t, "check", "--config", filepath.Join(dir, config.FileName), "--format", "json", dir)
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(stderr), &out); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stderr)
	}
}

func TestPrintCommandRoundTrips(t *testing.T) {
	dir := workspace(t, map[string]string{"f.shd": addOne})
	cfg := filepath.Join(dir, config.FileName)
	first, stderr, err := execute(t, "print", "--config", cfg, "--passes", "rewrite,verify", filepath.Join(dir, "f.shd"))
	if err != nil {
		t.Fatalf("print: %v\n%s", err, stderr)
	}
	if !strings.Contains(first, "function(") || !strings.Contains(first, "body %") {
		t.Fatalf("unexpected dump:\n%s", first)
	}

	again := filepath.Join(dir, "again.shd")
	if err := os.WriteFile(again, []byte(first), 0o600); err != nil {
		t.Fatal(err)
	}
	second, stderr, err := execute(t, "print", "--config", cfg, again)
	if err != nil {
		t.Fatalf("re-print: %v\n%s", err, stderr)
	}
	if second != first {
		t.Fatalf("printed output is not stable:\n%s\n---\n%s", first, second)
	}
}

func TestKindsCommand(t *testing.T) {
	out, _, err := execute(t, "kinds", "type")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "ptr_type") || strings.Contains(out, "int_literal") {
		t.Fatalf("unexpected listing:\n%s", out)
	}
	if _, _, err := execute(t, "kinds", "nonsense"); err == nil {
		t.Fatal("expected an error for an unknown category")
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "shadyc" || payload.Version == "" {
		t.Fatalf("payload = %+v", payload)
	}
}
