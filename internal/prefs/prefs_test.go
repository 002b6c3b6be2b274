package prefs

import (
	"os/exec"
	"testing"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cmd := exec.Command("git", "init", "-q")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git init failed: %v\n%s", err, out)
	}
	return dir
}

func TestLoadEmpty(t *testing.T) {
	dir := initRepo(t)
	p := Load(dir)
	if p.ToolSet || p.LeftSet {
		t.Fatalf("fresh repo should have no prefs, got %+v", p)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := initRepo(t)

	if err := SaveTool(dir, "delta"); err != nil {
		t.Fatalf("SaveTool error: %v", err)
	}
	if err := SaveLeftWidth(dir, 42); err != nil {
		t.Fatalf("SaveLeftWidth error: %v", err)
	}

	p := Load(dir)
	if !p.ToolSet || p.Tool != "delta" {
		t.Fatalf("tool pref: %+v", p)
	}
	if !p.LeftSet || p.LeftWidth != 42 {
		t.Fatalf("left width pref: %+v", p)
	}
}

func TestLoadIgnoresBadWidth(t *testing.T) {
	dir := initRepo(t)
	cmd := exec.Command("git", "-C", dir, "config", "--local", keyLeftWidth, "wide")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git config failed: %v\n%s", err, out)
	}
	if p := Load(dir); p.LeftSet {
		t.Fatalf("bad width should stay unset, got %+v", p)
	}
}
