package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vertere-lang/vertere/compiler/codegen"
)

func TestValidateAcceptsKnownTargets(t *testing.T) {
	for _, target := range []string{"fidelis", "simplex", "firmus"} {
		cfg := &Config{Target: TargetConfig{Default: target}}
		if err := validate(cfg); err != nil {
			t.Errorf("validate(%q) returned error: %v", target, err)
		}
	}
}

func TestValidateRejectsUnknownTarget(t *testing.T) {
	cfg := &Config{Target: TargetConfig{Default: "cobol"}}
	if err := validate(cfg); err == nil {
		t.Error("expected an error for an unrecognized target")
	}
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Target.Default != string(codegen.Fidelis) {
		t.Errorf("default target = %q, want %q", cfg.Target.Default, codegen.Fidelis)
	}
	if cfg.Build.OutDir != "build" {
		t.Errorf("default out_dir = %q, want %q", cfg.Build.OutDir, "build")
	}
}

func TestLoadReadsProjectFile(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	yaml := "target:\n  default: simplex\nbuild:\n  out_dir: dist\n"
	if err := os.WriteFile(filepath.Join(dir, "vertere.yml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Target.Default != "simplex" {
		t.Errorf("target.default = %q, want simplex", cfg.Target.Default)
	}
	if cfg.Build.OutDir != "dist" {
		t.Errorf("build.out_dir = %q, want dist", cfg.Build.OutDir)
	}
}

func TestInProject(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	if InProject() {
		t.Error("InProject() should be false in an empty directory")
	}
	if err := os.WriteFile(filepath.Join(dir, "vertere.yml"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !InProject() {
		t.Error("InProject() should be true once vertere.yml exists")
	}
}

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	return func() { os.Chdir(prev) }
}
