package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleConfig = `
# planner configuration
[store]
driver: hashmap
file: /tmp/scswind.json

[logging]
level = debug
max_size: 20
rotate: yes

[planner]
progress: on
`

func TestLoadString(t *testing.T) {
	c, err := LoadString(sampleConfig)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}

	names := c.GetSectionNames()
	if len(names) != 3 {
		t.Fatalf("expected 3 sections, got %d: %v", len(names), names)
	}
	if names[0] != "store" || names[1] != "logging" || names[2] != "planner" {
		t.Errorf("section order not preserved: %v", names)
	}
}

func TestTypedGetters(t *testing.T) {
	c, err := LoadString(sampleConfig)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}

	store, err := c.GetSection("store")
	if err != nil {
		t.Fatalf("GetSection(store) failed: %v", err)
	}
	driver, err := store.Get("driver")
	if err != nil || driver != "hashmap" {
		t.Errorf("expected driver=hashmap, got %q (err: %v)", driver, err)
	}

	logging, err := c.GetSection("logging")
	if err != nil {
		t.Fatalf("GetSection(logging) failed: %v", err)
	}
	size, err := logging.GetInt("max_size")
	if err != nil || size != 20 {
		t.Errorf("expected max_size=20, got %d (err: %v)", size, err)
	}
	rotate, err := logging.GetBool("rotate")
	if err != nil || !rotate {
		t.Errorf("expected rotate=true, got %v (err: %v)", rotate, err)
	}

	planner, err := c.GetSection("planner")
	if err != nil {
		t.Fatalf("GetSection(planner) failed: %v", err)
	}
	progress, err := planner.GetBool("progress")
	if err != nil || !progress {
		t.Errorf("expected progress=true, got %v (err: %v)", progress, err)
	}
}

func TestGetWithFallback(t *testing.T) {
	c, err := LoadString("[store]\ndriver: redis\n")
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	sec, _ := c.GetSection("store")

	server, err := sec.Get("server", "localhost:6379")
	if err != nil || server != "localhost:6379" {
		t.Errorf("expected fallback value, got %q (err: %v)", server, err)
	}

	if _, err := sec.Get("password"); err == nil {
		t.Error("expected error for missing option without fallback")
	}
}

func TestGetChoice(t *testing.T) {
	c, _ := LoadString("[store]\ndriver: Redis\n")
	sec, _ := c.GetSection("store")

	driver, err := sec.GetChoice("driver", []string{"hashmap", "redis"})
	if err != nil || driver != "redis" {
		t.Errorf("expected case-insensitive match 'redis', got %q (err: %v)", driver, err)
	}

	c2, _ := LoadString("[store]\ndriver: sqlite\n")
	sec2, _ := c2.GetSection("store")
	if _, err := sec2.GetChoice("driver", []string{"hashmap", "redis"}); err == nil {
		t.Error("expected error for invalid choice")
	}
}

func TestInvalidTypedValues(t *testing.T) {
	c, _ := LoadString("[logging]\nmax_size: big\nrotate: maybe\n")
	sec, _ := c.GetSection("logging")

	if _, err := sec.GetInt("max_size"); err == nil {
		t.Error("expected error for non-integer value")
	}
	if _, err := sec.GetBool("rotate"); err == nil {
		t.Error("expected error for non-boolean value")
	}
}

func TestAccessTracking(t *testing.T) {
	c, err := LoadString(sampleConfig)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}

	sec, err := c.GetSection("store")
	if err != nil {
		t.Fatalf("GetSection failed: %v", err)
	}

	unused := c.GetUnusedSections()
	if len(unused) != 2 {
		t.Errorf("expected 2 unused sections, got %v", unused)
	}
	if err := c.CheckUnusedSections(); err == nil {
		t.Error("expected unused-section error")
	}

	sec.Get("driver")
	opts := sec.GetUnusedOptions()
	if len(opts) != 1 || opts[0] != "file" {
		t.Errorf("expected only 'file' unused, got %v", opts)
	}
}

func TestDuplicateSectionsMerge(t *testing.T) {
	c, err := LoadString("[store]\ndriver: hashmap\n[store]\nfile: x.json\n")
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	sec, _ := c.GetSection("store")
	if !sec.HasOption("driver") || !sec.HasOption("file") {
		t.Error("expected options from both duplicate sections to merge")
	}
}

func TestLoadWithInclude(t *testing.T) {
	dir := t.TempDir()

	extra := filepath.Join(dir, "extra.cfg")
	if err := os.WriteFile(extra, []byte("[logging]\nlevel: warn\n"), 0644); err != nil {
		t.Fatalf("write extra config: %v", err)
	}

	main := filepath.Join(dir, "main.cfg")
	body := "[store]\ndriver: hashmap\n[include extra.cfg]\n"
	if err := os.WriteFile(main, []byte(body), 0644); err != nil {
		t.Fatalf("write main config: %v", err)
	}

	c, err := Load(main)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !c.HasSection("store") || !c.HasSection("logging") {
		t.Errorf("expected both sections, got %v", c.GetSectionNames())
	}
}

func TestLoadMissingInclude(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.cfg")
	if err := os.WriteFile(main, []byte("[include nothere.cfg]\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(main); err == nil {
		t.Error("expected error for missing include")
	} else if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMerge(t *testing.T) {
	base, _ := LoadString("[store]\ndriver: hashmap\n")
	override, _ := LoadString("[store]\ndriver: redis\n[logging]\nlevel: info\n")

	base.Merge(override)

	sec, _ := base.GetSection("store")
	driver, _ := sec.Get("driver")
	if driver != "redis" {
		t.Errorf("expected override to win, got %q", driver)
	}
	if !base.HasSection("logging") {
		t.Error("expected merged section 'logging'")
	}
}
