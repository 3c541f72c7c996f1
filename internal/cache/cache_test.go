package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lexalign/lexalign/internal/model"
)

func TestResultKey_ChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	gt := filepath.Join(dir, "a.gt.jsonl")
	ex := filepath.Join(dir, "a.ex.jsonl")

	write := func(path, content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	alignCfg := model.DefaultConfig().Align

	write(gt, "ground truth v1")
	write(ex, "extraction v1")
	k1, err := ResultKey(gt, ex, alignCfg)
	if err != nil {
		t.Fatalf("ResultKey: %v", err)
	}

	k2, _ := ResultKey(gt, ex, alignCfg)
	if k1 != k2 {
		t.Error("key not stable for unchanged inputs")
	}

	write(ex, "extraction v2")
	k3, _ := ResultKey(gt, ex, alignCfg)
	if k1 == k3 {
		t.Error("key did not change after input edit")
	}
}

func TestResultKey_ChangesWithConfig(t *testing.T) {
	dir := t.TempDir()
	gt := filepath.Join(dir, "a.gt.jsonl")
	ex := filepath.Join(dir, "a.ex.jsonl")
	for _, path := range []string{gt, ex} {
		if err := os.WriteFile(path, []byte("stable content"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	base := model.DefaultConfig().Align
	baseKey, err := ResultKey(gt, ex, base)
	if err != nil {
		t.Fatalf("ResultKey: %v", err)
	}

	variants := map[string]func(c *model.AlignConfig){
		"mode":       func(c *model.AlignConfig) { c.Mode = model.ModeGlobal },
		"threshold":  func(c *model.AlignConfig) { c.Threshold = 0.999 },
		"radius":     func(c *model.AlignConfig) { c.WindowRadius = 3 },
		"one-to-one": func(c *model.AlignConfig) { c.EnforceOneToOne = false },
		"fallback":   func(c *model.AlignConfig) { c.FallbackToOriginalLabel = true },
		"backend":    func(c *model.AlignConfig) { c.Backend = "trigram" },
	}
	for name, mutate := range variants {
		cfg := base
		mutate(&cfg)
		key, err := ResultKey(gt, ex, cfg)
		if err != nil {
			t.Fatalf("ResultKey(%s): %v", name, err)
		}
		if key == baseKey {
			t.Errorf("key unchanged after %s change", name)
		}
	}
}

func TestResultKey_MissingFile(t *testing.T) {
	if _, err := ResultKey("/nonexistent/gt", "/nonexistent/ex", model.DefaultConfig().Align); err == nil {
		t.Error("expected error for missing input file")
	}
}

func TestLayeredCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	if _, found := c.Get("k"); found {
		t.Error("unexpected hit on empty cache")
	}

	if err := c.Set("k", []byte("result"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if val, found := c.Get("k"); !found || string(val) != "result" {
		t.Errorf("Get = %q, %v", val, found)
	}

	// Disk layer alone must serve after the memory layer is gone.
	fresh := NewLayeredCache(time.Minute, dir, time.Hour)
	if val, found := fresh.Get("k"); !found || string(val) != "result" {
		t.Errorf("disk layer Get = %q, %v", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("hit after delete")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	if err := c.Set("k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expired entry served")
	}
}
