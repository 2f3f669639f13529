package ratelimit

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigPolicyFor(t *testing.T) {
	cfg := &Config{
		Default: Policy{Name: "default", Limits: []Limit{{Count: 50, Window: time.Hour}}},
		Routes: map[string]Policy{
			"/wimbledon": {Name: "/wimbledon", Limits: []Limit{{Count: 30, Window: time.Minute}}},
		},
	}

	if p := cfg.PolicyFor("/wimbledon"); p.Name != "/wimbledon" {
		t.Errorf("PolicyFor(/wimbledon) = %q, want route policy", p.Name)
	}
	if p := cfg.PolicyFor("/health"); p.Name != "default" {
		t.Errorf("PolicyFor(/health) = %q, want default policy", p.Name)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := &Config{
		Enabled:   true,
		Backend:   BackendMemory,
		Algorithm: AlgorithmSlidingWindow,
		Default:   Policy{Name: "default", Limits: []Limit{{Count: 50, Window: time.Hour}}},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	disabled := &Config{Enabled: false}
	if err := disabled.Validate(); err != nil {
		t.Errorf("Validate() on disabled config = %v, want nil", err)
	}

	badBackend := *valid
	badBackend.Backend = "etcd"
	if err := badBackend.Validate(); err == nil {
		t.Error("Validate() with unknown backend succeeded, want error")
	}

	badAlgo := *valid
	badAlgo.Algorithm = "leaky_bucket"
	if err := badAlgo.Validate(); err == nil {
		t.Error("Validate() with unknown algorithm succeeded, want error")
	}
}

func TestLoadPolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.yaml")
	content := `default:
  - 200 per day
  - 50 per hour
routes:
  /wimbledon:
    - 30 per minute
  /api/cache/clear:
    - 5/1m
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write policy file: %v", err)
	}

	def, routes, err := LoadPolicyFile(path)
	if err != nil {
		t.Fatalf("LoadPolicyFile() error = %v", err)
	}
	if len(def.Limits) != 2 {
		t.Errorf("default limits = %d, want 2", len(def.Limits))
	}
	if len(routes) != 2 {
		t.Fatalf("routes = %d, want 2", len(routes))
	}
	wimb := routes["/wimbledon"]
	if len(wimb.Limits) != 1 || wimb.Limits[0] != (Limit{Count: 30, Window: time.Minute}) {
		t.Errorf("wimbledon policy = %+v", wimb.Limits)
	}
	clear := routes["/api/cache/clear"]
	if len(clear.Limits) != 1 || clear.Limits[0].Count != 5 {
		t.Errorf("cache clear policy = %+v", clear.Limits)
	}
}

func TestLoadPolicyFileErrors(t *testing.T) {
	if _, _, err := LoadPolicyFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadPolicyFile() on missing file succeeded, want error")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("routes:\n  /x:\n    - not a limit\n"), 0o600); err != nil {
		t.Fatalf("write policy file: %v", err)
	}
	if _, _, err := LoadPolicyFile(path); err == nil {
		t.Error("LoadPolicyFile() with bad limit succeeded, want error")
	}
}
