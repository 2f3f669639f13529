package ratelimit

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names accepted in Config.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Algorithm names accepted in Config.Algorithm.
const (
	AlgorithmSlidingWindow = "sliding_window"
	AlgorithmTokenBucket   = "token_bucket"
)

// Config is the assembled rate limiting configuration.
type Config struct {
	Enabled         bool
	Backend         string
	Algorithm       string
	MaxKeys         int
	CleanupInterval time.Duration

	// Default applies to every route without an entry in Routes.
	Default Policy

	// Routes maps a request path to the policy replacing the default for
	// that path. Replacing, not stacking: a route with its own policy is
	// not also subject to the default.
	Routes map[string]Policy
}

// PolicyFor returns the policy governing path.
func (c *Config) PolicyFor(path string) Policy {
	if p, ok := c.Routes[path]; ok {
		return p
	}
	return c.Default
}

// MaxWindow returns the longest window across all policies. Store cleanup
// uses it as the retention horizon.
func (c *Config) MaxWindow() time.Duration {
	max := c.Default.MaxWindow()
	for _, p := range c.Routes {
		if w := p.MaxWindow(); w > max {
			max = w
		}
	}
	return max
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown rate limit backend %q", c.Backend)
	}
	switch c.Algorithm {
	case AlgorithmSlidingWindow, AlgorithmTokenBucket:
	default:
		return fmt.Errorf("unknown rate limit algorithm %q", c.Algorithm)
	}
	if err := c.Default.Validate(); err != nil {
		return err
	}
	for path, p := range c.Routes {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("route %s: %w", path, err)
		}
	}
	return nil
}

// policyFile is the YAML shape of an on-disk policy file:
//
//	default:
//	  - 200 per day
//	  - 50 per hour
//	routes:
//	  /wimbledon:
//	    - 30 per minute
type policyFile struct {
	Default []string            `yaml:"default"`
	Routes  map[string][]string `yaml:"routes"`
}

// LoadPolicyFile parses route policies from a YAML file.
func LoadPolicyFile(path string) (Policy, map[string]Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, nil, fmt.Errorf("read policy file: %w", err)
	}

	var pf policyFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return Policy{}, nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}

	def := Policy{Name: "default"}
	if len(pf.Default) > 0 {
		limits, err := ParseLimits(pf.Default)
		if err != nil {
			return Policy{}, nil, fmt.Errorf("policy file %s: default: %w", path, err)
		}
		def.Limits = limits
	}

	routes := make(map[string]Policy, len(pf.Routes))
	for route, exprs := range pf.Routes {
		limits, err := ParseLimits(exprs)
		if err != nil {
			return Policy{}, nil, fmt.Errorf("policy file %s: route %s: %w", path, route, err)
		}
		routes[route] = Policy{Name: route, Limits: limits}
	}
	return def, routes, nil
}
