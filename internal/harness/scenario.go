// Package harness runs declarative registry scenarios for conformance
// testing. A scenario is a yaml file: a deployment policy, initial ledger
// balances and a sequence of operations with expected outcomes. Scenario
// execution is fully deterministic (manual clock, fixed origin token), so
// traces can be compared against golden files.
package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one conformance test: a registry deployment plus a scripted
// sequence of operations with expected outcomes.
type Scenario struct {
	// Name uniquely identifies the scenario; golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Policy configures the registry under test.
	Policy PolicySpec `yaml:"policy"`

	// Balances seeds the in-memory ledger.
	Balances map[string]uint64 `yaml:"balances,omitempty"`

	// Origin is the fixed origin token stamped on events.
	// Defaults to "scenario-origin" for deterministic golden comparison.
	Origin string `yaml:"origin,omitempty"`

	// Signer is the account the scripted signature verifier recovers for
	// every envelope. Multisig-approve steps succeed when the acting
	// account equals this value.
	Signer string `yaml:"signer,omitempty"`

	// Height is the clock's starting block height.
	Height uint64 `yaml:"height,omitempty"`

	// Steps is the operation sequence.
	Steps []Step `yaml:"steps"`
}

// PolicySpec mirrors the deployment policy for inline scenario use.
type PolicySpec struct {
	Supervisor   string `yaml:"supervisor"`
	Custodian    string `yaml:"custodian"`
	AttestWindow uint64 `yaml:"attest_window,omitempty"`
	HoldDuration uint64 `yaml:"hold_duration,omitempty"`
	MaxPriority  uint64 `yaml:"max_priority,omitempty"`
}

// Step executes one operation against the registry.
type Step struct {
	// Op is the operation name (matches the audit record op).
	Op string `yaml:"op"`

	// Actor is the calling account.
	Actor string `yaml:"actor"`

	// ID is the target allocation. Zero targets the most recently created
	// allocation, which keeps scenarios readable.
	ID uint64 `yaml:"id,omitempty"`

	// Height, when set, jumps the clock before executing the step.
	Height *uint64 `yaml:"height,omitempty"`

	// Params holds operation-specific parameters.
	Params map[string]any `yaml:"params,omitempty"`

	// Expect validates the step outcome. Nil means the step must succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies an expected step outcome.
type Expect struct {
	// Error is the expected error code; empty means success is expected.
	Error string `yaml:"error,omitempty"`

	// Status is the allocation's expected status after the step.
	Status string `yaml:"status,omitempty"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scenario from yaml.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario has no name")
	}
	if s.Policy.Supervisor == "" || s.Policy.Custodian == "" {
		return nil, fmt.Errorf("scenario %s: policy requires supervisor and custodian", s.Name)
	}
	if s.Origin == "" {
		s.Origin = "scenario-origin"
	}
	if s.Policy.AttestWindow == 0 {
		s.Policy.AttestWindow = 120
	}
	if s.Policy.HoldDuration == 0 {
		s.Policy.HoldDuration = 600
	}
	if s.Policy.MaxPriority == 0 {
		s.Policy.MaxPriority = 10
	}
	return &s, nil
}
