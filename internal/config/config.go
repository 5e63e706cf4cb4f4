// Package config loads registry deployment policy from CUE files.
//
// CUE gives the policy file schema validation with defaults: the embedded
// #Policy definition is unified with the user's file, so type errors,
// missing required fields and out-of-range values surface as load errors
// with positions, before a registry ever starts.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/zelrocks/harmony-protocol/internal/escrow"
)

//go:embed schema.cue
var schemaCUE string

// Policy is the decoded deployment policy.
type Policy struct {
	Supervisor   string            `json:"supervisor"`
	Custodian    string            `json:"custodian"`
	AttestWindow uint64            `json:"attest_window"`
	HoldDuration uint64            `json:"hold_duration"`
	MaxPriority  uint64            `json:"max_priority"`
	Balances     map[string]uint64 `json:"balances"`
}

// LoadError is a policy loading failure with a stable code.
type LoadError struct {
	Code    string
	Message string
}

const (
	// ErrCodeNotFound means the policy file does not exist.
	ErrCodeNotFound = "POLICY_NOT_FOUND"
	// ErrCodeInvalid means the file does not satisfy the #Policy schema.
	ErrCodeInvalid = "POLICY_INVALID"
)

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads, validates and decodes a policy file.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("policy file not found: %s", path)}
		}
		return nil, fmt.Errorf("read policy: %w", err)
	}

	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compile policy schema: %w", schema.Err())
	}
	def := schema.LookupPath(cue.ParsePath("#Policy"))
	if def.Err() != nil {
		return nil, fmt.Errorf("lookup #Policy: %w", def.Err())
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if value.Err() != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: value.Err().Error()}
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: err.Error()}
	}

	var p Policy
	if err := unified.Decode(&p); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: err.Error()}
	}

	// Cross-field checks CUE cannot express against two open strings.
	if p.Supervisor == p.Custodian {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: "supervisor and custodian must be distinct accounts"}
	}

	return &p, nil
}

// RegistryPolicy converts the decoded policy to the engine's policy type.
func (p *Policy) RegistryPolicy() escrow.Policy {
	return escrow.Policy{
		Supervisor:   escrow.Account(p.Supervisor),
		AttestWindow: p.AttestWindow,
		HoldDuration: p.HoldDuration,
		MaxPriority:  p.MaxPriority,
	}
}

// LedgerBalances converts initial balances to ledger account keys.
func (p *Policy) LedgerBalances() map[escrow.Account]uint64 {
	balances := make(map[escrow.Account]uint64, len(p.Balances))
	for acct, bal := range p.Balances {
		balances[escrow.Account(acct)] = bal
	}
	return balances
}
