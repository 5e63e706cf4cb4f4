package cli

import (
	"fmt"

	"github.com/zelrocks/harmony-protocol/internal/escrow"
)

// allocationView is the CLI rendering of an allocation record.
type allocationView struct {
	ID           uint64 `json:"id"`
	Originator   string `json:"originator"`
	Beneficiary  string `json:"beneficiary"`
	Resource     uint64 `json:"resource"`
	Quantity     uint64 `json:"quantity"`
	Status       string `json:"status"`
	Genesis      uint64 `json:"genesis"`
	Termination  uint64 `json:"termination"`
	UnlockHeight uint64 `json:"unlock_height,omitempty"`
}

func viewOf(a escrow.Allocation) allocationView {
	return allocationView{
		ID:           a.ID,
		Originator:   string(a.Originator),
		Beneficiary:  string(a.Beneficiary),
		Resource:     a.ResourceID,
		Quantity:     a.Quantity,
		Status:       string(a.Status),
		Genesis:      a.GenesisBlock,
		Termination:  a.TerminationBlock,
		UnlockHeight: a.UnlockHeight,
	}
}

func (v allocationView) String() string {
	s := fmt.Sprintf("allocation %d [%s]\n  originator:  %s\n  beneficiary: %s\n  resource:    %d\n  quantity:    %d\n  window:      %d..%d",
		v.ID, v.Status, v.Originator, v.Beneficiary, v.Resource, v.Quantity, v.Genesis, v.Termination)
	if v.UnlockHeight > 0 {
		s += fmt.Sprintf("\n  unlock:      %d", v.UnlockHeight)
	}
	return s
}

// opFailure renders a registry rejection and converts it to exit code 1.
func opFailure(f *OutputFormatter, err error) error {
	code := string(escrow.CodeOf(err))
	if code == "" {
		code = "ERROR"
	}
	f.Error(code, err.Error(), nil)
	return WrapExitError(ExitFailure, "operation rejected", err)
}
