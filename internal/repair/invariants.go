package repair

import (
	"errors"
	"fmt"

	"github.com/benredmond/stratval/pkg/models"
)

// ErrRepairRejected is the root of every invariant violation the
// diff check reports.
var ErrRepairRejected = errors.New("repair rejected")

// CheckInvariants diffs the repaired batch against the original
// snapshot. Immutable per candidate: assets list, weight key-set,
// name, edge type, archetype, and logic-tree shape. The rebalance
// frequency may change only for candidates in freqChangeAllowed. Any
// single violation rejects the entire repair.
func CheckInvariants(original, repaired []*models.Candidate, freqChangeAllowed map[string]bool) error {
	if len(repaired) != len(original) {
		return fmt.Errorf("%w: candidate count changed from %d to %d",
			ErrRepairRejected, len(original), len(repaired))
	}

	for i, before := range original {
		after := repaired[i]
		if after == nil {
			return fmt.Errorf("%w: candidate %d is missing", ErrRepairRejected, i)
		}
		if after.Name != before.Name {
			return fmt.Errorf("%w: candidate %d renamed from %q to %q",
				ErrRepairRejected, i, before.Name, after.Name)
		}
		if !sameStrings(before.Assets, after.Assets) {
			return fmt.Errorf("%w: %s assets changed", ErrRepairRejected, before.Name)
		}
		if !sameKeySet(before.Weights, after.Weights) {
			return fmt.Errorf("%w: %s weight keys changed", ErrRepairRejected, before.Name)
		}
		if after.EdgeType != before.EdgeType {
			return fmt.Errorf("%w: %s edge type changed from %q to %q",
				ErrRepairRejected, before.Name, before.EdgeType, after.EdgeType)
		}
		if after.Archetype != before.Archetype {
			return fmt.Errorf("%w: %s archetype changed from %q to %q",
				ErrRepairRejected, before.Name, before.Archetype, after.Archetype)
		}
		if after.LogicTree.Shape() != before.LogicTree.Shape() {
			return fmt.Errorf("%w: %s logic tree went from %s to %s",
				ErrRepairRejected, before.Name, before.LogicTree.Shape(), after.LogicTree.Shape())
		}
		if after.RebalanceFrequency != before.RebalanceFrequency && !freqChangeAllowed[before.Name] {
			return fmt.Errorf("%w: %s rebalance frequency changed without a frequency finding",
				ErrRepairRejected, before.Name)
		}
	}
	return nil
}

// sameStrings compares two slices element by element, order included.
func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sameKeySet compares the key sets of two weight maps, values ignored.
func sameKeySet(a, b map[string]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
