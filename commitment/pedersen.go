package commitment

import (
	"math/big"

	"github.com/takakv/cpsnarks-set/curve"
)

// PedersenParams are the public G, H bases of a curve Pedersen
// commitment scheme.
type PedersenParams struct {
	Group curve.Group
	G, H  curve.Element
}

// SetupPedersenParams samples G, H as independent uniform random curve
// points, matching spec.md §6.
func SetupPedersenParams(group curve.Group) *PedersenParams {
	return &PedersenParams{
		Group: group,
		G:     group.Random(),
		H:     group.Random(),
	}
}

// Commit computes C = value*G + randomness*H, mirroring the teacher's
// util.PedersenCommit.
func (p *PedersenParams) Commit(value, randomness *big.Int) curve.Element {
	vG := p.Group.Element().Scale(p.G, value)
	rH := p.Group.Element().Scale(p.H, randomness)
	return p.Group.Element().Add(vG, rH)
}

// Open checks that C opens to (value, randomness).
func (p *PedersenParams) Open(c curve.Element, value, randomness *big.Int) error {
	want := p.Commit(value, randomness)
	if !c.IsEqual(want) {
		return ErrWrongOpening
	}
	return nil
}
