// Package commitment implements the two commitment schemes spec.md §6
// specifies at interface level: an integer commitment g^v h^r in the
// unknown-order group, and a Pedersen commitment v*G + r*H in the
// prime-order curve group. Grounded on the teacher's util.PedersenCommit
// (curve side) and the original source's commitments/integer.rs,
// commitments/pedersen.rs (parameter-sampling conventions).
package commitment

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"

	"github.com/takakv/cpsnarks-set/accgroup"
)

// ErrWrongOpening is returned by Open when the claimed (value, randomness)
// does not reproduce the commitment (spec.md §7).
var ErrWrongOpening = errors.New("commitment: wrong opening")

// IntegerParams are the public g, h bases of an integer commitment
// scheme, both elements of the unknown-order group.
type IntegerParams struct {
	Group accgroup.Group
	G, H  accgroup.Element
}

// SetupIntegerParams samples g uniformly below |G|/2 and h = g^x for
// uniform x in [0, |G|), matching spec.md §6's "Commitment interfaces".
func SetupIntegerParams(rng io.Reader, group accgroup.Group) (*IntegerParams, error) {
	g, err := group.Random(rng)
	if err != nil {
		return nil, err
	}
	x, err := rand.Int(rng, group.OrderUpperBound())
	if err != nil {
		return nil, err
	}
	h, err := group.Element().Exp(g, x)
	if err != nil {
		return nil, err
	}
	return &IntegerParams{Group: group, G: g, H: h}, nil
}

// Commit computes C = g^value * h^randomness.
func (p *IntegerParams) Commit(value, randomness *big.Int) (accgroup.Element, error) {
	gv, err := p.Group.Element().Exp(p.G, value)
	if err != nil {
		return nil, err
	}
	hr, err := p.Group.Element().Exp(p.H, randomness)
	if err != nil {
		return nil, err
	}
	return p.Group.Element().Op(gv, hr), nil
}

// Open checks that C opens to (value, randomness).
func (p *IntegerParams) Open(c accgroup.Element, value, randomness *big.Int) error {
	want, err := p.Commit(value, randomness)
	if err != nil {
		return err
	}
	if !c.IsEqual(want) {
		return ErrWrongOpening
	}
	return nil
}
