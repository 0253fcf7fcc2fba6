// Package accumulator implements the bookkeeping oracle SPEC_FULL.md §9
// describes: the one party that actually tracks which primes have been
// accumulated, able to hand out membership witnesses (w such that
// w^e = acc) and non-membership Bezout witnesses (d, b such that
// d^e * acc^b = g) to whoever wants to run sigma/root or sigma/coprime
// against the resulting accumulator value. Grounded on the original
// source's accumulators/mod.rs (the RSA accumulator's add/witness
// bookkeeping) using this repository's accgroup in place of its own
// unknown-order-group abstraction.
package accumulator

import (
	"errors"
	"io"
	"math/big"

	"github.com/takakv/cpsnarks-set/accgroup"
)

// ErrAlreadyAccumulated is returned when an element already present is
// added again, or when a non-membership witness is requested for it.
var ErrAlreadyAccumulated = errors.New("accumulator: element already accumulated")

// ErrNotAccumulated is returned when a membership witness is requested
// for an element that was never added.
var ErrNotAccumulated = errors.New("accumulator: element not accumulated")

// ErrNotCoprime is returned when the extended Euclidean algorithm finds
// e shares a factor with the accumulated product - it should never
// trigger when every accumulated element is itself prime and distinct,
// but the accumulator does not enforce primality itself (that is
// hash-to-prime's job, see package hashtoprime).
var ErrNotCoprime = errors.New("accumulator: element is not coprime to the accumulated set")

// Accumulator is a mutable RSA accumulator: value = base^(product of the
// accumulated primes). The oracle keeps the product and the individual
// elements in the clear - unlike acc itself, nobody outside this struct
// is meant to see them - so that it alone can derive membership and
// non-membership witnesses.
type Accumulator struct {
	group    accgroup.Group
	base     accgroup.Element
	value    accgroup.Element
	product  *big.Int
	elements []*big.Int
}

// Empty returns a fresh accumulator over group, sampling a random base
// (spec.md's g) and starting from acc = g (the empty product).
func Empty(group accgroup.Group, rng io.Reader) (*Accumulator, error) {
	base, err := group.Random(rng)
	if err != nil {
		return nil, err
	}
	return &Accumulator{
		group:   group,
		base:    base,
		value:   base,
		product: big.NewInt(1),
	}, nil
}

// Value returns the current accumulator value (the public acc).
func (a *Accumulator) Value() accgroup.Element { return a.value }

func (a *Accumulator) indexOf(e *big.Int) int {
	for i, el := range a.elements {
		if el.Cmp(e) == 0 {
			return i
		}
	}
	return -1
}

// Add accumulates e, raising the current value to the e-th power.
func (a *Accumulator) Add(e *big.Int) error {
	if a.indexOf(e) >= 0 {
		return ErrAlreadyAccumulated
	}
	next, err := a.group.Element().Exp(a.value, e)
	if err != nil {
		return err
	}
	a.value = next
	a.product.Mul(a.product, e)
	a.elements = append(a.elements, new(big.Int).Set(e))
	return nil
}

// AddWithProof accumulates e and returns its membership witness: the
// accumulator value from just before e was added, satisfying w^e = acc
// against the new value (spec.md §4.1).
func (a *Accumulator) AddWithProof(e *big.Int) (accgroup.Element, error) {
	if a.indexOf(e) >= 0 {
		return nil, ErrAlreadyAccumulated
	}
	w := a.value
	if err := a.Add(e); err != nil {
		return nil, err
	}
	return w, nil
}

// MembershipWitness recomputes the witness for an already-accumulated e:
// the base raised to the product of every other accumulated element.
func (a *Accumulator) MembershipWitness(e *big.Int) (accgroup.Element, error) {
	idx := a.indexOf(e)
	if idx < 0 {
		return nil, ErrNotAccumulated
	}
	rest := big.NewInt(1)
	for i, el := range a.elements {
		if i != idx {
			rest.Mul(rest, el)
		}
	}
	return a.group.Element().Exp(a.base, rest)
}

// ProveNonmembership returns the Bezout witness (d, b) with
// d^e * acc^b = base for an element e that has never been accumulated
// (spec.md §4.2): the extended Euclidean algorithm on (e, product) gives
// alpha, beta with alpha*e + beta*product = gcd(e, product), which is 1
// whenever e shares no factor with any accumulated element - guaranteed
// when every accumulated element is a distinct prime unequal to e.
func (a *Accumulator) ProveNonmembership(e *big.Int) (d accgroup.Element, b *big.Int, err error) {
	if a.indexOf(e) >= 0 {
		return nil, nil, ErrAlreadyAccumulated
	}

	gcd := new(big.Int)
	alpha := new(big.Int)
	beta := new(big.Int)
	gcd.GCD(alpha, beta, e, a.product)
	if gcd.Cmp(big.NewInt(1)) != 0 {
		return nil, nil, ErrNotCoprime
	}

	d, err = a.group.Element().Exp(a.base, alpha)
	if err != nil {
		return nil, nil, err
	}
	return d, beta, nil
}
