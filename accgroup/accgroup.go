// Package accgroup is the concrete instantiation of the "unknown-order
// group" the accumulator and its sigma-protocol proofs run in (spec.md §6,
// "Unknown-order group" trait). spec.md treats the accumulator's group as
// an external collaborator consumed only through op/exp/inv/order bound;
// SPEC_FULL.md §9 adds this RSA-modulus realization so the rest of the
// system has something concrete to run against end to end.
//
// The group is the signed quotient (Z/NZ)^* / {+-1}, the standard choice
// for RSA accumulators (it removes the -1 ambiguity that would otherwise
// leak a bit of the order). Elements are canonicalized to the
// representative in [1, N/2]. Its arithmetic style follows the teacher's
// ModPGroup in modsafeprime.go, generalized in two ways the spec requires
// and the safe-prime group does not: Exp must accept negative integer
// exponents (interpreted as inversion, spec.md §4.1), and the group's
// order is not exactly known, only upper-bounded by N/2.
package accgroup

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"math/big"
)

// ErrNotInvertible is returned when Inv/Exp with a negative exponent is
// attempted on an element that shares a nontrivial factor with the
// modulus - in a properly generated RSA modulus this should never happen
// for a value sampled coprime to N, but a malicious or malformed witness
// can still trigger it.
var ErrNotInvertible = errors.New("accgroup: element is not invertible modulo N")

// Group is the unknown-order group trait spec.md §6 requires: identity,
// element construction, random sampling, an order upper bound, and (for
// the Coprime sub-protocol's admission check) an optional RSA modulus.
type Group interface {
	Identity() Element
	Element() Element
	Random(rng io.Reader) (Element, error)
	// OrderUpperBound returns a value strictly greater than the group's
	// true (unknown) order, used to size blinding ranges (params.RR etc).
	OrderUpperBound() *big.Int
	// RSAModulus returns the RSA modulus and true only for groups that
	// support the Coprime sub-protocol's admission check.
	RSAModulus() (*big.Int, bool)
}

// Element is a group element with an integer embedding (elem_from_int /
// elem_to_int in spec.md §6) so commitments can be built directly from
// witness integers.
type Element interface {
	// Op sets the receiver to a ∘ b and returns it.
	Op(a, b Element) Element
	// Inv sets the receiver to a^-1 and returns it.
	Inv(a Element) Element
	// Exp sets the receiver to a^e, e possibly negative, and returns it.
	Exp(a Element, e *big.Int) (Element, error)
	// Set copies a into the receiver.
	Set(a Element) Element
	// SetInt embeds an integer as a group element (elem_from_int).
	SetInt(x *big.Int) Element
	// Int returns the integer embedding of the element (elem_to_int).
	Int() *big.Int
	IsEqual(b Element) bool
	IsIdentity() bool
	String() string
	json.Marshaler
	json.Unmarshaler
}

type rsaGroup struct {
	modulus *big.Int
}

type rsaElement struct {
	group *rsaGroup
	val   *big.Int
}

// NewRSAGroup returns the signed quotient group (Z/NZ)^*/{+-1} for the
// given RSA modulus. The modulus's factorization need not be known to the
// group itself - only whoever runs Setup needs it, to build an
// accumulator (package accumulator) over this group.
func NewRSAGroup(modulus *big.Int) Group {
	return &rsaGroup{modulus: new(big.Int).Set(modulus)}
}

func (g *rsaGroup) canon(x *big.Int) *big.Int {
	x = new(big.Int).Mod(x, g.modulus)
	half := new(big.Int).Rsh(g.modulus, 1)
	if x.Cmp(half) > 0 {
		x.Sub(g.modulus, x)
	}
	return x
}

func (g *rsaGroup) Identity() Element {
	return &rsaElement{group: g, val: big.NewInt(1)}
}

func (g *rsaGroup) Element() Element {
	return &rsaElement{group: g, val: new(big.Int)}
}

func (g *rsaGroup) Random(rng io.Reader) (Element, error) {
	for {
		x, err := rand.Int(rng, g.modulus)
		if err != nil {
			return nil, err
		}
		if x.Sign() == 0 {
			continue
		}
		if new(big.Int).GCD(nil, nil, x, g.modulus).Cmp(big.NewInt(1)) != 0 {
			continue
		}
		return &rsaElement{group: g, val: g.canon(x)}, nil
	}
}

// OrderUpperBound returns N/2, an upper bound on |(Z/NZ)^*/{+-1}| =
// phi(N)/2 for an RSA modulus N = p*q with p, q both odd primes.
func (g *rsaGroup) OrderUpperBound() *big.Int {
	return new(big.Int).Rsh(g.modulus, 1)
}

func (g *rsaGroup) RSAModulus() (*big.Int, bool) {
	return new(big.Int).Set(g.modulus), true
}

func (e *rsaElement) check(a Element) *rsaElement {
	ea, ok := a.(*rsaElement)
	if !ok {
		panic("accgroup: incompatible element type")
	}
	return ea
}

func (e *rsaElement) Op(a, b Element) Element {
	ea, eb := e.check(a), e.check(b)
	prod := new(big.Int).Mul(ea.val, eb.val)
	e.group = ea.group
	e.val = e.group.canon(prod)
	return e
}

func (e *rsaElement) Inv(a Element) Element {
	ea := e.check(a)
	inv := new(big.Int).ModInverse(ea.val, ea.group.modulus)
	e.group = ea.group
	if inv == nil {
		// Not invertible; leave a sentinel zero value so IsIdentity-style
		// checks downstream fail closed rather than silently succeeding.
		e.val = big.NewInt(0)
		return e
	}
	e.val = ea.group.canon(inv)
	return e
}

func (e *rsaElement) Exp(a Element, exp *big.Int) (Element, error) {
	ea := e.check(a)
	e.group = ea.group
	if exp.Sign() >= 0 {
		e.val = new(big.Int).Exp(ea.val, exp, ea.group.modulus)
		e.val = e.group.canon(e.val)
		return e, nil
	}
	base := new(big.Int).ModInverse(ea.val, ea.group.modulus)
	if base == nil {
		return nil, ErrNotInvertible
	}
	posExp := new(big.Int).Neg(exp)
	e.val = new(big.Int).Exp(base, posExp, ea.group.modulus)
	e.val = e.group.canon(e.val)
	return e, nil
}

func (e *rsaElement) Set(a Element) Element {
	ea := e.check(a)
	e.group = ea.group
	e.val = new(big.Int).Set(ea.val)
	return e
}

func (e *rsaElement) SetInt(x *big.Int) Element {
	e.val = e.group.canon(x)
	return e
}

func (e *rsaElement) Int() *big.Int {
	return new(big.Int).Set(e.val)
}

func (e *rsaElement) IsEqual(b Element) bool {
	eb := e.check(b)
	return e.val.Cmp(eb.val) == 0
}

func (e *rsaElement) IsIdentity() bool {
	return e.val.Cmp(big.NewInt(1)) == 0
}

func (e *rsaElement) String() string {
	return e.val.String()
}

func (e *rsaElement) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.val.String())
}

func (e *rsaElement) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return errors.New("accgroup: invalid element encoding")
	}
	e.val = v
	return nil
}

// Commit computes g^x * h^y, the two-base exponentiate-and-combine
// pattern every sigma sub-protocol in this repository uses to build both
// genuine commitments and the Schnorr-style alpha-commitments layered on
// top of them.
func Commit(grp Group, g, h Element, x, y *big.Int) (Element, error) {
	gx, err := grp.Element().Exp(g, x)
	if err != nil {
		return nil, err
	}
	hy, err := grp.Element().Exp(h, y)
	if err != nil {
		return nil, err
	}
	return grp.Element().Op(gx, hy), nil
}

// GenerateRSAModulus samples a fresh RSA modulus N = p*q from two random
// bitLen/2-bit primes, for use by tests and the accumulator's setup
// oracle (package accumulator). Production use of this proof system
// would instead import an externally-audited RSA modulus (e.g. RSA-2048);
// spec.md treats modulus generation as out of scope, so this is the
// minimal concrete stand-in SPEC_FULL.md §9 calls for.
func GenerateRSAModulus(rng io.Reader, bitLen int) (*big.Int, error) {
	p, err := rand.Prime(rng, bitLen/2)
	if err != nil {
		return nil, err
	}
	q, err := rand.Prime(rng, bitLen/2)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Mul(p, q), nil
}
