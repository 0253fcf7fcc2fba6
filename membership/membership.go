// Package membership implements the Membership composite (spec.md §4.5):
// the full non-interactive proof that an element e is accumulated,
// obtained by sequencing Root, ModEq, and a configured hash-to-prime
// variant over one shared transcript. Grounded on the original source's
// protocols/membership/mod.rs for the sub-protocol ordering, and on how
// sigma/root, sigma/modeq, and package hashtoprime are individually
// shaped in this repository.
package membership

import (
	"errors"
	"io"
	"math/big"

	"github.com/takakv/cpsnarks-set/accgroup"
	"github.com/takakv/cpsnarks-set/bigint"
	"github.com/takakv/cpsnarks-set/channel"
	"github.com/takakv/cpsnarks-set/commitment"
	"github.com/takakv/cpsnarks-set/curve"
	"github.com/takakv/cpsnarks-set/hashtoprime"
	"github.com/takakv/cpsnarks-set/params"
	"github.com/takakv/cpsnarks-set/sigma/modeq"
	"github.com/takakv/cpsnarks-set/sigma/root"
	"github.com/takakv/cpsnarks-set/transcript"
)

// ErrSetupFailed wraps any inner setup failure (spec.md §8 error table).
var ErrSetupFailed = errors.New("membership: setup failed")

// ErrVerificationFailed is returned uniformly whichever sub-protocol
// check fails, by design (spec.md §7: no side channel on which stage
// failed).
var ErrVerificationFailed = errors.New("membership: verification failed")

// ErrCouldNotCreateProof signals that the integer commitment C_e could not
// be formed while proving. Errors from the hash-to-prime search and from
// the sub-protocols are returned as they are, not as this value.
var ErrCouldNotCreateProof = errors.New("membership: could not create proof")

const domain = "membership"

// CRS aggregates every sub-protocol's CRS pieces into the one shared
// setup output spec.md §4.5 describes: the integer and Pedersen
// commitment schemes, and the configured hash-to-prime variant.
type CRS struct {
	Params   *params.Parameters
	IC       *commitment.IntegerParams
	Pedersen *commitment.PedersenParams
	H2P      hashtoprime.Protocol
}

// Setup builds a fresh membership CRS: independent integer and Pedersen
// commitment parameters, plus the caller-supplied hash-to-prime variant.
// The hash-to-prime variant's own setup is variant-specific (RangeOnly
// needs an algebra.Group, Blake2sHash needs a message size - see package
// hashtoprime), so its constructor is threaded through rather than
// reconstructed here.
func Setup(par *params.Parameters, rngInt io.Reader, accGroup accgroup.Group, curveGroup curve.Group, newH2P func(hashtoprime.CRS) (hashtoprime.Protocol, error)) (*CRS, error) {
	ic, err := commitment.SetupIntegerParams(rngInt, accGroup)
	if err != nil {
		return nil, ErrSetupFailed
	}
	ped := commitment.SetupPedersenParams(curveGroup)
	h2p, err := newH2P(hashtoprime.CRS{Params: par, Pedersen: ped})
	if err != nil {
		return nil, ErrSetupFailed
	}
	return &CRS{Params: par, IC: ic, Pedersen: ped, H2P: h2p}, nil
}

// Statement is the membership composite's public input: the accumulator
// value and the external Pedersen commitment to e that the caller
// already holds (e.g. from a prior ModEq-bridged interaction).
type Statement struct {
	Acc accgroup.Element
	CeQ curve.Element
}

// Witness is the membership composite's secret input: the accumulated
// element, the randomness behind C_e_q, and e's membership witness.
type Witness struct {
	E, RQ *big.Int
	W     accgroup.Element
}

// Proof bundles C_e and the three sub-protocol proofs, in the order they
// are produced (spec.md §4.5).
type Proof struct {
	Ce    accgroup.Element
	Root  *root.Proof
	ModEq *modeq.Proof
	H2P   hashtoprime.Proof
}

// Protocol is the membership composite bound to a CRS: Root over
// (C_e, Acc), ModEq over (C_e, C_e_q), and the configured hash-to-prime
// variant over C_e_q, all three run over one shared transcript
// (spec.md §4.7).
type Protocol struct {
	crs   CRS
	root  *root.Protocol
	modeq *modeq.Protocol
}

// FromCRS wires the three sub-protocols to their shared CRS pieces.
func FromCRS(crs CRS) (*Protocol, error) {
	rootProto := root.FromCRS(root.CRS{Params: crs.Params, IC: crs.IC})
	modeqProto, err := modeq.FromCRS(modeq.CRS{Params: crs.Params, IC: crs.IC, Pedersen: crs.Pedersen})
	if err != nil {
		return nil, err
	}
	return &Protocol{crs: crs, root: rootProto, modeq: modeqProto}, nil
}

// Prove runs the membership composite over tr (spec.md §4.5):
//  1. hash e to a prime e' via the configured hash-to-prime variant;
//  2. sample r, form C_e = g^e' h^r and send it - the first message
//     bound to the membership domain, before any sub-protocol runs;
//  3. run Root over (C_e, Acc) with witness (e', r, w);
//  4. run ModEq over (C_e, C_e_q) with witness (e', r, r_q);
//  5. run the hash-to-prime variant over C_e_q with witness (e, r_q).
func (p *Protocol) Prove(tr *transcript.Transcript, rngInt, rngCurve io.Reader, stmt Statement, wit Witness) (*Proof, error) {
	ePrime, _, err := p.crs.H2P.HashToPrime(wit.E)
	if err != nil {
		return nil, err
	}

	orderBound := p.crs.IC.Group.OrderUpperBound()
	r, err := bigint.SampleBelow(rngInt, orderBound)
	if err != nil {
		return nil, err
	}
	ce, err := p.crs.IC.Commit(ePrime, r)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}

	vc := channel.New(tr, domain)
	if err := vc.Send("c_e", bigint.ToBytes(ce.Int())); err != nil {
		return nil, err
	}

	rootProof, err := p.root.Prove(channel.New(tr, "root"), rngInt,
		root.Statement{Ce: ce, Acc: stmt.Acc}, root.Witness{E: ePrime, R: r, W: wit.W})
	if err != nil {
		return nil, err
	}

	modeqProof, err := p.modeq.Prove(channel.New(tr, "modeq"), rngInt, rngCurve,
		modeq.Statement{Ce: ce, CeQ: stmt.CeQ}, modeq.Witness{E: ePrime, R: r, RQ: wit.RQ})
	if err != nil {
		return nil, err
	}

	h2pProof, err := p.crs.H2P.Prove(channel.New(tr, "hash_to_prime"), rngCurve,
		hashtoprime.Statement{CeQ: stmt.CeQ}, hashtoprime.Witness{E: wit.E, RQ: wit.RQ})
	if err != nil {
		return nil, err
	}

	return &Proof{Ce: ce, Root: rootProof, ModEq: modeqProof, H2P: h2pProof}, nil
}

// Verify replays the membership composite over tr in the same strict
// order: receive C_e, then Root, ModEq, and the hash-to-prime variant in
// turn. A proof built out of order, or replayed against a transcript
// seeded under a different domain, diverges into ErrVerificationFailed
// rather than a distinguishing error (spec.md §7).
func (p *Protocol) Verify(tr *transcript.Transcript, stmt Statement, proof *Proof) error {
	vc := channel.New(tr, domain)
	if err := vc.Receive("c_e", bigint.ToBytes(proof.Ce.Int())); err != nil {
		return err
	}

	if err := p.root.Verify(channel.New(tr, "root"),
		root.Statement{Ce: proof.Ce, Acc: stmt.Acc}, proof.Root); err != nil {
		return ErrVerificationFailed
	}

	if err := p.modeq.Verify(channel.New(tr, "modeq"),
		modeq.Statement{Ce: proof.Ce, CeQ: stmt.CeQ}, proof.ModEq); err != nil {
		return ErrVerificationFailed
	}

	if err := p.crs.H2P.Verify(channel.New(tr, "hash_to_prime"),
		hashtoprime.Statement{CeQ: stmt.CeQ}, proof.H2P); err != nil {
		return ErrVerificationFailed
	}

	return nil
}
