// Package nonmembership implements the Non-membership composite
// (spec.md §4.6): the full non-interactive proof that an element e is
// NOT accumulated, obtained by sequencing Coprime, ModEq, and a
// configured hash-to-prime variant over one shared transcript. Same
// skeleton as package membership, substituting Coprime's Bezout witness
// (d, b) for Root's membership witness w. Grounded on the original
// source's protocols/non_membership/mod.rs for the sub-protocol
// ordering.
package nonmembership

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
	"github.com/takakv/cpsnarks-set/sigma/coprime"
	"github.com/takakv/cpsnarks-set/sigma/modeq"
	"github.com/takakv/cpsnarks-set/transcript"
)

// ErrSetupFailed wraps any inner setup failure (spec.md §8 error table).
var ErrSetupFailed = errors.New("nonmembership: setup failed")

// ErrVerificationFailed is returned uniformly whichever sub-protocol
// check fails (spec.md §7).
var ErrVerificationFailed = errors.New("nonmembership: verification failed")

// ErrCouldNotCreateProof signals that the integer commitment C_e could not
// be formed while proving. Errors from the hash-to-prime search and from
// the sub-protocols are returned as they are, not as this value.
var ErrCouldNotCreateProof = errors.New("nonmembership: could not create proof")

const domain = "nonmembership"

// CRS aggregates every sub-protocol's CRS pieces, mirroring
// membership.CRS.
type CRS struct {
	Params   *params.Parameters
	IC       *commitment.IntegerParams
	Pedersen *commitment.PedersenParams
	H2P      hashtoprime.Protocol
}

// Setup builds a fresh non-membership CRS; see membership.Setup for the
// rationale behind threading a hash-to-prime constructor through rather
// than reconstructing it here.
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

// Statement is the non-membership composite's public input: the
// accumulator value and the external Pedersen commitment to e.
type Statement struct {
	Acc accgroup.Element
	CeQ curve.Element
}

// Witness is the non-membership composite's secret input: the excluded
// element, the randomness behind C_e_q, and the Bezout witness (d, b)
// with d^e' * acc^b = g.
type Witness struct {
	E, RQ, B *big.Int
	D        accgroup.Element
}

// Proof bundles C_e and the three sub-protocol proofs, in the order they
// are produced (spec.md §4.6).
type Proof struct {
	Ce      accgroup.Element
	Coprime *coprime.Proof
	ModEq   *modeq.Proof
	H2P     hashtoprime.Proof
}

// Protocol is the non-membership composite bound to a CRS: Coprime over
// (C_e, Acc), ModEq over (C_e, C_e_q), and the configured hash-to-prime
// variant over C_e_q, all three run over one shared transcript.
type Protocol struct {
	crs     CRS
	coprime *coprime.Protocol
	modeq   *modeq.Protocol
}

// FromCRS wires the three sub-protocols to their shared CRS pieces,
// surfacing Coprime's admission check (spec.md §4.2).
func FromCRS(crs CRS) (*Protocol, error) {
	coprimeProto, err := coprime.FromCRS(coprime.CRS{Params: crs.Params, IC: crs.IC})
	if err != nil {
		return nil, err
	}
	modeqProto, err := modeq.FromCRS(modeq.CRS{Params: crs.Params, IC: crs.IC, Pedersen: crs.Pedersen})
	if err != nil {
		return nil, err
	}
	return &Protocol{crs: crs, coprime: coprimeProto, modeq: modeqProto}, nil
}

// Prove runs the non-membership composite over tr (spec.md §4.6):
//  1. hash e to a prime e' via the configured hash-to-prime variant;
//  2. sample r, form C_e = g^e' h^r and send it - the first message
//     bound to the non-membership domain, before any sub-protocol runs;
//  3. run Coprime over (C_e, Acc) with witness (e', r, d, b);
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

	coprimeProof, err := p.coprime.Prove(channel.New(tr, "coprime"), rngInt,
		coprime.Statement{Ce: ce, Acc: stmt.Acc}, coprime.Witness{E: ePrime, R: r, D: wit.D, B: wit.B})
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

	return &Proof{Ce: ce, Coprime: coprimeProof, ModEq: modeqProof, H2P: h2pProof}, nil
}

// Verify replays the non-membership composite over tr in the same strict
// order: receive C_e, then Coprime, ModEq, and the hash-to-prime variant
// in turn (spec.md §7).
func (p *Protocol) Verify(tr *transcript.Transcript, stmt Statement, proof *Proof) error {
	vc := channel.New(tr, domain)
	if err := vc.Receive("c_e", bigint.ToBytes(proof.Ce.Int())); err != nil {
		return err
	}

	if err := p.coprime.Verify(channel.New(tr, "coprime"),
		coprime.Statement{Ce: proof.Ce, Acc: stmt.Acc}, proof.Coprime); err != nil {
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
