// Package modeq implements the ModEq sub-protocol (spec.md §4.3): a sigma
// proof binding the same secret e across an integer commitment C_e (in the
// unknown-order group) and a Pedersen commitment C_e_q (in the prime-order
// curve group), where the curve scalar is e mod q. This is the bridge that
// lets the hash-to-prime sub-protocol, which only speaks the curve group's
// language, reason about the very e committed to in the unknown-order
// group. Grounded on the original source's protocols/modeq/mod.rs.
package modeq

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"

	"github.com/takakv/cpsnarks-set/accgroup"
	"github.com/takakv/cpsnarks-set/bigint"
	"github.com/takakv/cpsnarks-set/channel"
	"github.com/takakv/cpsnarks-set/commitment"
	"github.com/takakv/cpsnarks-set/curve"
	"github.com/takakv/cpsnarks-set/params"
)

// ErrVerificationFailed is returned uniformly for every failing check.
var ErrVerificationFailed = errors.New("modeq: verification failed")

// ErrCouldNotCreateProof signals an inconsistent witness or a group
// operation failure while proving.
var ErrCouldNotCreateProof = errors.New("modeq: could not create proof")

const domain = "modeq"

// CRS is the frozen ModEq CRS: the security parameters, the integer
// commitment scheme (g, h), and the Pedersen commitment scheme (G, H).
type CRS struct {
	Params   *params.Parameters
	IC       *commitment.IntegerParams
	Pedersen *commitment.PedersenParams
}

// Statement is the ModEq sub-protocol's public input: the integer and
// Pedersen commitments claimed to hold the same underlying e.
type Statement struct {
	Ce  accgroup.Element
	CeQ curve.Element
}

// Witness is the ModEq sub-protocol's secret input: e, r as committed in
// C_e, and r_q as committed in C_e_q.
type Witness struct {
	E, R, RQ *big.Int
}

// Message1 is the prover's only move before the challenge: one Schnorr
// commitment per group.
type Message1 struct {
	Alpha1 accgroup.Element
	Alpha2 curve.Element
}

// Message2 is the prover's response: the integer responses plus one
// curve-scalar response.
type Message2 struct {
	Se, Sr *big.Int
	SRQ    *big.Int
}

// Proof bundles both prover messages.
type Proof struct {
	M1 Message1
	M2 Message2
}

// Protocol is the ModEq sub-protocol bound to a CRS.
type Protocol struct {
	crs CRS
}

// FromCRS returns a ModEq protocol instance, enforcing the precondition
// spec.md §4.3 states: the field size budget nu must be at least as wide
// as the curve's scalar field.
func FromCRS(crs CRS) (*Protocol, error) {
	if crs.Params.FieldSizeBits < uint(crs.Pedersen.Group.N().BitLen()) {
		return nil, params.ErrInvalidParameters
	}
	return &Protocol{crs: crs}, nil
}

func (p *Protocol) g() accgroup.Element   { return p.crs.IC.G }
func (p *Protocol) h() accgroup.Element   { return p.crs.IC.H }
func (p *Protocol) group() accgroup.Group { return p.crs.IC.Group }

// q returns the curve group's scalar field order, the modulus every
// curve-side response is reduced against.
func (p *Protocol) q() *big.Int { return p.crs.Pedersen.Group.N() }

// Prove runs the ModEq sigma protocol over vc, sending two messages (one
// before and one after the challenge) and consuming one challenge, per
// spec.md §4.3.
func (p *Protocol) Prove(vc *channel.VerifierChannel, rngInt io.Reader, rngCurve io.Reader, stmt Statement, wit Witness) (*Proof, error) {
	g, h, grp := p.g(), p.h(), p.group()
	orderBound := grp.OrderUpperBound()

	re, err := bigint.SampleSymmetric(rngInt, p.crs.Params.RE())
	if err != nil {
		return nil, err
	}
	rr, err := bigint.SampleSymmetric(rngInt, p.crs.Params.RR(orderBound))
	if err != nil {
		return nil, err
	}

	q := p.q()
	rrq, err := rand.Int(rngCurve, q)
	if err != nil {
		return nil, err
	}

	alpha1, err := accgroup.Commit(grp, g, h, re, rr)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	reModQ := bigint.EuclideanMod(re, q)
	alpha2 := p.crs.Pedersen.Commit(reModQ, rrq)

	m1 := Message1{Alpha1: alpha1, Alpha2: alpha2}
	if err := vc.Send("alpha1", bigint.ToBytes(alpha1.Int())); err != nil {
		return nil, err
	}
	alpha2Bytes, err := alpha2.MarshalBinary()
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	if err := vc.Send("alpha2", alpha2Bytes); err != nil {
		return nil, err
	}

	c, err := vc.Challenge("c", p.crs.Params.ChallengeBits())
	if err != nil {
		return nil, err
	}

	se := new(big.Int).Sub(re, new(big.Int).Mul(c, wit.E))
	sr := new(big.Int).Sub(rr, new(big.Int).Mul(c, wit.R))
	cModQ := bigint.EuclideanMod(c, q)
	srq := bigint.EuclideanMod(new(big.Int).Sub(rrq, new(big.Int).Mul(wit.RQ, cModQ)), q)

	m2 := Message2{Se: se, Sr: sr, SRQ: srq}
	if err := vc.Send("s_e", bigint.ToSignedBytes(se)); err != nil {
		return nil, err
	}
	if err := vc.Send("s_r", bigint.ToSignedBytes(sr)); err != nil {
		return nil, err
	}
	if err := vc.Send("s_r_q", bigint.ToBytes(srq)); err != nil {
		return nil, err
	}

	return &Proof{M1: m1, M2: m2}, nil
}

// Verify replays the ModEq proof over pc and checks both verification
// equations, per spec.md §4.3.
func (p *Protocol) Verify(pc *channel.ProverChannel, stmt Statement, proof *Proof) error {
	grp := p.group()
	g, h := p.g(), p.h()
	q := p.q()

	if err := pc.Receive("alpha1", bigint.ToBytes(proof.M1.Alpha1.Int())); err != nil {
		return err
	}
	alpha2Bytes, err := proof.M1.Alpha2.MarshalBinary()
	if err != nil {
		return ErrVerificationFailed
	}
	if err := pc.Receive("alpha2", alpha2Bytes); err != nil {
		return err
	}

	c, err := pc.Challenge("c", p.crs.Params.ChallengeBits())
	if err != nil {
		return err
	}

	if err := pc.Receive("s_e", bigint.ToSignedBytes(proof.M2.Se)); err != nil {
		return err
	}
	if err := pc.Receive("s_r", bigint.ToSignedBytes(proof.M2.Sr)); err != nil {
		return err
	}
	if err := pc.Receive("s_r_q", bigint.ToBytes(proof.M2.SRQ)); err != nil {
		return err
	}

	// alpha1 =? Ce^c * g^s_e * h^s_r
	gSeHSr, err := accgroup.Commit(grp, g, h, proof.M2.Se, proof.M2.Sr)
	if err != nil {
		return ErrVerificationFailed
	}
	ceC, err := grp.Element().Exp(stmt.Ce, c)
	if err != nil {
		return ErrVerificationFailed
	}
	if !grp.Element().Op(gSeHSr, ceC).IsEqual(proof.M1.Alpha1) {
		return ErrVerificationFailed
	}

	// alpha2 =? c * C_e_q + (s_e mod q)*G + s_r_q*H
	seModQ := bigint.EuclideanMod(proof.M2.Se, q)
	commitment1 := p.crs.Pedersen.Commit(seModQ, proof.M2.SRQ)
	cModQ := bigint.EuclideanMod(c, q)
	ceQC := p.crs.Pedersen.Group.Element().Scale(stmt.CeQ, cModQ)
	rhs2 := p.crs.Pedersen.Group.Element().Add(commitment1, ceQC)
	if !rhs2.IsEqual(proof.M1.Alpha2) {
		return ErrVerificationFailed
	}

	return nil
}
