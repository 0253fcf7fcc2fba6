// Package root implements the Root sub-protocol (spec.md §4.1): a sigma
// proof of knowledge of (e, r, w) such that C_e = g^e h^r and w^e = acc,
// i.e. that the committed value is accumulated and w is its membership
// witness. Grounded on the original source's protocols/root/mod.rs for
// the algebra, and on the teacher's voteproof.go for the Go shape of a
// Fiat-Shamir sigma protocol (commit, challenge, respond, verify).
package root

import (
	"errors"
	"io"
	"math/big"

	"github.com/takakv/cpsnarks-set/accgroup"
	"github.com/takakv/cpsnarks-set/bigint"
	"github.com/takakv/cpsnarks-set/channel"
	"github.com/takakv/cpsnarks-set/commitment"
	"github.com/takakv/cpsnarks-set/params"
)

// ErrVerificationFailed is returned uniformly for every failing check, by
// design (spec.md §7: no side channel on which equation failed).
var ErrVerificationFailed = errors.New("root: verification failed")

// ErrCouldNotCreateProof signals an inconsistent witness or a group
// operation failure while proving.
var ErrCouldNotCreateProof = errors.New("root: could not create proof")

const domain = "root"

// CRS is the frozen Root CRS: the security parameters and the integer
// commitment scheme g, h.
type CRS struct {
	Params *params.Parameters
	IC     *commitment.IntegerParams
}

// Statement is the Root sub-protocol's public input.
type Statement struct {
	Ce  accgroup.Element
	Acc accgroup.Element
}

// Witness is the Root sub-protocol's secret input: e, r, w with
// w^e = acc.
type Witness struct {
	E, R *big.Int
	W    accgroup.Element
}

// Message1 is the prover's first move: blinded commitments to w and to
// the (r2, r3) blindings used to re-randomize it.
type Message1 struct {
	Cw, Cr accgroup.Element
}

// Message2 is the prover's second move: the four Schnorr commitments.
type Message2 struct {
	Alpha1, Alpha2, Alpha3, Alpha4 accgroup.Element
}

// Message3 is the prover's third move: the six integer responses.
type Message3 struct {
	Se, Sr, Sr2, Sr3, Sbeta, Sdelta *big.Int
}

// Proof bundles all three prover messages.
type Proof struct {
	M1 Message1
	M2 Message2
	M3 Message3
}

// Protocol is the Root sub-protocol bound to a CRS.
type Protocol struct {
	crs CRS
}

// FromCRS returns a Root protocol instance; Root has no admission check
// beyond what CRS construction already guarantees.
func FromCRS(crs CRS) *Protocol {
	return &Protocol{crs: crs}
}

func (p *Protocol) g() accgroup.Element { return p.crs.IC.G }
func (p *Protocol) h() accgroup.Element { return p.crs.IC.H }
func (p *Protocol) group() accgroup.Group { return p.crs.IC.Group }

// Prove runs the Root sigma protocol over vc, sending three messages and
// consuming one challenge, per spec.md §4.1.
func (p *Protocol) Prove(vc *channel.VerifierChannel, rngInt io.Reader, stmt Statement, wit Witness) (*Proof, error) {
	g, h, grp := p.g(), p.h(), p.group()
	orderBound := grp.OrderUpperBound()
	halfOrder := new(big.Int).Rsh(orderBound, 1)

	r2, err := bigint.SampleSymmetric(rngInt, halfOrder)
	if err != nil {
		return nil, err
	}
	r3, err := bigint.SampleSymmetric(rngInt, halfOrder)
	if err != nil {
		return nil, err
	}

	hR2, err := grp.Element().Exp(h, r2)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	cw := grp.Element().Op(wit.W, hR2)

	gR2, err := grp.Element().Exp(g, r2)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	hR3, err := grp.Element().Exp(h, r3)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	cr := grp.Element().Op(gR2, hR3)

	m1 := Message1{Cw: cw, Cr: cr}
	if err := sendElem(vc, "c_w", cw); err != nil {
		return nil, err
	}
	if err := sendElem(vc, "c_r", cr); err != nil {
		return nil, err
	}

	re, err := bigint.SampleSymmetric(rngInt, p.crs.Params.RE())
	if err != nil {
		return nil, err
	}
	rr, err := bigint.SampleSymmetric(rngInt, p.crs.Params.RR(orderBound))
	if err != nil {
		return nil, err
	}
	rr2, err := bigint.SampleSymmetric(rngInt, p.crs.Params.RR(orderBound))
	if err != nil {
		return nil, err
	}
	rr3, err := bigint.SampleSymmetric(rngInt, p.crs.Params.RR(orderBound))
	if err != nil {
		return nil, err
	}
	rbeta, err := bigint.SampleSymmetric(rngInt, p.crs.Params.RBetaDelta(orderBound))
	if err != nil {
		return nil, err
	}
	rdelta, err := bigint.SampleSymmetric(rngInt, p.crs.Params.RBetaDelta(orderBound))
	if err != nil {
		return nil, err
	}

	alpha1, err := accgroup.Commit(grp, g, h, re, rr)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	alpha2, err := accgroup.Commit(grp, g, h, rr2, rr3)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	alpha3, err := accgroup.Commit(grp, cw, h, re, new(big.Int).Neg(rbeta))
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	alpha4, err := accgroup.Commit(grp, cr, h, re, new(big.Int).Neg(rdelta))
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	gNegBeta, err := grp.Element().Exp(g, new(big.Int).Neg(rbeta))
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	alpha4 = grp.Element().Op(alpha4, gNegBeta)

	m2 := Message2{Alpha1: alpha1, Alpha2: alpha2, Alpha3: alpha3, Alpha4: alpha4}
	for _, kv := range []struct {
		label string
		e     accgroup.Element
	}{{"alpha1", alpha1}, {"alpha2", alpha2}, {"alpha3", alpha3}, {"alpha4", alpha4}} {
		if err := sendElem(vc, kv.label, kv.e); err != nil {
			return nil, err
		}
	}

	c, err := vc.Challenge("c", p.crs.Params.ChallengeBits())
	if err != nil {
		return nil, err
	}

	se := new(big.Int).Sub(re, new(big.Int).Mul(c, wit.E))
	sr := new(big.Int).Sub(rr, new(big.Int).Mul(c, wit.R))
	sr2 := new(big.Int).Sub(rr2, new(big.Int).Mul(c, r2))
	sr3 := new(big.Int).Sub(rr3, new(big.Int).Mul(c, r3))
	sbeta := new(big.Int).Sub(rbeta, new(big.Int).Mul(c, new(big.Int).Mul(wit.E, r2)))
	sdelta := new(big.Int).Sub(rdelta, new(big.Int).Mul(c, new(big.Int).Mul(wit.E, r3)))

	m3 := Message3{Se: se, Sr: sr, Sr2: sr2, Sr3: sr3, Sbeta: sbeta, Sdelta: sdelta}
	for _, kv := range []struct {
		label string
		v     *big.Int
	}{{"s_e", se}, {"s_r", sr}, {"s_r2", sr2}, {"s_r3", sr3}, {"s_beta", sbeta}, {"s_delta", sdelta}} {
		if err := vc.Send(kv.label, bigint.ToSignedBytes(kv.v)); err != nil {
			return nil, err
		}
	}

	return &Proof{M1: m1, M2: m2, M3: m3}, nil
}

// Verify replays the Root proof over pc and checks all four verification
// equations plus the s_e range bound (spec.md §4.1, §8.4).
func (p *Protocol) Verify(pc *channel.ProverChannel, stmt Statement, proof *Proof) error {
	grp := p.group()
	g, h := p.g(), p.h()

	if err := sendElem(pc, "c_w", proof.M1.Cw); err != nil {
		return err
	}
	if err := sendElem(pc, "c_r", proof.M1.Cr); err != nil {
		return err
	}
	for _, kv := range []struct {
		label string
		e     accgroup.Element
	}{
		{"alpha1", proof.M2.Alpha1}, {"alpha2", proof.M2.Alpha2},
		{"alpha3", proof.M2.Alpha3}, {"alpha4", proof.M2.Alpha4},
	} {
		if err := sendElem(pc, kv.label, kv.e); err != nil {
			return err
		}
	}

	c, err := pc.Challenge("c", p.crs.Params.ChallengeBits())
	if err != nil {
		return err
	}

	for _, kv := range []struct {
		label string
		v     *big.Int
	}{
		{"s_e", proof.M3.Se}, {"s_r", proof.M3.Sr}, {"s_r2", proof.M3.Sr2},
		{"s_r3", proof.M3.Sr3}, {"s_beta", proof.M3.Sbeta}, {"s_delta", proof.M3.Sdelta},
	} {
		if err := pc.Receive(kv.label, bigint.ToSignedBytes(kv.v)); err != nil {
			return err
		}
	}

	bound := p.crs.Params.SRangeBound()
	if new(big.Int).Abs(proof.M3.Se).Cmp(bound) > 0 {
		return ErrVerificationFailed
	}

	check := func(lhs, rhs accgroup.Element) bool { return lhs.IsEqual(rhs) }

	// alpha1 =? Ce^c * g^s_e * h^s_r
	rhs1, err := schnorrResponseCheck(grp, stmt.Ce, c, g, proof.M3.Se, h, proof.M3.Sr)
	if err != nil {
		return ErrVerificationFailed
	}
	if !check(proof.M2.Alpha1, rhs1) {
		return ErrVerificationFailed
	}

	// alpha2 =? Cr^c * g^s_r2 * h^s_r3
	rhs2, err := schnorrResponseCheck(grp, proof.M1.Cr, c, g, proof.M3.Sr2, h, proof.M3.Sr3)
	if err != nil {
		return ErrVerificationFailed
	}
	if !check(proof.M2.Alpha2, rhs2) {
		return ErrVerificationFailed
	}

	// alpha3 =? acc^c * Cw^s_e * h^{-s_beta}
	accC, err := grp.Element().Exp(stmt.Acc, c)
	if err != nil {
		return ErrVerificationFailed
	}
	cwSe, err := grp.Element().Exp(proof.M1.Cw, proof.M3.Se)
	if err != nil {
		return ErrVerificationFailed
	}
	hNegSbeta, err := grp.Element().Exp(h, new(big.Int).Neg(proof.M3.Sbeta))
	if err != nil {
		return ErrVerificationFailed
	}
	rhs3 := grp.Element().Op(grp.Element().Op(accC, cwSe), hNegSbeta)
	if !check(proof.M2.Alpha3, rhs3) {
		return ErrVerificationFailed
	}

	// alpha4 =? Cr^s_e * h^{-s_delta} * g^{-s_beta}
	crSe, err := grp.Element().Exp(proof.M1.Cr, proof.M3.Se)
	if err != nil {
		return ErrVerificationFailed
	}
	hNegSdelta, err := grp.Element().Exp(h, new(big.Int).Neg(proof.M3.Sdelta))
	if err != nil {
		return ErrVerificationFailed
	}
	gNegSbeta, err := grp.Element().Exp(g, new(big.Int).Neg(proof.M3.Sbeta))
	if err != nil {
		return ErrVerificationFailed
	}
	rhs4 := grp.Element().Op(grp.Element().Op(crSe, hNegSdelta), gNegSbeta)
	if !check(proof.M2.Alpha4, rhs4) {
		return ErrVerificationFailed
	}

	return nil
}

// schnorrResponseCheck computes base^c * g^sx * h^sy.
func schnorrResponseCheck(grp accgroup.Group, base accgroup.Element, c *big.Int, g accgroup.Element, sx *big.Int, h accgroup.Element, sy *big.Int) (accgroup.Element, error) {
	baseC, err := grp.Element().Exp(base, c)
	if err != nil {
		return nil, err
	}
	gSx, err := grp.Element().Exp(g, sx)
	if err != nil {
		return nil, err
	}
	hSy, err := grp.Element().Exp(h, sy)
	if err != nil {
		return nil, err
	}
	return grp.Element().Op(grp.Element().Op(baseC, gSx), hSy), nil
}

func sendElem(c *channel.Channel, label string, e accgroup.Element) error {
	return c.Send(label, bigint.ToBytes(e.Int()))
}
