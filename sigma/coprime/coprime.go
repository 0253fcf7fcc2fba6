// Package coprime implements the Coprime sub-protocol (spec.md §4.2): a
// sigma proof of knowledge of (e, r, d, b) such that C_e = g^e h^r and
// d^e * acc^b = g, i.e. a Bezout relation witnessing gcd(e, ord(acc)) = 1.
// This is the non-membership half of the system: an element e is NOT
// accumulated exactly when such a (d, b) exists. Grounded on the original
// source's protocols/coprime/mod.rs for the algebra and on sigma/root for
// the Go shape shared by every sub-protocol in this package tree.
package coprime

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

// ErrVerificationFailed is returned uniformly for every failing check.
var ErrVerificationFailed = errors.New("coprime: verification failed")

// ErrCouldNotCreateProof signals an inconsistent witness or a group
// operation failure while proving.
var ErrCouldNotCreateProof = errors.New("coprime: could not create proof")

const domain = "coprime"

// CRS is the frozen Coprime CRS: the security parameters and the integer
// commitment scheme g, h, shared with Root.
type CRS struct {
	Params *params.Parameters
	IC     *commitment.IntegerParams
}

// Statement is the Coprime sub-protocol's public input.
type Statement struct {
	Ce  accgroup.Element
	Acc accgroup.Element
}

// Witness is the Coprime sub-protocol's secret input: e, r, d, b with
// d^e * acc^b = g (the Bezout relation proving e is coprime to acc's
// hidden order).
type Witness struct {
	E, R, B *big.Int
	D       accgroup.Element
}

// Message1 is the prover's first move: blinded commitments to d and b.
type Message1 struct {
	Ca, CRa, CbHat, CRhoBHat accgroup.Element
}

// Message2 is the prover's second move: the six coupling Schnorr
// commitments.
type Message2 struct {
	Alpha2, Alpha3, Alpha4, Alpha5, Alpha6, Alpha7 accgroup.Element
}

// Message3 is the prover's third move: the nine integer responses.
type Message3 struct {
	Sb, Se, SRhoBHat, Sr, Sra, Sra2, SRhoBHat2, Sbeta, Sdelta *big.Int
}

// Proof bundles all three prover messages.
type Proof struct {
	M1 Message1
	M2 Message2
	M3 Message3
}

// Protocol is the Coprime sub-protocol bound to a CRS.
type Protocol struct {
	crs CRS
}

// FromCRS returns a Coprime protocol instance, enforcing spec.md §4.2's
// admission check: coprime only makes sense over an RSA-modulus group
// (class groups are out of scope), and lambda_s must leave enough room
// below mu and below half the modulus's bit length for the coupling
// commitments to stay sound.
func FromCRS(crs CRS) (*Protocol, error) {
	modulus, ok := crs.IC.Group.RSAModulus()
	if !ok {
		return nil, params.ErrInvalidParameters
	}
	if crs.Params.SecuritySoundness+1 >= crs.Params.HashToPrimeBits {
		return nil, params.ErrInvalidParameters
	}
	if uint(crs.Params.SecuritySoundness) >= uint(modulus.BitLen())/2 {
		return nil, params.ErrInvalidParameters
	}
	return &Protocol{crs: crs}, nil
}

func (p *Protocol) g() accgroup.Element   { return p.crs.IC.G }
func (p *Protocol) h() accgroup.Element   { return p.crs.IC.H }
func (p *Protocol) group() accgroup.Group { return p.crs.IC.Group }

// Prove runs the Coprime sigma protocol over vc, sending three messages
// and consuming one challenge, per spec.md §4.2.
func (p *Protocol) Prove(vc *channel.VerifierChannel, rngInt io.Reader, stmt Statement, wit Witness) (*Proof, error) {
	g, h, grp := p.g(), p.h(), p.group()
	orderBound := grp.OrderUpperBound()
	halfOrder := new(big.Int).Rsh(orderBound, 1)

	ra, err := bigint.SampleSymmetric(rngInt, halfOrder)
	if err != nil {
		return nil, err
	}
	raPrime, err := bigint.SampleSymmetric(rngInt, halfOrder)
	if err != nil {
		return nil, err
	}
	rhoBHat, err := bigint.SampleSymmetric(rngInt, halfOrder)
	if err != nil {
		return nil, err
	}
	rhoBHatPrime, err := bigint.SampleSymmetric(rngInt, halfOrder)
	if err != nil {
		return nil, err
	}

	hRa, err := grp.Element().Exp(h, ra)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	ca := grp.Element().Op(wit.D, hRa)

	cra, err := accgroup.Commit(grp, g, h, ra, raPrime)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}

	hRhoBHat, err := grp.Element().Exp(h, rhoBHat)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	accB, err := grp.Element().Exp(stmt.Acc, wit.B)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	cbHat := grp.Element().Op(accB, hRhoBHat)

	cRhoBHat, err := accgroup.Commit(grp, g, h, rhoBHat, rhoBHatPrime)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}

	m1 := Message1{Ca: ca, CRa: cra, CbHat: cbHat, CRhoBHat: cRhoBHat}
	for _, kv := range []struct {
		label string
		e     accgroup.Element
	}{{"c_a", ca}, {"c_r_a", cra}, {"c_b_hat", cbHat}, {"c_rho_b_hat", cRhoBHat}} {
		if err := sendElem(vc, kv.label, kv.e); err != nil {
			return nil, err
		}
	}

	rbe := p.crs.Params.RB()
	rb, err := bigint.SampleSymmetric(rngInt, rbe)
	if err != nil {
		return nil, err
	}
	re, err := bigint.SampleSymmetric(rngInt, rbe)
	if err != nil {
		return nil, err
	}
	rr := p.crs.Params.RR(orderBound)
	rRhoBHat, err := bigint.SampleSymmetric(rngInt, rr)
	if err != nil {
		return nil, err
	}
	rrResp, err := bigint.SampleSymmetric(rngInt, rr)
	if err != nil {
		return nil, err
	}
	rra, err := bigint.SampleSymmetric(rngInt, rr)
	if err != nil {
		return nil, err
	}
	rraPrime, err := bigint.SampleSymmetric(rngInt, rr)
	if err != nil {
		return nil, err
	}
	rRhoBHatPrime, err := bigint.SampleSymmetric(rngInt, rr)
	if err != nil {
		return nil, err
	}
	rbd := p.crs.Params.RBetaDelta(orderBound)
	rbeta, err := bigint.SampleSymmetric(rngInt, rbd)
	if err != nil {
		return nil, err
	}
	rdelta, err := bigint.SampleSymmetric(rngInt, rbd)
	if err != nil {
		return nil, err
	}

	// alpha2 = acc^{r_b} * h^{r_rho_b_hat}, using acc (Ĉ_b's own g-base) as
	// the base for r_b.
	alpha2, err := accgroup.Commit(grp, stmt.Acc, h, rb, rRhoBHat)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	// alpha3 = g^{r_e} * h^{r_r}.
	alpha3, err := accgroup.Commit(grp, g, h, re, rrResp)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	// alpha4 = g^{r_r_a} * h^{r_r_a'}.
	alpha4, err := accgroup.Commit(grp, g, h, rra, rraPrime)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	// alpha5 = c_a^{r_e} * h^{r_beta}.
	alpha5, err := accgroup.Commit(grp, ca, h, re, rbeta)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	// alpha6 = c_r_a^{r_e} * g^{r_beta} * h^{r_delta}.
	craRe, err := grp.Element().Exp(cra, re)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	gBetaHDelta, err := accgroup.Commit(grp, g, h, rbeta, rdelta)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}
	alpha6 := grp.Element().Op(craRe, gBetaHDelta)
	// alpha7 = g^{r_rho_b_hat} * h^{r_rho_b_hat'}.
	alpha7, err := accgroup.Commit(grp, g, h, rRhoBHat, rRhoBHatPrime)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}

	m2 := Message2{Alpha2: alpha2, Alpha3: alpha3, Alpha4: alpha4, Alpha5: alpha5, Alpha6: alpha6, Alpha7: alpha7}
	for _, kv := range []struct {
		label string
		e     accgroup.Element
	}{
		{"alpha2", alpha2}, {"alpha3", alpha3}, {"alpha4", alpha4},
		{"alpha5", alpha5}, {"alpha6", alpha6}, {"alpha7", alpha7},
	} {
		if err := sendElem(vc, kv.label, kv.e); err != nil {
			return nil, err
		}
	}

	c, err := vc.Challenge("c", p.crs.Params.ChallengeBits())
	if err != nil {
		return nil, err
	}

	sb := new(big.Int).Sub(rb, new(big.Int).Mul(c, wit.B))
	se := new(big.Int).Sub(re, new(big.Int).Mul(c, wit.E))
	sRhoBHat := new(big.Int).Sub(rRhoBHat, new(big.Int).Mul(c, rhoBHat))
	sr := new(big.Int).Sub(rrResp, new(big.Int).Mul(c, wit.R))
	sra := new(big.Int).Sub(rra, new(big.Int).Mul(c, ra))
	sraPrime := new(big.Int).Sub(rraPrime, new(big.Int).Mul(c, raPrime))
	sRhoBHatPrime := new(big.Int).Sub(rRhoBHatPrime, new(big.Int).Mul(c, rhoBHatPrime))
	sbeta := new(big.Int).Add(rbeta, new(big.Int).Mul(c, new(big.Int).Add(new(big.Int).Mul(wit.E, ra), rhoBHat)))
	sdelta := new(big.Int).Add(rdelta, new(big.Int).Mul(c, new(big.Int).Add(new(big.Int).Mul(wit.E, raPrime), rhoBHatPrime)))

	m3 := Message3{
		Sb: sb, Se: se, SRhoBHat: sRhoBHat, Sr: sr, Sra: sra,
		Sra2: sraPrime, SRhoBHat2: sRhoBHatPrime, Sbeta: sbeta, Sdelta: sdelta,
	}
	for _, kv := range []struct {
		label string
		v     *big.Int
	}{
		{"s_b", sb}, {"s_e", se}, {"s_rho_b_hat", sRhoBHat}, {"s_r", sr},
		{"s_r_a", sra}, {"s_r_a2", sraPrime}, {"s_rho_b_hat2", sRhoBHatPrime},
		{"s_beta", sbeta}, {"s_delta", sdelta},
	} {
		if err := vc.Send(kv.label, bigint.ToSignedBytes(kv.v)); err != nil {
			return nil, err
		}
	}

	return &Proof{M1: m1, M2: m2, M3: m3}, nil
}

// Verify replays the Coprime proof over pc and checks all six verification
// equations plus the s_e range bound (spec.md §4.2, §8.4).
func (p *Protocol) Verify(pc *channel.ProverChannel, stmt Statement, proof *Proof) error {
	grp := p.group()
	g, h := p.g(), p.h()

	for _, kv := range []struct {
		label string
		e     accgroup.Element
	}{
		{"c_a", proof.M1.Ca}, {"c_r_a", proof.M1.CRa},
		{"c_b_hat", proof.M1.CbHat}, {"c_rho_b_hat", proof.M1.CRhoBHat},
	} {
		if err := sendElem(pc, kv.label, kv.e); err != nil {
			return err
		}
	}
	for _, kv := range []struct {
		label string
		e     accgroup.Element
	}{
		{"alpha2", proof.M2.Alpha2}, {"alpha3", proof.M2.Alpha3}, {"alpha4", proof.M2.Alpha4},
		{"alpha5", proof.M2.Alpha5}, {"alpha6", proof.M2.Alpha6}, {"alpha7", proof.M2.Alpha7},
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
		{"s_b", proof.M3.Sb}, {"s_e", proof.M3.Se}, {"s_rho_b_hat", proof.M3.SRhoBHat},
		{"s_r", proof.M3.Sr}, {"s_r_a", proof.M3.Sra}, {"s_r_a2", proof.M3.Sra2},
		{"s_rho_b_hat2", proof.M3.SRhoBHat2}, {"s_beta", proof.M3.Sbeta}, {"s_delta", proof.M3.Sdelta},
	} {
		if err := pc.Receive(kv.label, bigint.ToSignedBytes(kv.v)); err != nil {
			return err
		}
	}

	bound := p.crs.Params.SRangeBound()
	if new(big.Int).Abs(proof.M3.Se).Cmp(bound) > 0 {
		return ErrVerificationFailed
	}

	// alpha2 =? Ĉ_b^c * acc^{s_b} * h^{s_rho_b_hat}
	cbHatC, err := grp.Element().Exp(proof.M1.CbHat, c)
	if err != nil {
		return ErrVerificationFailed
	}
	accSbHRhoBHat, err := accgroup.Commit(grp, stmt.Acc, h, proof.M3.Sb, proof.M3.SRhoBHat)
	if err != nil {
		return ErrVerificationFailed
	}
	if !grp.Element().Op(cbHatC, accSbHRhoBHat).IsEqual(proof.M2.Alpha2) {
		return ErrVerificationFailed
	}

	// alpha3 =? Ce^c * g^{s_e} * h^{s_r}
	ceC, err := grp.Element().Exp(stmt.Ce, c)
	if err != nil {
		return ErrVerificationFailed
	}
	gSeHSr, err := accgroup.Commit(grp, g, h, proof.M3.Se, proof.M3.Sr)
	if err != nil {
		return ErrVerificationFailed
	}
	if !grp.Element().Op(ceC, gSeHSr).IsEqual(proof.M2.Alpha3) {
		return ErrVerificationFailed
	}

	// alpha4 =? c_r_a^c * g^{s_r_a} * h^{s_r_a2}
	craC, err := grp.Element().Exp(proof.M1.CRa, c)
	if err != nil {
		return ErrVerificationFailed
	}
	gSraHSra2, err := accgroup.Commit(grp, g, h, proof.M3.Sra, proof.M3.Sra2)
	if err != nil {
		return ErrVerificationFailed
	}
	if !grp.Element().Op(craC, gSraHSra2).IsEqual(proof.M2.Alpha4) {
		return ErrVerificationFailed
	}

	// alpha5 =? c_a^{s_e} * Ĉ_b^{-c} * g^c * h^{s_beta}
	caSe, err := grp.Element().Exp(proof.M1.Ca, proof.M3.Se)
	if err != nil {
		return ErrVerificationFailed
	}
	cbHatNegC, err := grp.Element().Exp(proof.M1.CbHat, new(big.Int).Neg(c))
	if err != nil {
		return ErrVerificationFailed
	}
	gCHSbeta, err := accgroup.Commit(grp, g, h, c, proof.M3.Sbeta)
	if err != nil {
		return ErrVerificationFailed
	}
	rhs5 := grp.Element().Op(grp.Element().Op(caSe, cbHatNegC), gCHSbeta)
	if !rhs5.IsEqual(proof.M2.Alpha5) {
		return ErrVerificationFailed
	}

	// alpha6 =? c_r_a^{s_e} * C_{rho_b_hat}^{-c} * g^{s_beta} * h^{s_delta}
	craSe, err := grp.Element().Exp(proof.M1.CRa, proof.M3.Se)
	if err != nil {
		return ErrVerificationFailed
	}
	cRhoBHatNegC, err := grp.Element().Exp(proof.M1.CRhoBHat, new(big.Int).Neg(c))
	if err != nil {
		return ErrVerificationFailed
	}
	gSbetaHSdelta, err := accgroup.Commit(grp, g, h, proof.M3.Sbeta, proof.M3.Sdelta)
	if err != nil {
		return ErrVerificationFailed
	}
	rhs6 := grp.Element().Op(grp.Element().Op(craSe, cRhoBHatNegC), gSbetaHSdelta)
	if !rhs6.IsEqual(proof.M2.Alpha6) {
		return ErrVerificationFailed
	}

	// alpha7 =? C_{rho_b_hat}^c * g^{s_rho_b_hat} * h^{s_rho_b_hat2}
	cRhoBHatC, err := grp.Element().Exp(proof.M1.CRhoBHat, c)
	if err != nil {
		return ErrVerificationFailed
	}
	gSRhoBHatHSRhoBHat2, err := accgroup.Commit(grp, g, h, proof.M3.SRhoBHat, proof.M3.SRhoBHat2)
	if err != nil {
		return ErrVerificationFailed
	}
	if !grp.Element().Op(cRhoBHatC, gSRhoBHatHSRhoBHat2).IsEqual(proof.M2.Alpha7) {
		return ErrVerificationFailed
	}

	return nil
}

func sendElem(c *channel.Channel, label string, e accgroup.Element) error {
	return c.Send(label, bigint.ToBytes(e.Int()))
}
