package hashtoprime

import (
	"errors"
	"io"
	"math/big"

	"github.com/takakv/cpsnarks-set/algebra"
	"github.com/takakv/cpsnarks-set/bulletproofs"
	"github.com/takakv/cpsnarks-set/channel"
	"github.com/takakv/cpsnarks-set/params"
)

// ErrUnsupportedRangeWidth is returned by NewRangeOnly when mu-1 (the bit
// width of the asserted range [2^{mu-1}, 2^mu)) is not a power of two -
// the only widths the underlying Bulletproofs range-proof engine
// (package bulletproofs, ported from zkrp) supports. This variant is
// meant to pair with params.FromCurveAndSmallPrimeSize's small-mu search
// rather than params.FromSecurityLevel's large mu.
var ErrUnsupportedRangeWidth = errors.New("hashtoprime: hash-to-prime-bits-1 is not a supported bulletproofs range width")

// RangeOnly is the hashtoprime.Protocol variant where hash_to_prime is the
// identity (spec.md §4.4): e' = e, and a Bulletproofs range proof shows
// that the value in its own commitment V lies in [0, 2^{mu-1}), i.e. that
// the e the prover shifted by 2^{mu-1} lies in [2^{mu-1}, 2^mu).
//
// The range proof runs over its own algebra.Group instance - structurally
// a different concrete group than the curve.Group backing C_e_q, since
// the bulletproofs package (adapted from zkrp) only derives its
// generators correctly over a P256-shaped group (see DESIGN.md). The
// proof also carries a Schnorr proof of knowledge of an opening of C_e_q.
// Nothing links V to C_e_q: the verifier does not check that the value
// C_e_q opens to is the value the range proof covers.
type RangeOnly struct {
	crs   CRS
	group algebra.Group
	bp    bulletproofs.BulletProofSetupParams
	width int64
}

// RangeProof bundles the opening proof of C_e_q with the Bulletproofs
// range proof over the shifted witness value.
type RangeProof struct {
	Opening     *openingProof
	Bulletproof bulletproofs.BulletProof
}

func (*RangeProof) isHashToPrimeProof() {}

// NewRangeOnly builds the RangeOnly variant's setup output (spec.md
// §4.4's setup(rng, pedersen, params)) over algebraGroup.
func NewRangeOnly(crs CRS, algebraGroup algebra.Group) (*RangeOnly, error) {
	if crs.Params.HashToPrimeBits < 1 {
		return nil, params.ErrInvalidParameters
	}
	width := int64(crs.Params.HashToPrimeBits - 1)
	if !bulletproofs.IsPowerOfTwo(width) {
		return nil, ErrUnsupportedRangeWidth
	}
	bp, err := bulletproofs.Setup(int64(1)<<uint(width), algebraGroup)
	if err != nil {
		return nil, err
	}
	return &RangeOnly{crs: crs, group: algebraGroup, bp: bp, width: width}, nil
}

// HashToPrime is the identity map for this variant (spec.md §4.4).
func (r *RangeOnly) HashToPrime(e *big.Int) (*big.Int, uint64, error) {
	return new(big.Int).Set(e), 0, nil
}

func (r *RangeOnly) lowerBound() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(r.width))
}

// Prove runs the range-only inner proof over vc (spec.md §4.4).
func (r *RangeOnly) Prove(vc *channel.VerifierChannel, rng io.Reader, stmt Statement, wit Witness) (Proof, error) {
	q := r.crs.Pedersen.Group.N()
	eModQ := new(big.Int).Mod(wit.E, q)

	opening, err := proveOpening(vc, rng, r.crs.Pedersen, r.crs.Params.ChallengeBits(), eModQ, wit.RQ)
	if err != nil {
		return nil, err
	}

	shifted := new(big.Int).Sub(wit.E, r.lowerBound())
	if shifted.Sign() < 0 || shifted.BitLen() > int(r.width) {
		return nil, ErrCouldNotCreateProof
	}

	bp, _, err := bulletproofs.Prove(shifted, r.bp)
	if err != nil {
		return nil, ErrCouldNotCreateProof
	}

	for _, kv := range []struct {
		label string
		e     algebra.Element
	}{{"bp_v", bp.V}, {"bp_a", bp.A}, {"bp_s", bp.S}, {"bp_t1", bp.T1}, {"bp_t2", bp.T2}} {
		if err := vc.Send(kv.label, []byte(kv.e.String())); err != nil {
			return nil, err
		}
	}
	if err := vc.Send("bp_taux", bp.Taux.Bytes()); err != nil {
		return nil, err
	}
	if err := vc.Send("bp_mu", bp.Mu.Bytes()); err != nil {
		return nil, err
	}
	if err := vc.Send("bp_tprime", bp.Tprime.Bytes()); err != nil {
		return nil, err
	}

	return &RangeProof{Opening: opening, Bulletproof: bp}, nil
}

// Verify replays the range-only proof over pc (spec.md §4.4).
func (r *RangeOnly) Verify(pc *channel.ProverChannel, stmt Statement, proof Proof) error {
	rp, ok := proof.(*RangeProof)
	if !ok {
		return ErrVerificationFailed
	}

	if err := verifyOpening(pc, r.crs.Pedersen, r.crs.Params.ChallengeBits(), stmt.CeQ, rp.Opening); err != nil {
		return err
	}

	bp := rp.Bulletproof
	for _, kv := range []struct {
		label string
		e     algebra.Element
	}{{"bp_v", bp.V}, {"bp_a", bp.A}, {"bp_s", bp.S}, {"bp_t1", bp.T1}, {"bp_t2", bp.T2}} {
		if err := pc.Receive(kv.label, []byte(kv.e.String())); err != nil {
			return err
		}
	}
	if err := pc.Receive("bp_taux", bp.Taux.Bytes()); err != nil {
		return err
	}
	if err := pc.Receive("bp_mu", bp.Mu.Bytes()); err != nil {
		return err
	}
	if err := pc.Receive("bp_tprime", bp.Tprime.Bytes()); err != nil {
		return err
	}

	if bp.Params.N != r.width {
		return ErrVerificationFailed
	}

	ok, err := (&bp).Verify()
	if err != nil || !ok {
		return ErrVerificationFailed
	}
	return nil
}
