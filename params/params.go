// Package params derives and validates the security parameters that size
// every blinding range and challenge length in the proof system, following
// spec.md §3/§4.8 and the CP-SNARK paper's §4.5 validity inequality.
package params

import (
	"errors"
	"math/big"
)

// ErrInvalidParameters is returned whenever the validity inequality
// d*mu + 2 <= nu fails, or a coprime CRS admission check rejects the
// parameters (spec.md §7).
var ErrInvalidParameters = errors.New("params: invalid security parameters")

// Parameters are immutable once constructed: security level, zero-knowledge
// and soundness slack, hash-to-prime range width, and target field size,
// all in bits.
type Parameters struct {
	SecurityLevel     uint
	SecurityZK        uint
	SecuritySoundness uint
	HashToPrimeBits   uint
	FieldSizeBits     uint
}

// d is the "divisor count" from the eprint §4.5 inequality, matching the
// original source's is_valid (parameters.rs): d = 1 + (lambda_z +
// lambda_s + 2) / mu, using integer (floor) division, not ceiling.
func d(p *Parameters) uint64 {
	num := uint64(p.SecurityZK) + uint64(p.SecuritySoundness) + 2
	mu := uint64(p.HashToPrimeBits)
	return 1 + num/mu
}

// Validate checks d*mu + 2 <= nu.
func (p *Parameters) Validate() error {
	if p.HashToPrimeBits == 0 {
		return ErrInvalidParameters
	}
	lhs := d(p)*uint64(p.HashToPrimeBits) + 2
	if lhs > uint64(p.FieldSizeBits) {
		return ErrInvalidParameters
	}
	return nil
}

// FromSecurityLevel derives parameters from a single security level lambda,
// per spec.md §3: lambda_z = lambda-3, lambda_s = lambda-2, nu = 2*lambda,
// mu = 2*lambda-2.
func FromSecurityLevel(lambda uint) (*Parameters, error) {
	if lambda < 4 {
		return nil, ErrInvalidParameters
	}
	p := &Parameters{
		SecurityLevel:     lambda,
		SecurityZK:        lambda - 3,
		SecuritySoundness: lambda - 2,
		FieldSizeBits:     2 * lambda,
		HashToPrimeBits:   2*lambda - 2,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// FromCurve derives parameters from a target field's bit size: nu is given,
// lambda = nu/2, and the rest follow as in FromSecurityLevel.
func FromCurve(fieldSizeBits uint) (*Parameters, error) {
	lambda := fieldSizeBits / 2
	if lambda < 4 {
		return nil, ErrInvalidParameters
	}
	p := &Parameters{
		SecurityLevel:     lambda,
		SecurityZK:        lambda - 3,
		SecuritySoundness: lambda - 2,
		FieldSizeBits:     fieldSizeBits,
		HashToPrimeBits:   2*lambda - 2,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// FromCurveAndSmallPrimeSize derives parameters from a target field's bit
// size, searching muMin..muMax for the smallest hash-to-prime width that
// still satisfies the validity inequality with the given safety margin
// subtracted from the field size budget (spec.md §3's "small prime"
// variant). lambda, lambda_z and lambda_s are fixed by the field as in
// FromCurve; only mu is searched.
func FromCurveAndSmallPrimeSize(fieldSizeBits, muMin, muMax, margin uint) (*Parameters, error) {
	lambda := fieldSizeBits / 2
	if lambda < 4 {
		return nil, ErrInvalidParameters
	}
	for mu := muMin; mu <= muMax; mu++ {
		p := &Parameters{
			SecurityLevel:     lambda,
			SecurityZK:        lambda - 3,
			SecuritySoundness: lambda - 2,
			FieldSizeBits:     fieldSizeBits - margin,
			HashToPrimeBits:   mu,
		}
		if err := p.Validate(); err == nil {
			p.FieldSizeBits = fieldSizeBits
			return p, nil
		}
	}
	return nil, ErrInvalidParameters
}

// RE returns R_e = 2^(lambda_z+lambda_s+mu), the symmetric blinding bound
// for the e-response in Root/ModEq.
func (p *Parameters) RE() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), p.SecurityZK+p.SecuritySoundness+p.HashToPrimeBits)
}

// RR returns R_r = floor(orderUpperBound/2) * 2^(lambda_z+lambda_s).
func (p *Parameters) RR(orderUpperBound *big.Int) *big.Int {
	half := new(big.Int).Rsh(orderUpperBound, 1)
	return half.Lsh(half, p.SecurityZK+p.SecuritySoundness)
}

// RBetaDelta returns R_{beta,delta} = floor(orderUpperBound/2) *
// 2^(lambda_z+lambda_s+mu).
func (p *Parameters) RBetaDelta(orderUpperBound *big.Int) *big.Int {
	half := new(big.Int).Rsh(orderUpperBound, 1)
	return half.Lsh(half, p.SecurityZK+p.SecuritySoundness+p.HashToPrimeBits)
}

// RB returns R_{b_e}, the coprime sub-protocol's blinding bound for b; it
// shares Root's R_e formula (spec.md §3).
func (p *Parameters) RB() *big.Int {
	return p.RE()
}

// ChallengeBits returns lambda_s, the bit length of every Fiat-Shamir
// challenge drawn in this system (spec.md §4.7, §8.3).
func (p *Parameters) ChallengeBits() uint {
	return p.SecuritySoundness
}

// SRangeBound returns the maximum absolute value an honestly generated
// s_e may take, 2^(lambda_z+lambda_s+mu+1): tampered responses outside
// this bound must be rejected (spec.md §8.4).
func (p *Parameters) SRangeBound() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), p.SecurityZK+p.SecuritySoundness+p.HashToPrimeBits+1)
}
