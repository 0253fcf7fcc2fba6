package hashtoprime

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/takakv/cpsnarks-set/channel"
	"github.com/takakv/cpsnarks-set/commitment"
	"github.com/takakv/cpsnarks-set/curve"
	"github.com/takakv/cpsnarks-set/params"
	"github.com/takakv/cpsnarks-set/transcript"
)

func blake2sCRS(t *testing.T) CRS {
	t.Helper()
	p := &params.Parameters{
		SecurityLevel:     10,
		SecurityZK:        3,
		SecuritySoundness: 3,
		HashToPrimeBits:   17,
		FieldSizeBits:     40,
	}
	require.NoError(t, p.Validate())

	ped := commitment.SetupPedersenParams(curve.Ristretto255())
	return CRS{Params: p, Pedersen: ped}
}

func TestBlake2sHashToPrimeDeterministic(t *testing.T) {
	crs := blake2sCRS(t)
	h := NewBlake2sHash(crs, 8)

	e := big.NewInt(200)
	p1, i1, err := h.HashToPrime(e)
	require.NoError(t, err)
	p2, i2, err := h.HashToPrime(e)
	require.NoError(t, err)

	require.Equal(t, i1, i2)
	require.Zero(t, p1.Cmp(p2))
	require.True(t, p1.ProbablyPrime(20))
	require.Equal(t, int(crs.Params.HashToPrimeBits), p1.BitLen())
}

func TestBlake2sHashToPrimeRejectsOversizedValue(t *testing.T) {
	crs := blake2sCRS(t)
	h := NewBlake2sHash(crs, 8)

	e := big.NewInt(1000) // exceeds 8 bits
	_, _, err := h.HashToPrime(e)
	require.ErrorIs(t, err, ErrValueTooBig)
}

func TestBlake2sProveVerify(t *testing.T) {
	crs := blake2sCRS(t)
	h := NewBlake2sHash(crs, 8)

	e := big.NewInt(200)
	ePrime, _, err := h.HashToPrime(e)
	require.NoError(t, err)

	q := crs.Pedersen.Group.N()
	rq := big.NewInt(42)
	ePrimeModQ := new(big.Int).Mod(ePrime, q)
	ceQ := crs.Pedersen.Commit(ePrimeModQ, rq)

	stmt := Statement{CeQ: ceQ}
	wit := Witness{E: e, RQ: rq}

	proveTr := transcript.New("hash_to_prime")
	proof, err := h.Prove(channel.New(proveTr, "hash_to_prime"), rand.Reader, stmt, wit)
	require.NoError(t, err)

	verifyTr := transcript.New("hash_to_prime")
	err = h.Verify(channel.New(verifyTr, "hash_to_prime"), stmt, proof)
	require.NoError(t, err)
}
