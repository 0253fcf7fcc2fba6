package nonmembership

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/takakv/cpsnarks-set/accgroup"
	"github.com/takakv/cpsnarks-set/curve"
	"github.com/takakv/cpsnarks-set/hashtoprime"
	"github.com/takakv/cpsnarks-set/params"
	"github.com/takakv/cpsnarks-set/transcript"
)

func setupCRS(t *testing.T) (*CRS, accgroup.Group) {
	t.Helper()
	p := &params.Parameters{
		SecurityLevel:     10,
		SecurityZK:        3,
		SecuritySoundness: 3,
		HashToPrimeBits:   17,
		FieldSizeBits:     256,
	}
	require.NoError(t, p.Validate())

	n, err := accgroup.GenerateRSAModulus(rand.Reader, 512)
	require.NoError(t, err)
	grp := accgroup.NewRSAGroup(n)

	crs, err := Setup(p, rand.Reader, grp, curve.Ristretto255(), func(h2pCRS hashtoprime.CRS) (hashtoprime.Protocol, error) {
		return hashtoprime.NewBlake2sHash(h2pCRS, 8), nil
	})
	require.NoError(t, err)
	return crs, grp
}

// bezoutWitness builds a coprime witness the way a non-membership oracle
// would: acc = g^u for an accumulated-set exponent u, e' coprime to u,
// and (d, b) from the extended Euclidean algorithm on (e', u).
func bezoutWitness(t *testing.T, grp accgroup.Group, g accgroup.Element, u, ePrime *big.Int) (acc, d accgroup.Element, b *big.Int) {
	t.Helper()
	acc, err := grp.Element().Exp(g, u)
	require.NoError(t, err)

	gcd := new(big.Int)
	alpha := new(big.Int)
	beta := new(big.Int)
	gcd.GCD(alpha, beta, ePrime, u)
	require.Equal(t, 0, gcd.Cmp(big.NewInt(1)), "e' must be coprime to u")

	d, err = grp.Element().Exp(g, alpha)
	require.NoError(t, err)
	return acc, d, beta
}

func TestNonMembershipProveVerify(t *testing.T) {
	crs, grp := setupCRS(t)
	proto, err := FromCRS(*crs)
	require.NoError(t, err)

	e := big.NewInt(200)
	ePrime, _, err := crs.H2P.HashToPrime(e)
	require.NoError(t, err)

	u := big.NewInt(2 * 3 * 5 * 7 * 11 * 13)
	acc, d, b := bezoutWitness(t, grp, crs.IC.G, u, ePrime)

	q := crs.Pedersen.Group.N()
	rq := big.NewInt(9)
	ePrimeModQ := new(big.Int).Mod(ePrime, q)
	ceQ := crs.Pedersen.Commit(ePrimeModQ, rq)

	stmt := Statement{Acc: acc, CeQ: ceQ}
	wit := Witness{E: e, RQ: rq, D: d, B: b}

	proveTr := transcript.New("nonmembership")
	proof, err := proto.Prove(proveTr, rand.Reader, rand.Reader, stmt, wit)
	require.NoError(t, err)

	verifyTr := transcript.New("nonmembership")
	err = proto.Verify(verifyTr, stmt, proof)
	require.NoError(t, err)
}

func TestNonMembershipRejectsTamperedCe(t *testing.T) {
	crs, grp := setupCRS(t)
	proto, err := FromCRS(*crs)
	require.NoError(t, err)

	e := big.NewInt(200)
	ePrime, _, err := crs.H2P.HashToPrime(e)
	require.NoError(t, err)

	u := big.NewInt(2 * 3 * 5 * 7 * 11 * 13)
	acc, d, b := bezoutWitness(t, grp, crs.IC.G, u, ePrime)

	q := crs.Pedersen.Group.N()
	rq := big.NewInt(9)
	ePrimeModQ := new(big.Int).Mod(ePrime, q)
	ceQ := crs.Pedersen.Commit(ePrimeModQ, rq)

	stmt := Statement{Acc: acc, CeQ: ceQ}
	wit := Witness{E: e, RQ: rq, D: d, B: b}

	tr := transcript.New("nonmembership")
	proof, err := proto.Prove(tr, rand.Reader, rand.Reader, stmt, wit)
	require.NoError(t, err)

	other, err := grp.Random(rand.Reader)
	require.NoError(t, err)
	proof.Ce = other

	verifyTr := transcript.New("nonmembership")
	err = proto.Verify(verifyTr, stmt, proof)
	require.ErrorIs(t, err, ErrVerificationFailed)
}
