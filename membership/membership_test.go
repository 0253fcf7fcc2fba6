package membership

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

func TestMembershipProveVerify(t *testing.T) {
	crs, grp := setupCRS(t)
	proto, err := FromCRS(*crs)
	require.NoError(t, err)

	e := big.NewInt(200)
	ePrime, _, err := crs.H2P.HashToPrime(e)
	require.NoError(t, err)

	w, err := grp.Random(rand.Reader)
	require.NoError(t, err)
	acc, err := grp.Element().Exp(w, ePrime)
	require.NoError(t, err)

	q := crs.Pedersen.Group.N()
	rq := big.NewInt(7)
	ePrimeModQ := new(big.Int).Mod(ePrime, q)
	ceQ := crs.Pedersen.Commit(ePrimeModQ, rq)

	stmt := Statement{Acc: acc, CeQ: ceQ}
	wit := Witness{E: e, RQ: rq, W: w}

	proveTr := transcript.New("membership")
	proof, err := proto.Prove(proveTr, rand.Reader, rand.Reader, stmt, wit)
	require.NoError(t, err)

	verifyTr := transcript.New("membership")
	err = proto.Verify(verifyTr, stmt, proof)
	require.NoError(t, err)
}

func TestMembershipRejectsTamperedCe(t *testing.T) {
	crs, grp := setupCRS(t)
	proto, err := FromCRS(*crs)
	require.NoError(t, err)

	e := big.NewInt(200)
	ePrime, _, err := crs.H2P.HashToPrime(e)
	require.NoError(t, err)

	w, err := grp.Random(rand.Reader)
	require.NoError(t, err)
	acc, err := grp.Element().Exp(w, ePrime)
	require.NoError(t, err)

	q := crs.Pedersen.Group.N()
	rq := big.NewInt(7)
	ePrimeModQ := new(big.Int).Mod(ePrime, q)
	ceQ := crs.Pedersen.Commit(ePrimeModQ, rq)

	stmt := Statement{Acc: acc, CeQ: ceQ}
	wit := Witness{E: e, RQ: rq, W: w}

	tr := transcript.New("membership")
	proof, err := proto.Prove(tr, rand.Reader, rand.Reader, stmt, wit)
	require.NoError(t, err)

	other, err := grp.Random(rand.Reader)
	require.NoError(t, err)
	proof.Ce = other

	verifyTr := transcript.New("membership")
	err = proto.Verify(verifyTr, stmt, proof)
	require.ErrorIs(t, err, ErrVerificationFailed)
}
