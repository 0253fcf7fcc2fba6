package coprime

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/takakv/cpsnarks-set/accgroup"
	"github.com/takakv/cpsnarks-set/channel"
	"github.com/takakv/cpsnarks-set/commitment"
	"github.com/takakv/cpsnarks-set/params"
	"github.com/takakv/cpsnarks-set/transcript"
)

func setupCRS(t *testing.T) (CRS, accgroup.Group) {
	t.Helper()
	p, err := params.FromSecurityLevel(80)
	require.NoError(t, err)

	n, err := accgroup.GenerateRSAModulus(rand.Reader, 512)
	require.NoError(t, err)
	grp := accgroup.NewRSAGroup(n)

	ic, err := commitment.SetupIntegerParams(rand.Reader, grp)
	require.NoError(t, err)

	return CRS{Params: p, IC: ic}, grp
}

// bezoutWitness builds a coprime witness the way a non-membership oracle
// would: acc = g^u for an accumulated-set exponent u, e coprime to u, and
// (d, b) from the extended Euclidean algorithm on (e, u).
func bezoutWitness(t *testing.T, grp accgroup.Group, g accgroup.Element, u, e *big.Int) (acc, d accgroup.Element, b *big.Int) {
	t.Helper()
	acc, err := grp.Element().Exp(g, u)
	require.NoError(t, err)

	gcd := new(big.Int)
	alpha := new(big.Int)
	beta := new(big.Int)
	gcd.GCD(alpha, beta, e, u)
	require.Equal(t, 0, gcd.Cmp(big.NewInt(1)), "e must be coprime to u")

	d, err = grp.Element().Exp(g, alpha)
	require.NoError(t, err)
	return acc, d, beta
}

func TestCoprimeProveVerify(t *testing.T) {
	crs, grp := setupCRS(t)
	proto, err := FromCRS(crs)
	require.NoError(t, err)

	u := big.NewInt(2 * 3 * 5 * 7 * 11 * 13)
	e := big.NewInt(17)
	acc, d, b := bezoutWitness(t, grp, crs.IC.G, u, e)

	r, err := rand.Int(rand.Reader, grp.OrderUpperBound())
	require.NoError(t, err)
	ce, err := crs.IC.Commit(e, r)
	require.NoError(t, err)

	stmt := Statement{Ce: ce, Acc: acc}
	wit := Witness{E: e, R: r, B: b, D: d}

	proveTr := transcript.New("coprime")
	proof, err := proto.Prove(channel.New(proveTr, "coprime"), rand.Reader, stmt, wit)
	require.NoError(t, err)

	verifyTr := transcript.New("coprime")
	err = proto.Verify(channel.New(verifyTr, "coprime"), stmt, proof)
	require.NoError(t, err)
}

func TestCoprimeRejectsTamperedResponse(t *testing.T) {
	crs, grp := setupCRS(t)
	proto, err := FromCRS(crs)
	require.NoError(t, err)

	u := big.NewInt(2 * 3 * 5 * 7 * 11)
	e := big.NewInt(23)
	acc, d, b := bezoutWitness(t, grp, crs.IC.G, u, e)

	r, err := rand.Int(rand.Reader, grp.OrderUpperBound())
	require.NoError(t, err)
	ce, err := crs.IC.Commit(e, r)
	require.NoError(t, err)

	stmt := Statement{Ce: ce, Acc: acc}
	wit := Witness{E: e, R: r, B: b, D: d}

	tr := transcript.New("coprime")
	proof, err := proto.Prove(channel.New(tr, "coprime"), rand.Reader, stmt, wit)
	require.NoError(t, err)

	proof.M3.Sb.Add(proof.M3.Sb, big.NewInt(1))

	verifyTr := transcript.New("coprime")
	err = proto.Verify(channel.New(verifyTr, "coprime"), stmt, proof)
	require.ErrorIs(t, err, ErrVerificationFailed)
}

func TestCoprimeFromCRSRejectsTightParameters(t *testing.T) {
	crs, _ := setupCRS(t)
	tight := *crs.Params
	tight.HashToPrimeBits = tight.SecuritySoundness + 1
	crs.Params = &tight

	_, err := FromCRS(crs)
	require.ErrorIs(t, err, params.ErrInvalidParameters)
}
