package root

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

func TestRootProveVerify(t *testing.T) {
	crs, grp := setupCRS(t)
	proto := FromCRS(crs)

	e := big.NewInt(12345)
	r, err := rand.Int(rand.Reader, grp.OrderUpperBound())
	require.NoError(t, err)

	w, err := grp.Random(rand.Reader)
	require.NoError(t, err)
	acc, err := grp.Element().Exp(w, e)
	require.NoError(t, err)

	ce, err := crs.IC.Commit(e, r)
	require.NoError(t, err)

	stmt := Statement{Ce: ce, Acc: acc}
	wit := Witness{E: e, R: r, W: w}

	proveTr := transcript.New("root")
	proof, err := proto.Prove(channel.New(proveTr, "root"), rand.Reader, stmt, wit)
	require.NoError(t, err)

	verifyTr := transcript.New("root")
	err = proto.Verify(channel.New(verifyTr, "root"), stmt, proof)
	require.NoError(t, err)
}

func TestRootRejectsTamperedResponse(t *testing.T) {
	crs, grp := setupCRS(t)
	proto := FromCRS(crs)

	e := big.NewInt(999)
	r, err := rand.Int(rand.Reader, grp.OrderUpperBound())
	require.NoError(t, err)
	w, err := grp.Random(rand.Reader)
	require.NoError(t, err)
	acc, err := grp.Element().Exp(w, e)
	require.NoError(t, err)
	ce, err := crs.IC.Commit(e, r)
	require.NoError(t, err)

	stmt := Statement{Ce: ce, Acc: acc}
	wit := Witness{E: e, R: r, W: w}

	tr := transcript.New("root")
	proof, err := proto.Prove(channel.New(tr, "root"), rand.Reader, stmt, wit)
	require.NoError(t, err)

	proof.M3.Se.Add(proof.M3.Se, big.NewInt(1))

	verifyTr := transcript.New("root")
	err = proto.Verify(channel.New(verifyTr, "root"), stmt, proof)
	require.ErrorIs(t, err, ErrVerificationFailed)
}
