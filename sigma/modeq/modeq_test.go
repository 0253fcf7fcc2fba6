package modeq

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/takakv/cpsnarks-set/accgroup"
	"github.com/takakv/cpsnarks-set/bigint"
	"github.com/takakv/cpsnarks-set/channel"
	"github.com/takakv/cpsnarks-set/commitment"
	"github.com/takakv/cpsnarks-set/curve"
	"github.com/takakv/cpsnarks-set/params"
	"github.com/takakv/cpsnarks-set/transcript"
)

func setupCRS(t *testing.T) CRS {
	t.Helper()
	p, err := params.FromSecurityLevel(128)
	require.NoError(t, err)

	n, err := accgroup.GenerateRSAModulus(rand.Reader, 512)
	require.NoError(t, err)
	grp := accgroup.NewRSAGroup(n)
	ic, err := commitment.SetupIntegerParams(rand.Reader, grp)
	require.NoError(t, err)

	crv := curve.Ristretto255()
	ped := commitment.SetupPedersenParams(crv)

	return CRS{Params: p, IC: ic, Pedersen: ped}
}

func TestModEqProveVerify(t *testing.T) {
	crs := setupCRS(t)
	proto, err := FromCRS(crs)
	require.NoError(t, err)

	e := big.NewInt(424242)
	r := big.NewInt(-987)
	q := crs.Pedersen.Group.N()
	rq := bigint.EuclideanMod(big.NewInt(555), q)
	eModQ := bigint.EuclideanMod(e, q)

	ce, err := crs.IC.Commit(e, r)
	require.NoError(t, err)
	ceQ := crs.Pedersen.Commit(eModQ, rq)

	stmt := Statement{Ce: ce, CeQ: ceQ}
	wit := Witness{E: e, R: r, RQ: rq}

	proveTr := transcript.New("modeq")
	proof, err := proto.Prove(channel.New(proveTr, "modeq"), rand.Reader, rand.Reader, stmt, wit)
	require.NoError(t, err)

	verifyTr := transcript.New("modeq")
	err = proto.Verify(channel.New(verifyTr, "modeq"), stmt, proof)
	require.NoError(t, err)
}

func TestModEqRejectsTamperedResponse(t *testing.T) {
	crs := setupCRS(t)
	proto, err := FromCRS(crs)
	require.NoError(t, err)

	e := big.NewInt(77)
	r := big.NewInt(11)
	q := crs.Pedersen.Group.N()
	rq := bigint.EuclideanMod(big.NewInt(3), q)
	eModQ := bigint.EuclideanMod(e, q)

	ce, err := crs.IC.Commit(e, r)
	require.NoError(t, err)
	ceQ := crs.Pedersen.Commit(eModQ, rq)

	stmt := Statement{Ce: ce, CeQ: ceQ}
	wit := Witness{E: e, R: r, RQ: rq}

	tr := transcript.New("modeq")
	proof, err := proto.Prove(channel.New(tr, "modeq"), rand.Reader, rand.Reader, stmt, wit)
	require.NoError(t, err)

	proof.M2.Se.Add(proof.M2.Se, big.NewInt(1))

	verifyTr := transcript.New("modeq")
	err = proto.Verify(channel.New(verifyTr, "modeq"), stmt, proof)
	require.ErrorIs(t, err, ErrVerificationFailed)
}

func TestFromCRSRejectsNarrowFieldBudget(t *testing.T) {
	crs := setupCRS(t)
	narrow := *crs.Params
	narrow.FieldSizeBits = 4
	crs.Params = &narrow

	_, err := FromCRS(crs)
	require.ErrorIs(t, err, params.ErrInvalidParameters)
}
