package accumulator

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/takakv/cpsnarks-set/accgroup"
)

func testGroup(t *testing.T) accgroup.Group {
	t.Helper()
	n, err := accgroup.GenerateRSAModulus(rand.Reader, 512)
	require.NoError(t, err)
	return accgroup.NewRSAGroup(n)
}

func TestAddWithProofWitnessSatisfiesRootEquation(t *testing.T) {
	grp := testGroup(t)
	acc, err := Empty(grp, rand.Reader)
	require.NoError(t, err)

	e := big.NewInt(17)
	w, err := acc.AddWithProof(e)
	require.NoError(t, err)

	check, err := grp.Element().Exp(w, e)
	require.NoError(t, err)
	require.True(t, check.IsEqual(acc.Value()))
}

func TestAddRejectsDuplicate(t *testing.T) {
	grp := testGroup(t)
	acc, err := Empty(grp, rand.Reader)
	require.NoError(t, err)

	e := big.NewInt(17)
	require.NoError(t, acc.Add(e))
	require.ErrorIs(t, acc.Add(e), ErrAlreadyAccumulated)
}

func TestMembershipWitnessMatchesAddWithProof(t *testing.T) {
	grp := testGroup(t)
	acc, err := Empty(grp, rand.Reader)
	require.NoError(t, err)

	e1 := big.NewInt(17)
	e2 := big.NewInt(19)
	require.NoError(t, acc.Add(e2))
	w1, err := acc.AddWithProof(e1)
	require.NoError(t, err)

	recomputed, err := acc.MembershipWitness(e1)
	require.NoError(t, err)
	require.True(t, recomputed.IsEqual(w1))

	check, err := grp.Element().Exp(recomputed, e1)
	require.NoError(t, err)
	require.True(t, check.IsEqual(acc.Value()))
}

func TestMembershipWitnessRejectsUnaccumulated(t *testing.T) {
	grp := testGroup(t)
	acc, err := Empty(grp, rand.Reader)
	require.NoError(t, err)

	_, err = acc.MembershipWitness(big.NewInt(23))
	require.ErrorIs(t, err, ErrNotAccumulated)
}

func TestProveNonmembershipWitnessSatisfiesCoprimeEquation(t *testing.T) {
	grp := testGroup(t)
	acc, err := Empty(grp, rand.Reader)
	require.NoError(t, err)

	require.NoError(t, acc.Add(big.NewInt(17)))
	require.NoError(t, acc.Add(big.NewInt(19)))
	require.NoError(t, acc.Add(big.NewInt(23)))

	e := big.NewInt(29)
	d, b, err := acc.ProveNonmembership(e)
	require.NoError(t, err)

	dE, err := grp.Element().Exp(d, e)
	require.NoError(t, err)
	accB, err := grp.Element().Exp(acc.Value(), b)
	require.NoError(t, err)
	lhs := grp.Element().Op(dE, accB)
	require.True(t, lhs.IsEqual(acc.base))
}

func TestProveNonmembershipRejectsAccumulated(t *testing.T) {
	grp := testGroup(t)
	acc, err := Empty(grp, rand.Reader)
	require.NoError(t, err)

	e := big.NewInt(17)
	require.NoError(t, acc.Add(e))

	_, _, err = acc.ProveNonmembership(e)
	require.ErrorIs(t, err, ErrAlreadyAccumulated)
}
