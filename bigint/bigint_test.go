package bigint

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignedBytesRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 255, -255, 1 << 20, -(1 << 20)}
	for _, c := range cases {
		x := big.NewInt(c)
		got, err := FromSignedBytes(ToSignedBytes(x))
		require.NoError(t, err)
		require.Equal(t, 0, x.Cmp(got))
	}
}

func TestUnsignedBytesRoundTrip(t *testing.T) {
	x, _ := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 2048))
	got := FromBytes(ToBytes(x))
	require.Equal(t, 0, x.Cmp(got))
}

func TestFixedWidthBytes(t *testing.T) {
	q, _ := new(big.Int).SetString("7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffed", 16)
	x, err := rand.Int(rand.Reader, q)
	require.NoError(t, err)

	b, err := FixedWidthBytes(x, q.BitLen())
	require.NoError(t, err)
	require.Equal(t, (q.BitLen()+7)/8, len(b))
	require.Equal(t, 0, x.Cmp(new(big.Int).SetBytes(b)))
}

func TestBitsBytesRoundTrip(t *testing.T) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	require.NoError(t, err)

	bits := BytesToBits(b)
	require.Len(t, bits, 256)

	back, err := BitsToBytes(bits)
	require.NoError(t, err)
	require.Equal(t, b, back)
}

func TestSampleSymmetricRange(t *testing.T) {
	bound := big.NewInt(1000)
	for i := 0; i < 256; i++ {
		v, err := SampleSymmetric(rand.Reader, bound)
		require.NoError(t, err)
		require.True(t, v.Cmp(new(big.Int).Neg(bound)) >= 0)
		require.True(t, v.Cmp(bound) < 0)
	}
}

func TestEuclideanMod(t *testing.T) {
	x := big.NewInt(-7)
	n := big.NewInt(5)
	require.Equal(t, big.NewInt(3), EuclideanMod(x, n))
}
