package params

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromSecurityLevelAllLevels(t *testing.T) {
	for _, lambda := range []uint{80, 112, 128, 192, 256} {
		p, err := FromSecurityLevel(lambda)
		require.NoError(t, err)
		require.NoError(t, p.Validate())
	}
}

func TestFromSecurityLevel128Concrete(t *testing.T) {
	p, err := FromSecurityLevel(128)
	require.NoError(t, err)
	require.EqualValues(t, 254, p.HashToPrimeBits)
	require.EqualValues(t, 256, p.FieldSizeBits)
	require.EqualValues(t, 126, p.SecuritySoundness)
	require.EqualValues(t, 125, p.SecurityZK)
}

func TestValidateRejectsTooSmallField(t *testing.T) {
	p := &Parameters{
		SecurityZK:        125,
		SecuritySoundness: 126,
		HashToPrimeBits:   100,
		FieldSizeBits:     256,
	}
	err := p.Validate()
	require.True(t, errors.Is(err, ErrInvalidParameters))
}

func TestFromCurveMatchesSecurityLevel(t *testing.T) {
	a, err := FromSecurityLevel(128)
	require.NoError(t, err)
	b, err := FromCurve(256)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
