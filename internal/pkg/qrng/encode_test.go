package qrng

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecimal(t *testing.T) {
	t.Run("AlternatingBits", func(t *testing.T) {
		// 0xAAAAAA = 11184810, mod 10^6 = 184810.
		code, err := EncodeDecimal("101010101010101010101010", 6)
		require.NoError(t, err)
		require.Equal(t, "184810", code)
	})

	t.Run("AllZeroBits", func(t *testing.T) {
		code, err := EncodeDecimal("000000000000000000000000", 6)
		require.NoError(t, err)
		require.Equal(t, "000000", code)
	})

	t.Run("AlwaysFixedWidthDigits", func(t *testing.T) {
		re := regexp.MustCompile(`^[0-9]{4}$`)
		for _, bits := range []string{"1", "0", "1111", "10000000000000000000000000000001"} {
			code, err := EncodeDecimal(bits, 4)
			require.NoError(t, err)
			require.Regexp(t, re, code)
		}
	})

	t.Run("RejectsBadInput", func(t *testing.T) {
		_, err := EncodeDecimal("1010", 0)
		require.ErrorIs(t, err, ErrInvalidParameter)

		_, err = EncodeDecimal("", 6)
		require.ErrorIs(t, err, ErrInvalidParameter)

		_, err = EncodeDecimal("10a0", 6)
		require.ErrorIs(t, err, ErrInvalidParameter)
	})
}

func TestEncodeDecimalLongStream(t *testing.T) {
	src := NewSeededSource(7, 11)
	gen, err := New(testConfig(), src)
	require.NoError(t, err)

	res, err := gen.Generate(t.Context())
	require.NoError(t, err)

	for _, seq := range res.Sequences {
		code, err := EncodeDecimal(seq, 6)
		require.NoError(t, err)
		require.Len(t, code, 6)
	}
}
