package wire_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nirav-go/lazywire/wire"
)

func TestTagRoundTrip(t *testing.T) {
	w := wire.NewWriter()
	w.EncodeTag(1, wire.VarintType)
	w.EncodeTag(536870911, wire.BytesType)

	r := wire.NewReader(w.Bytes())
	num, typ, err := r.DecodeTag()
	require.NoError(t, err)
	require.Equal(t, int32(1), num)
	require.Equal(t, wire.VarintType, typ)

	num, typ, err = r.DecodeTag()
	require.NoError(t, err)
	require.Equal(t, int32(536870911), num)
	require.Equal(t, wire.BytesType, typ)
	require.True(t, r.EOF())
}

func TestDecodeTagRejectsFieldNumberZero(t *testing.T) {
	w := wire.NewWriter()
	// A tag of (0 << 3) | VarintType is a zero varint byte.
	w.EncodeVarint(0)
	r := wire.NewReader(w.Bytes())
	_, _, err := r.DecodeTag()
	require.Error(t, err)
}

func TestDecodeTagRejectsGroupWireType(t *testing.T) {
	w := wire.NewWriter()
	w.EncodeTag(1, 3) // group start
	r := wire.NewReader(w.Bytes())
	_, _, err := r.DecodeTag()
	require.Error(t, err)
}

func TestVarintRoundTrip(t *testing.T) {
	w := wire.NewWriter()
	w.EncodeVarint(0)
	w.EncodeVarint(1)
	w.EncodeVarint(300)
	w.EncodeVarint(^uint64(0))

	r := wire.NewReader(w.Bytes())
	for _, want := range []uint64{0, 1, 300, ^uint64(0)} {
		got, err := r.DecodeVarint()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	require.True(t, r.EOF())
}

func TestVarintTruncated(t *testing.T) {
	r := wire.NewReader([]byte{0x80, 0x80}) // continuation bits set, no terminator
	_, err := r.DecodeVarint()
	require.Error(t, err)
}

func TestFixed32RoundTrip(t *testing.T) {
	w := wire.NewWriter()
	w.EncodeFixed32(0xdeadbeef)
	r := wire.NewReader(w.Bytes())
	got, err := r.DecodeFixed32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xdeadbeef), got)
}

func TestFixed64RoundTrip(t *testing.T) {
	w := wire.NewWriter()
	w.EncodeFixed64(0x0123456789abcdef)
	r := wire.NewReader(w.Bytes())
	got, err := r.DecodeFixed64()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0123456789abcdef), got)
}

func TestBytesRoundTripIsZeroCopy(t *testing.T) {
	w := wire.NewWriter()
	w.EncodeBytes([]byte("hello"))
	buf := w.Bytes()
	r := wire.NewReader(buf)
	got, err := r.DecodeBytes()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
	require.Same(t, &buf[1], &got[0], "DecodeBytes must return a subslice of the reader's buffer")
}

func TestSkipValue(t *testing.T) {
	w := wire.NewWriter()
	w.EncodeTag(1, wire.VarintType)
	w.EncodeVarint(42)
	w.EncodeTag(2, wire.BytesType)
	w.EncodeBytes([]byte("ignored"))
	w.EncodeTag(3, wire.VarintType)
	w.EncodeVarint(7)

	r := wire.NewReader(w.Bytes())
	_, typ, err := r.DecodeTag()
	require.NoError(t, err)
	require.NoError(t, r.SkipValue(typ))

	_, typ, err = r.DecodeTag()
	require.NoError(t, err)
	require.NoError(t, r.SkipValue(typ))

	num, typ, err := r.DecodeTag()
	require.NoError(t, err)
	require.Equal(t, int32(3), num)
	v, err := r.DecodeVarint()
	require.NoError(t, err)
	require.Equal(t, uint64(7), v)
	_ = typ
}

func TestZigZag32RoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 2147483647, -2147483648} {
		require.Equal(t, v, wire.DecodeZigZag32(wire.EncodeZigZag32(v)))
	}
}

func TestZigZag64RoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 9223372036854775807, -9223372036854775808} {
		require.Equal(t, v, wire.DecodeZigZag64(wire.EncodeZigZag64(v)))
	}
}
