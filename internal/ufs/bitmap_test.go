package ufs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/isostack/distributed-file-system/internal/ufs"
)

func TestBitmapSetClearFirstClear(t *testing.T) {
	bm := make(ufs.Bitmap, 2)
	require.Equal(t, int32(0), bm.FirstClear(16))

	bm.Set(0)
	bm.Set(1)
	require.True(t, bm.Test(0))
	require.True(t, bm.Test(1))
	require.False(t, bm.Test(2))
	require.Equal(t, int32(2), bm.FirstClear(16))

	bm.Clear(0)
	require.False(t, bm.Test(0))
	require.Equal(t, int32(0), bm.FirstClear(16))
}

func TestBitmapCountClear(t *testing.T) {
	bm := make(ufs.Bitmap, 1)
	bm.Set(0)
	bm.Set(3)
	require.Equal(t, int32(6), bm.CountClear(8))
}

func TestBitmapFirstClearExhausted(t *testing.T) {
	bm := make(ufs.Bitmap, 1)
	for i := int32(0); i < 8; i++ {
		bm.Set(i)
	}
	require.Equal(t, int32(-1), bm.FirstClear(8))
}
