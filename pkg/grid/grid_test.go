package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	img, err := New(3)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Size())
	assert.Len(t, img.Samples(), 9)
	for _, v := range img.Samples() {
		assert.Zero(t, v)
	}

	for _, size := range []int{0, -1} {
		_, err := New(size)
		assert.ErrorIs(t, err, ErrInvalidSize)
	}
}

func TestGetSet_RowMajor(t *testing.T) {
	img, err := New(4)
	require.NoError(t, err)

	img.Set(1, 2, 42)
	assert.Equal(t, 42, img.Get(1, 2))
	assert.Equal(t, 42, img.Samples()[1*4+2])
	assert.Zero(t, img.Get(2, 1))
}

func TestRow_SharesBacking(t *testing.T) {
	img, err := FromRows([][]int{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	require.NoError(t, err)

	row := img.Row(1)
	assert.Equal(t, []int{4, 5, 6}, row)
	assert.Equal(t, 3, cap(row))

	row[0] = 40
	assert.Equal(t, 40, img.Get(1, 0))
}

func TestFromRows_NotSquare(t *testing.T) {
	_, err := FromRows([][]int{{1, 2}, {3}})
	assert.Error(t, err)

	_, err = FromRows(nil)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestResize(t *testing.T) {
	img, err := FromRows([][]int{{1, 2}, {3, 4}})
	require.NoError(t, err)

	require.NoError(t, img.Resize(3))
	assert.Equal(t, 3, img.Size())
	assert.Equal(t, make([]int, 9), img.Samples())

	assert.ErrorIs(t, img.Resize(0), ErrInvalidSize)
	assert.Equal(t, 3, img.Size())
}

func TestCloneEqual(t *testing.T) {
	img, err := FromRows([][]int{{1, 2}, {3, 4}})
	require.NoError(t, err)

	c := img.Clone()
	assert.True(t, img.Equal(c))

	c.Set(0, 0, 9)
	assert.False(t, img.Equal(c))
	assert.Equal(t, 1, img.Get(0, 0))

	other, err := New(3)
	require.NoError(t, err)
	assert.False(t, img.Equal(other))

	var nilImg *Image
	assert.False(t, img.Equal(nilImg))
	assert.True(t, nilImg.Equal(nil))
}

func TestMinMax(t *testing.T) {
	img, err := FromRows([][]int{{5, -2}, {300, 7}})
	require.NoError(t, err)
	lo, hi := img.MinMax()
	assert.Equal(t, -2, lo)
	assert.Equal(t, 300, hi)
}
