package preview

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/greygrid.go/pkg/grid"
)

func TestToGray_Clamps(t *testing.T) {
	img, err := grid.FromRows([][]int{{-5, 100}, {255, 300}})
	require.NoError(t, err)

	g := ToGray(img)
	assert.Equal(t, uint8(0), g.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(100), g.GrayAt(1, 0).Y)
	assert.Equal(t, uint8(255), g.GrayAt(0, 1).Y)
	assert.Equal(t, uint8(255), g.GrayAt(1, 1).Y)
}

func TestScale(t *testing.T) {
	img, err := grid.FromRows([][]int{{0, 200}, {50, 255}})
	require.NoError(t, err)

	g := ToGray(img)
	assert.Same(t, g, Scale(g, 1))

	big := Scale(g, 3)
	assert.Equal(t, 6, big.Bounds().Dx())
	assert.Equal(t, uint8(200), big.GrayAt(5, 0).Y)
	assert.Equal(t, uint8(50), big.GrayAt(2, 4).Y)
}

func TestSave_PNG(t *testing.T) {
	img, err := grid.FromRows([][]int{{0, 255}, {255, 0}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "edge.png")
	require.NoError(t, Save(path, img, 2))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 4, decoded.Bounds().Dx())
}

func TestSave_Unsupported(t *testing.T) {
	img, err := grid.New(2)
	require.NoError(t, err)
	assert.Error(t, Save(filepath.Join(t.TempDir(), "out.xyz"), img, 1))
}
