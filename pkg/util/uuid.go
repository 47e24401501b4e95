package util

import (
	"crypto/md5"
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/jpfielding/greygrid.go/pkg/grid"
)

// GridFingerprint is a UUID derived from the size and samples of img, so two
// grids share a fingerprint only when they hold the same samples.
func GridFingerprint(img *grid.Image) string {
	hasher := md5.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(img.Size()))
	hasher.Write(buf[:])
	for _, v := range img.Samples() {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		hasher.Write(buf[:])
	}
	id, err := uuid.FromBytes(hasher.Sum(nil))
	if err != nil {
		return ""
	}
	return id.String()
}

// RunID identifies one invocation in the logs.
func RunID() string {
	return uuid.NewString()
}
