package game

import (
	"crypto/rand"
	"encoding/binary"
)

// Picker draws a uniform integer in [0, n).
type Picker interface {
	Intn(n int) int
}

// CryptoPicker draws from crypto/rand; plenty for a card draw.
type CryptoPicker struct{}

func (CryptoPicker) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	var b [8]byte
	_, _ = rand.Read(b[:])
	return int(binary.LittleEndian.Uint64(b[:]) % uint64(n))
}
