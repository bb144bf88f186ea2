package qqmusic

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"unicode/utf16"
)

var (
	signHead = []int{23, 14, 6, 36, 16, 7, 19}
	signTail = []int{16, 1, 32, 12, 19, 27, 8, 5}
	signXOR  = [20]byte{89, 39, 179, 150, 218, 82, 58, 252, 177, 52, 186, 123, 120, 64, 242, 133, 143, 161, 121, 179}
)

// SessionToken derives the g_tk value from the qm_keyst cookie.
// Characters are consumed as UTF-16 code units so the result matches the web player.
func SessionToken(key string) uint32 {
	hash := uint32(5381)
	for _, unit := range utf16.Encode([]rune(key)) {
		hash += (hash << 5) + uint32(unit)
	}
	return hash & 0x7fffffff
}

// Sign computes the "sign" query parameter for a serialized request body.
// The body must be the exact bytes that are posted.
func Sign(body []byte) string {
	sum := sha1.Sum(body)
	h := strings.ToUpper(hex.EncodeToString(sum[:]))

	var b strings.Builder
	b.WriteString("zzc")
	for _, i := range signHead {
		b.WriteByte(h[i])
	}

	var buf [20]byte
	for i := range buf {
		buf[i] = signXOR[i] ^ sum[i]
	}
	encoded := base64.StdEncoding.EncodeToString(buf[:])
	b.WriteString(strings.NewReplacer("/", "", "+", "", "=", "").Replace(encoded))

	for _, i := range signTail {
		b.WriteByte(h[i])
	}
	return strings.ToLower(b.String())
}
