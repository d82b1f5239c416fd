package dal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// genID generates a random identifier with a type prefix using crypto/rand
// for thread safety.
func genID(prefix string) string {
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b))
}
