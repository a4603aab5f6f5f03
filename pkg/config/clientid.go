// pkg/config/clientid.go

package config

import (
	"crypto/rand"
	"math/big"
)

const (
	ClientIDPrefix = "perf-client-"
	clientIDLength = 8
	clientIDChars  = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateClientID returns "perf-client-" followed by 8 random [a-z0-9] characters.
func GenerateClientID() (string, error) {
	suffix := make([]byte, clientIDLength)
	max := big.NewInt(int64(len(clientIDChars)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		suffix[i] = clientIDChars[n.Int64()]
	}
	return ClientIDPrefix + string(suffix), nil
}
