// Per-request authentication header computation. Supported modes:
//
//   - standard: the raw API key travels in Authorization.
//   - advanced: Authorization carries hex(SHA256(key ++ nonce ++ timestamp))
//     where the nonce is 64 crypto-random alphanumeric characters and the
//     timestamp is UTC milliseconds since epoch. Nonce and timestamp travel
//     alongside the signature so the backend can recompute it.
//
// Headers are computed fresh on every request. Advanced-mode signatures are
// only valid within the backend's timestamp window, and nonce reuse is
// rejected, so nothing here may be cached.

package xdr

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ridgeline-sec/xdrsync/internal/tenant"
)

const nonceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const nonceLength = 64

// Headers computes the authentication header set for one request against the
// given credential. Every call draws a new nonce and timestamp in advanced
// mode; headers must never be reused across requests.
func Headers(cred tenant.Credential) (map[string]string, error) {
	if cred.Advanced {
		return advancedHeaders(cred)
	}
	return standardHeaders(cred), nil
}

// standardHeaders builds the standard-mode header set: the raw key in
// Authorization plus the key ID.
func standardHeaders(cred tenant.Credential) map[string]string {
	return map[string]string{
		"Authorization": cred.APIKey,
		"x-xdr-auth-id": cred.APIKeyID,
		"Content-Type":  "application/json",
	}
}

// advancedHeaders builds the advanced-mode header set: a fresh nonce and
// timestamp plus the signature over key, nonce, and timestamp.
func advancedHeaders(cred tenant.Credential) (map[string]string, error) {
	nonce, err := generateNonce()
	if err != nil {
		return nil, fmt.Errorf("failed to generate auth nonce: %w", err)
	}
	timestamp := strconv.FormatInt(time.Now().UTC().UnixMilli(), 10)

	return map[string]string{
		"Authorization":   Signature(cred.APIKey, nonce, timestamp),
		"x-xdr-auth-id":   cred.APIKeyID,
		"x-xdr-timestamp": timestamp,
		"x-xdr-nonce":     nonce,
		"Content-Type":    "application/json",
	}, nil
}

// Signature computes the advanced-mode request signature:
// hex(SHA256(key ++ nonce ++ timestamp)). Pure function, exported for
// verification against reference vectors.
func Signature(key, nonce, timestamp string) string {
	sum := sha256.Sum256([]byte(key + nonce + timestamp))
	return hex.EncodeToString(sum[:])
}

// generateNonce draws a 64-character nonce from a cryptographically secure
// random alphanumeric source.
func generateNonce() (string, error) {
	max := big.NewInt(int64(len(nonceAlphabet)))
	buf := make([]byte, nonceLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = nonceAlphabet[n.Int64()]
	}
	return string(buf), nil
}
