package lnmarkets

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Sign builds the LNM-ACCESS-SIGNATURE header value.
//
// The authenticated message is the byte-exact concatenation
// timestamp + method + path + queryString, with no separators, signed with
// HMAC-SHA256 under the API secret and base64-encoded. The timestamp is a
// decimal string of integer milliseconds since epoch, captured at call time
// by the caller so the same value goes into both the signature and the
// LNM-ACCESS-TIMESTAMP header.
func Sign(timestamp, method, path, queryString string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(timestamp + method + path + queryString))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
