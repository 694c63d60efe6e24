package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint canonicalizes (source, product URL, body, date) into the content
// hash used as the review's uniqueness key. Absent fields are passed as "".
// Inputs are hashed exactly as given — no trimming, casing, or text
// normalization: identity and readability are separate concerns.
//
// The tuple is framed as a JSON array so field boundaries survive (plain
// concatenation would collapse ("ab","c") and ("a","bc") into one digest).
func Fingerprint(source, productURL, body, reviewDate string) string {
	payload, _ := json.Marshal([4]string{source, productURL, body, reviewDate})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
