package store

import "strings"

// collectionNameReplacer rewrites characters that are unsafe inside a table
// identifier. Quotes are doubled, the rest become underscores.
var collectionNameReplacer = strings.NewReplacer(
	"'", "''",
	" ", "_",
	"-", "_",
	".", "_",
	":", "_",
	"/", "_",
	"\\", "_",
	";", "_",
)

// SanitizeCollectionName maps a caller-supplied collection name to a safe
// internal table identifier. Deterministic and total, but not injective:
// two distinct names may sanitize to the same identifier, in which case the
// second AddCollection fails with ErrCollectionExists.
func SanitizeCollectionName(name string) string {
	return collectionNameReplacer.Replace(name)
}
