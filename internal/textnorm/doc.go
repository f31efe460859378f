// Package textnorm provides the text and URL canonicalization primitives the
// reconciler is built on.
//
// The primary use cases are:
//   - Normalizing titles and places before they feed identity computation
//   - Slugging normalized text into stable fingerprint components
//   - Edit distance between normalized titles for fuzzy deduplication
//   - Cleaning URLs of tracking parameters and rewriting cover links
//
// Every function is pure and total: malformed input falls back to the empty
// string or the original value rather than failing. Stability matters here
// because these outputs become dedup keys that must not drift between runs.
package textnorm
