// Package auth holds the credential primitives of the portal: password hashes
// and signed session tokens. It knows nothing about where accounts are stored.
package auth
