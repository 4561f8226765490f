package identity

// PasswordHasher hashes and compares passwords.
// Compare must return false, not panic, for an empty or malformed hash.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(plain, hash string) bool
}
