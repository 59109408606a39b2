package usecase

// PasswordHasher abstracts credential hashing so use cases stay algorithm-agnostic.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer signs access tokens for a subject.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}
