package credentials

// PasswordHasher abstrae el hashing de contraseñas.
// El dominio nunca ve la contraseña en claro más allá de estas dos llamadas.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
