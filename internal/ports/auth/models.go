package auth

// Claims representa la identidad extraída del token.
// Son los mismos campos que el emisor embebe al hacer login.
type Claims struct {
	UserID    string
	FirstName string
	LastName  string
	Username  string
}
