package domain

// Identity is the public view of a registered account. It never carries the credential.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Account is the stored record behind an Identity.
type Account struct {
	Identity
	CredentialHash []byte
}
