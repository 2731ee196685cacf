package domain

// Account is a system user. Email is the login identifier.
type Account struct {
	ID           int    `json:"accountId"`
	Name         string `json:"accountName"`
	Email        string `json:"accountEmail"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"accountRole"`
}
