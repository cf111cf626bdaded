package domain

// User is the person recording an operation. Users are managed elsewhere;
// the engine only resolves them by id.
type User struct {
	UserID int64  `json:"userID"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// PartyType distinguishes clients from suppliers.
type PartyType string

const (
	PartyClient   PartyType = "client"
	PartySupplier PartyType = "supplier"
)

// Party is the counterparty of an operation.
type Party struct {
	PartyID   int64     `json:"partyID"`
	Name      string    `json:"name"`
	PartyType PartyType `json:"partyType"`
}
