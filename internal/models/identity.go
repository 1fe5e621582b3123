package models

// IdentityTable names one of the two disjoint account tables an email may live in.
type IdentityTable string

const (
	ContractorIdentities IdentityTable = "contractors"
	LandlordIdentities   IdentityTable = "landlords"
)

// IdentityTables is the fixed set checked for email uniqueness.
var IdentityTables = []IdentityTable{ContractorIdentities, LandlordIdentities}

// Identity is an account row reduced to what uniqueness checks need.
type Identity struct {
	ID    string        `json:"id"`
	Email string        `json:"email"`
	Table IdentityTable `json:"table"`
}
