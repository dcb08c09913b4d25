package profile

// ImmigrationProfile carries the identity-document fields of a natural person
// (representative or sole individual) from an immigration or national ID card.
type ImmigrationProfile struct {
	FullName         string  `json:"full_name"`
	Nationality      string  `json:"nationality,omitempty"`
	DocumentType     string  `json:"document_type,omitempty"`
	DocumentNumber   string  `json:"document_number,omitempty"`
	CURP             *string `json:"curp,omitempty"`
	IssueDate        *string `json:"issue_date,omitempty"`
	ExpiryDate       *string `json:"expiry_date,omitempty"`
	IssuingAuthority string  `json:"issuing_authority,omitempty"`
}

// PassportIdentity carries the identity fields of a passport.
type PassportIdentity struct {
	FullName         string  `json:"full_name"`
	Nationality      string  `json:"nationality,omitempty"`
	PassportNumber   string  `json:"passport_number,omitempty"`
	IssueDate        *string `json:"issue_date,omitempty"`
	ExpiryDate       *string `json:"expiry_date,omitempty"`
	IssuingAuthority string  `json:"issuing_authority,omitempty"`
	BirthDate        *string `json:"birth_date,omitempty"`
}
