package profile

// ProofOfAddress is an evidentiary document (utility bill) supporting the
// operational address.  IssueDate is an ISO date string used by the freshness
// checker; nil when the bill is undated.
type ProofOfAddress struct {
	Provider    string  `json:"provider,omitempty"`
	HolderName  string  `json:"holder_name,omitempty"`
	Address     Address `json:"address"`
	IssueDate   *string `json:"issue_date,omitempty"`
	ServiceType string  `json:"service_type,omitempty"`
	SourceName  string  `json:"source_name,omitempty"`
}

// BankIdentity is the account-holder page of a bank statement: the banking
// relationship plus the address the bank has on file.
type BankIdentity struct {
	BankName                  string  `json:"bank_name,omitempty"`
	HolderName                string  `json:"holder_name,omitempty"`
	RFC                       *string `json:"rfc,omitempty"`
	CLABE                     *string `json:"clabe,omitempty"`
	AccountNumber             string  `json:"account_number,omitempty"`
	Address                   Address `json:"address"`
	AddressMatchesOperational bool    `json:"address_matches_operational"`
	PeriodEndDate             *string `json:"period_end_date,omitempty"`
	SourceName                string  `json:"source_name,omitempty"`
}

// Registry slip kinds.
const (
	RegistrySlipBoletaRPC = "boleta_rpc"
	RegistrySlipRNIE      = "constancia_rnie"
	RegistrySlipNameAuth  = "name_authorization"
)

// RegistrySlip is a commercial-registry document attached to the profile
// (boleta RPC or foreign-investment constancia).
type RegistrySlip struct {
	Kind        string  `json:"kind"`
	FolioNumber string  `json:"folio_number,omitempty"`
	IssueDate   *string `json:"issue_date,omitempty"`
	Authority   string  `json:"authority,omitempty"`
	SourceName  string  `json:"source_name,omitempty"`
}
