package profile

// CompanyTaxProfile is the company identity according to the tax authority
// (constancia de situación fiscal).  RFC and razón social here are the legally
// authoritative identity: any mismatch with bank or deed records is flagged
// against this source, never the reverse.
type CompanyTaxProfile struct {
	RFC                string   `json:"rfc"`
	RazonSocial        string   `json:"razon_social"`
	TaxRegime          string   `json:"tax_regime,omitempty"`
	Status             string   `json:"status,omitempty"`
	FiscalAddress      *Address `json:"fiscal_address,omitempty"`
	EconomicActivities []string `json:"economic_activities,omitempty"`
	TaxObligations     []string `json:"tax_obligations,omitempty"`
	IssueDate          *string  `json:"issue_date,omitempty"`
}
