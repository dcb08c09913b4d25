package runs

import (
	"time"

	"github.com/veridocs/kycengine/internal/domain/amendments"
	"github.com/veridocs/kycengine/internal/domain/document"
	"github.com/veridocs/kycengine/internal/domain/profile"
	"github.com/veridocs/kycengine/pkg/errors"
	"github.com/veridocs/kycengine/pkg/types/kyc"
)

// deedPayload is the extraction payload of an incorporation document: the
// corporate identity plus the original-vs-amendment tag.
type deedPayload struct {
	IsOriginal bool `json:"is_original"`
	profile.CompanyIdentity
}

// Assembly is the output of profile assembly: the aggregate profile plus the
// modification-merge audit trail when amendments were involved.
type Assembly struct {
	Profile *profile.KycProfile
	Merge   amendments.Result
}

// assemble builds the profile from the run's extracted payloads.
func (s *Service) assemble(run *kyc.Run) (*Assembly, error) {
	return AssembleDocuments(run.CustomerID, run.Documents, s.now())
}

// AssembleDocuments groups extracted payloads by document type, merges
// incorporation amendments, and builds the profile.  Documents without a
// payload are skipped; coverage gaps become validation flags, not errors.
func AssembleDocuments(customerID string, docs []kyc.DocumentRecord, now time.Time) (*Assembly, error) {
	input := profile.BuilderInput{CustomerID: customerID}
	var deeds []amendments.Deed

	for _, rec := range docs {
		if len(rec.ExtractedPayload) == 0 {
			continue
		}
		env := document.Envelope{
			Type:       document.Type(rec.Type),
			SourceName: rec.SourceName,
			Payload:    rec.ExtractedPayload,
		}

		switch t := env.Type; {
		case t == document.TypeActaConstitutiva:
			var deed deedPayload
			if err := env.ParsePayload(&deed); err != nil {
				return nil, err
			}
			deeds = append(deeds, amendments.Deed{
				IsOriginal: deed.IsOriginal,
				SourceName: rec.SourceName,
				Identity:   deed.CompanyIdentity,
			})

		case t == document.TypeSatConstancia:
			var tax profile.CompanyTaxProfile
			if err := env.ParsePayload(&tax); err != nil {
				return nil, err
			}
			input.CompanyTaxProfile = &tax

		case t == document.TypeTarjetaResidente:
			var imm profile.ImmigrationProfile
			if err := env.ParsePayload(&imm); err != nil {
				return nil, err
			}
			input.RepresentativeIdentity = &imm

		case t == document.TypePassport:
			var pass profile.PassportIdentity
			if err := env.ParsePayload(&pass); err != nil {
				return nil, err
			}
			input.PassportIdentity = &pass

		case t.IsProofOfAddress():
			var poa profile.ProofOfAddress
			if err := env.ParsePayload(&poa); err != nil {
				return nil, err
			}
			if poa.SourceName == "" {
				poa.SourceName = rec.SourceName
			}
			input.ProofsOfAddress = append(input.ProofsOfAddress, poa)

		case t == document.TypeBankStatement:
			var bank profile.BankIdentity
			if err := env.ParsePayload(&bank); err != nil {
				return nil, err
			}
			if bank.SourceName == "" {
				bank.SourceName = rec.SourceName
			}
			input.BankAccounts = append(input.BankAccounts, bank)

		case t.IsRegistrySlip():
			var slip profile.RegistrySlip
			if err := env.ParsePayload(&slip); err != nil {
				return nil, err
			}
			if slip.Kind == "" {
				slip.Kind = rec.Type
			}
			if slip.SourceName == "" {
				slip.SourceName = rec.SourceName
			}
			input.RegistryDocuments = append(input.RegistryDocuments, slip)

		default:
			return nil, errors.New(errors.ErrCodeDocumentTypeInvalid, "unknown document type").
				WithDetail(rec.Type)
		}
	}

	var merge amendments.Result
	if len(deeds) > 0 {
		merge = amendments.Merge(deeds)
		input.CompanyIdentity = &merge.Current
	}

	return &Assembly{
		Profile: profile.Build(input, now),
		Merge:   merge,
	}, nil
}
