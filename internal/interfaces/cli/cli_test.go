package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInputFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "documents.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const sampleDocuments = `{
  "customer_id": "cust-1",
  "documents": [
    {
      "type": "acta_constitutiva",
      "source_name": "acta.pdf",
      "payload": {
        "is_original": true,
        "razon_social": "COMERCIAL DEL NORTE SA DE CV",
        "shareholders": [
          {"name": "ANA LOPEZ", "shares": 60},
          {"name": "BRUNO DIAZ", "shares": 40}
        ],
        "legal_representatives": [{
          "name": "ANA LOPEZ",
          "has_poder": true,
          "can_sign_contracts": true,
          "poder_scope": [
            "pleitos y cobranzas",
            "actos de administración",
            "actos de dominio",
            "títulos de crédito"
          ]
        }]
      }
    },
    {
      "type": "sat_constancia",
      "source_name": "csf.pdf",
      "payload": {
        "rfc": "CNO150310AB1",
        "razon_social": "COMERCIAL DEL NORTE SA DE CV"
      }
    }
  ]
}`

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	path := writeInputFile(t, sampleDocuments)

	out, err := runCommand(t, "validate", "--input", path)
	require.NoError(t, err)

	var result struct {
		Score float64 `json:"score"`
		Flags []struct {
			Code string `json:"code"`
		} `json:"flags"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Greater(t, result.Score, 0.0)

	codes := map[string]bool{}
	for _, f := range result.Flags {
		codes[f.Code] = true
	}
	// Only the deed and tax certificate were supplied.
	assert.True(t, codes["MISSING_PASSPORT"])
	assert.False(t, codes["MISSING_INCORPORATION"])
}

func TestProfileCommand(t *testing.T) {
	path := writeInputFile(t, sampleDocuments)

	out, err := runCommand(t, "profile", "--input", path)
	require.NoError(t, err)

	var profile struct {
		CustomerID      string `json:"customer_id"`
		CompanyIdentity struct {
			RazonSocial  string `json:"razon_social"`
			Shareholders []struct {
				Name       string   `json:"name"`
				Percentage *float64 `json:"percentage"`
			} `json:"shareholders"`
		} `json:"company_identity"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &profile))
	assert.Equal(t, "cust-1", profile.CustomerID)
	assert.Equal(t, "COMERCIAL DEL NORTE SA DE CV", profile.CompanyIdentity.RazonSocial)
	require.Len(t, profile.CompanyIdentity.Shareholders, 2)
	require.NotNil(t, profile.CompanyIdentity.Shareholders[0].Percentage)
	assert.InDelta(t, 60.0, *profile.CompanyIdentity.Shareholders[0].Percentage, 0.01)
}

func TestTraceCommand(t *testing.T) {
	path := writeInputFile(t, sampleDocuments)

	out, err := runCommand(t, "trace", "--input", path)
	require.NoError(t, err)

	var trace struct {
		UboTraces []struct {
			Name  string `json:"name"`
			IsUbo bool   `json:"is_ubo"`
		} `json:"ubo_traces"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &trace))
	require.Len(t, trace.UboTraces, 2)
	assert.True(t, trace.UboTraces[0].IsUbo)
	assert.True(t, trace.UboTraces[1].IsUbo)
}

func TestValidateCommand_MissingInputFlag(t *testing.T) {
	_, err := runCommand(t, "validate")
	require.Error(t, err)
}

func TestValidateCommand_MalformedFile(t *testing.T) {
	path := writeInputFile(t, "not json")
	_, err := runCommand(t, "validate", "--input", path)
	require.Error(t, err)
}

func TestValidateCommand_EmptyDocuments(t *testing.T) {
	path := writeInputFile(t, `{"customer_id":"c","documents":[]}`)
	_, err := runCommand(t, "validate", "--input", path)
	require.Error(t, err)
}
