package vision

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ericfisherdev/imagelabels/internal/domain/model"
)

// LoadServiceAccount parses a service-account key document and repairs its
// private key. Hosting platforms commonly store the key with each newline
// written as the two characters `\n`; every such sequence is replaced with a
// real newline. It returns the parsed account and the repaired document, with
// all other fields preserved, ready to hand to option.WithCredentialsJSON.
//
// Every failure wraps model.ErrConfiguration. Error messages never contain the
// document or the key.
func LoadServiceAccount(raw string) (*model.ServiceAccount, []byte, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil, fmt.Errorf("%w: GCP_SA_JSON is not set", model.ErrConfiguration)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, nil, fmt.Errorf("%w: parse service account: %w", model.ErrConfiguration, err)
	}
	if fields == nil {
		return nil, nil, fmt.Errorf("%w: service account is not a JSON object", model.ErrConfiguration)
	}

	privateKey, _ := fields["private_key"].(string)
	if privateKey == "" {
		return nil, nil, fmt.Errorf("%w: service account has no private_key", model.ErrConfiguration)
	}
	projectID, _ := fields["project_id"].(string)
	if projectID == "" {
		return nil, nil, fmt.Errorf("%w: service account has no project_id", model.ErrConfiguration)
	}

	privateKey = strings.ReplaceAll(privateKey, `\n`, "\n")
	fields["private_key"] = privateKey

	normalized, err := json.Marshal(fields)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: encode service account: %w", model.ErrConfiguration, err)
	}

	clientEmail, _ := fields["client_email"].(string)
	accountType, _ := fields["type"].(string)

	return &model.ServiceAccount{
		Type:        accountType,
		ProjectID:   projectID,
		PrivateKey:  privateKey,
		ClientEmail: clientEmail,
	}, normalized, nil
}
