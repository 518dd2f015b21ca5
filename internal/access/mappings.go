package access

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/darmiel/fedmap/internal/audit"
	"github.com/darmiel/fedmap/internal/core"
	"github.com/darmiel/fedmap/internal/logging"
)

// identityMappingsEndpoint is the per-integration mapping collection.
const identityMappingsEndpoint = "/access/api/v1/oidc/%s/identity_mappings"

// identityMappingRecord is the wire shape of one mapping.
// The domain type is flat; the nesting under claims/token_spec is ours to hide.
type identityMappingRecord struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Priority    int           `json:"priority"`
	Claims      mappingClaims `json:"claims"`
	TokenSpec   tokenSpec     `json:"token_spec"`
}

type mappingClaims struct {
	// Repository is the inbound federation claim the mapping matches on,
	// exact or suffix-wildcard.
	Repository string `json:"repository"`
}

type tokenSpec struct {
	// Scope granted to tokens minted through this mapping.
	Scope string `json:"scope"`
}

func toRecord(m core.IdentityMapping) identityMappingRecord {
	return identityMappingRecord{
		Name:        m.Name,
		Description: m.Description,
		Priority:    m.Priority,
		Claims:      mappingClaims{Repository: m.Repository},
		TokenSpec:   tokenSpec{Scope: m.Scope},
	}
}

func (r identityMappingRecord) toDomain() core.IdentityMapping {
	return core.IdentityMapping{
		Name:        r.Name,
		Description: r.Description,
		Priority:    r.Priority,
		Repository:  r.Claims.Repository,
		Scope:       r.TokenSpec.Scope,
	}
}

func (c *Client) mappingsURL(integration string) string {
	return c.baseURL + fmt.Sprintf(identityMappingsEndpoint, url.PathEscape(integration))
}

// ListMappings returns the integration's current mappings in store order.
func (c *Client) ListMappings(ctx context.Context, integration string) ([]core.IdentityMapping, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.mappingsURL(integration), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var records []identityMappingRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	mappings := make([]core.IdentityMapping, 0, len(records))
	for _, r := range records {
		mappings = append(mappings, r.toDomain())
	}
	return mappings, nil
}

// CreateMapping adds a mapping to the integration. A 409 from the store means
// the name is already taken and is reported as core.ErrMappingExists; the
// caller treats that as satisfied desired state, not as failure.
func (c *Client) CreateMapping(ctx context.Context, integration string, mapping core.IdentityMapping) error {
	data, err := json.Marshal(toRecord(mapping))
	if err != nil {
		return fmt.Errorf("marshalling mapping: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.mappingsURL(integration), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusConflict:
		return core.ErrMappingExists
	default:
		return readAPIError(resp)
	}
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", audit.CreateUserAgent(logging.RunID(req.Context())))
	return c.httpClient.Do(req)
}

func readAPIError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode}
	}
	return &APIError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
}
