package firms

import (
	"time"

	"legal-file-auditor/internal/cmsadapter"
)

// Response is the public view of a firm. Credentials are reduced to flags.
type Response struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	ContactEmail  string                `json:"contactEmail,omitempty"`
	ContactPhone  string                `json:"contactPhone,omitempty"`
	Provider      cmsadapter.Provider   `json:"provider"`
	APIURL        string                `json:"apiUrl"`
	OrgID         string                `json:"orgId,omitempty"`
	Endpoints     *cmsadapter.Endpoints `json:"endpoints,omitempty"`
	HasAPIKey     bool                  `json:"hasApiKey"`
	HasAPISecret  bool                  `json:"hasApiSecret"`
	Active        bool                  `json:"active"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
	LastScannedAt *time.Time            `json:"lastScannedAt,omitempty"`
}

// ToResponse strips secrets from f.
func ToResponse(f Firm) Response {
	return Response{
		ID:            f.ID,
		Name:          f.Name,
		ContactEmail:  f.ContactEmail,
		ContactPhone:  f.ContactPhone,
		Provider:      f.Provider,
		APIURL:        f.APIURL,
		OrgID:         f.OrgID,
		Endpoints:     f.Endpoints,
		HasAPIKey:     f.APIKey != "",
		HasAPISecret:  f.APISecret != "",
		Active:        f.Active,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
		LastScannedAt: f.LastScannedAt,
	}
}

type createRequest struct {
	Name         string                `json:"name"`
	ContactEmail string                `json:"contactEmail"`
	ContactPhone string                `json:"contactPhone"`
	Provider     string                `json:"provider"`
	APIURL       string                `json:"apiUrl"`
	APIKey       string                `json:"apiKey"`
	APISecret    string                `json:"apiSecret"`
	OrgID        string                `json:"orgId"`
	Endpoints    *cmsadapter.Endpoints `json:"endpoints"`

	// Older clients only knew about CasePeer.
	CasePeerAPIURL string `json:"casepeerApiUrl"`
	CasePeerAPIKey string `json:"casepeerApiKey"`
}

func (r createRequest) input() CreateInput {
	in := CreateInput{
		Name:         r.Name,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		Provider:     r.Provider,
		APIURL:       r.APIURL,
		APIKey:       r.APIKey,
		APISecret:    r.APISecret,
		OrgID:        r.OrgID,
		Endpoints:    r.Endpoints,
	}
	if in.APIURL == "" {
		in.APIURL = r.CasePeerAPIURL
	}
	if in.APIKey == "" {
		in.APIKey = r.CasePeerAPIKey
	}
	return in
}

type updateRequest struct {
	Name         *string               `json:"name"`
	ContactEmail *string               `json:"contactEmail"`
	ContactPhone *string               `json:"contactPhone"`
	APIURL       *string               `json:"apiUrl"`
	APIKey       *string               `json:"apiKey"`
	APISecret    *string               `json:"apiSecret"`
	OrgID        *string               `json:"orgId"`
	Endpoints    *cmsadapter.Endpoints `json:"endpoints"`
	Active       *bool                 `json:"active"`
}

func (r updateRequest) input() UpdateInput {
	return UpdateInput(r)
}
