package firms

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"legal-file-auditor/internal/cmsadapter"
)

// Service contains business logic for firms.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// CreateInput holds the fields accepted when registering a firm.
type CreateInput struct {
	Name         string
	ContactEmail string
	ContactPhone string
	Provider     string
	APIURL       string
	APIKey       string
	APISecret    string
	OrgID        string
	Endpoints    *cmsadapter.Endpoints
}

// UpdateInput holds optional changes. Nil fields are left untouched; empty
// credentials keep the stored ones.
type UpdateInput struct {
	Name         *string
	ContactEmail *string
	ContactPhone *string
	APIURL       *string
	APIKey       *string
	APISecret    *string
	OrgID        *string
	Endpoints    *cmsadapter.Endpoints
	Active       *bool
}

// Create validates and stores a new active firm. Provider defaults to casepeer.
func (s *Service) Create(ctx context.Context, in CreateInput) (Firm, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Firm{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	email := strings.TrimSpace(in.ContactEmail)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return Firm{}, fmt.Errorf("%w: contactEmail is invalid", ErrInvalidInput)
		}
	}

	rawProvider := strings.TrimSpace(in.Provider)
	if rawProvider == "" {
		rawProvider = string(cmsadapter.ProviderCasePeer)
	}
	provider, err := cmsadapter.ParseProvider(rawProvider)
	if err != nil {
		return Firm{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now()
	f := Firm{
		ID:           uuid.NewString(),
		Name:         name,
		ContactEmail: email,
		ContactPhone: strings.TrimSpace(in.ContactPhone),
		Provider:     provider,
		APIURL:       strings.TrimRight(strings.TrimSpace(in.APIURL), "/"),
		APIKey:       strings.TrimSpace(in.APIKey),
		APISecret:    strings.TrimSpace(in.APISecret),
		OrgID:        strings.TrimSpace(in.OrgID),
		Endpoints:    in.Endpoints,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := cmsadapter.Validate(f.Config()); err != nil {
		return Firm{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.Repo.Create(ctx, f); err != nil {
		return Firm{}, fmt.Errorf("create firm: %w", err)
	}
	return f, nil
}

// Get returns a firm by id.
func (s *Service) Get(ctx context.Context, id string) (Firm, error) {
	if strings.TrimSpace(id) == "" {
		return Firm{}, ErrNotFound
	}
	return s.Repo.Get(ctx, id)
}

// List returns all firms, or only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]Firm, error) {
	return s.Repo.List(ctx, activeOnly)
}

// Update applies in to the stored firm and revalidates its connection settings.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Firm, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return Firm{}, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Firm{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		f.Name = name
	}
	if in.ContactEmail != nil {
		f.ContactEmail = strings.TrimSpace(*in.ContactEmail)
	}
	if in.ContactPhone != nil {
		f.ContactPhone = strings.TrimSpace(*in.ContactPhone)
	}
	if in.APIURL != nil {
		f.APIURL = strings.TrimRight(strings.TrimSpace(*in.APIURL), "/")
	}
	if in.APIKey != nil && strings.TrimSpace(*in.APIKey) != "" {
		f.APIKey = strings.TrimSpace(*in.APIKey)
	}
	if in.APISecret != nil && strings.TrimSpace(*in.APISecret) != "" {
		f.APISecret = strings.TrimSpace(*in.APISecret)
	}
	if in.OrgID != nil {
		f.OrgID = strings.TrimSpace(*in.OrgID)
	}
	if in.Endpoints != nil {
		f.Endpoints = in.Endpoints
	}
	if in.Active != nil {
		f.Active = *in.Active
	}
	if err := cmsadapter.Validate(f.Config()); err != nil {
		return Firm{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	f.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, f); err != nil {
		return Firm{}, err
	}
	return f, nil
}

// Delete removes a firm.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

// Credentials returns the adapter configuration for an active firm.
func (s *Service) Credentials(ctx context.Context, id string) (cmsadapter.Config, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return cmsadapter.Config{}, err
	}
	if !f.Active {
		return cmsadapter.Config{}, ErrInactive
	}
	return f.Config(), nil
}

// MarkScanned stamps the firm's last scan time.
func (s *Service) MarkScanned(ctx context.Context, id string, at time.Time) error {
	return s.Repo.MarkScanned(ctx, id, at)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
