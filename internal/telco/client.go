// internal/telco/client.go

// Package telco implements the refdata interfaces against a remote network
// operator exposing Camara-style verification APIs (kyc-match,
// location-retrieval, sim-swap). Every call carries an OAuth bearer token
// obtained through internal/common/auth.
package telco

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"callguard/internal/common/auth"
	"callguard/internal/common/config"
	apperrors "callguard/internal/common/errors"
	"callguard/internal/models"
)

const collaboratorName = "telco-api"

// Client talks to the operator's verification endpoints. It satisfies
// refdata.Store.
type Client struct {
	baseURL string
	tokens  *auth.TokenSource
	http    *http.Client
}

func NewClient(cfg config.TelcoConfig, tokens *auth.TokenSource) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		tokens:  tokens,
		http:    &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Millisecond},
	}
}

func (c *Client) post(ctx context.Context, path, phoneNumber string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.NewCollaboratorUnavailableError(collaboratorName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return apperrors.NewCollaboratorUnavailableError(collaboratorName, err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.BearerToken()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return apperrors.NewCollaboratorTimeoutError(collaboratorName)
		}
		return apperrors.NewCollaboratorUnavailableError(collaboratorName, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NewReferenceNotFoundError(collaboratorName, phoneNumber)
	case resp.StatusCode >= 400:
		return apperrors.NewCollaboratorUnavailableError(collaboratorName,
			fmt.Errorf("%s returned status %d", path, resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewCollaboratorUnavailableError(collaboratorName, err)
	}
	return nil
}

type identityResponse struct {
	IDDocument   string `json:"idDocument"`
	Name         string `json:"name"`
	GivenName    string `json:"givenName"`
	FamilyName   string `json:"familyName"`
	Birthdate    string `json:"birthdate"`
	Address      string `json:"address"`
	StreetName   string `json:"streetName"`
	StreetNumber string `json:"streetNumber"`
	PostalCode   string `json:"postalCode"`
	Region       string `json:"region"`
	Locality     string `json:"locality"`
	Country      string `json:"country"`
	Email        string `json:"email"`
	Gender       string `json:"gender"`
}

// IdentityByPhone fetches the operator's KYC record for the subscriber.
func (c *Client) IdentityByPhone(ctx context.Context, phoneNumber string) (*models.ReferenceIdentity, error) {
	var out identityResponse
	payload := map[string]string{"phoneNumber": phoneNumber}
	if err := c.post(ctx, "/kyc-match/v0/identity", phoneNumber, payload, &out); err != nil {
		return nil, err
	}
	return &models.ReferenceIdentity{
		PhoneNumber:  phoneNumber,
		IDDocument:   out.IDDocument,
		Name:         out.Name,
		GivenName:    out.GivenName,
		FamilyName:   out.FamilyName,
		Birthdate:    out.Birthdate,
		Address:      out.Address,
		StreetName:   out.StreetName,
		StreetNumber: out.StreetNumber,
		PostalCode:   out.PostalCode,
		Region:       out.Region,
		Locality:     out.Locality,
		Country:      out.Country,
		Email:        out.Email,
		Gender:       out.Gender,
	}, nil
}

type locationResponse struct {
	LastLocationTime time.Time `json:"lastLocationTime"`
	Area             struct {
		AreaType string `json:"areaType"`
		Center   struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"center"`
		Radius float64 `json:"radius"`
	} `json:"area"`
}

// LocationByPhone fetches the subscriber's last known device position. The
// operator reports a CIRCLE area; the radius becomes the device accuracy.
func (c *Client) LocationByPhone(ctx context.Context, phoneNumber string) (*models.ReferenceLocation, error) {
	var out locationResponse
	payload := map[string]interface{}{
		"device": map[string]string{"phoneNumber": phoneNumber},
	}
	if err := c.post(ctx, "/location-retrieval/v0/retrieve", phoneNumber, payload, &out); err != nil {
		return nil, err
	}
	if out.Area.AreaType != "" && out.Area.AreaType != "CIRCLE" {
		return nil, apperrors.NewCollaboratorUnavailableError(collaboratorName,
			fmt.Errorf("unsupported area type %q", out.Area.AreaType))
	}
	return &models.ReferenceLocation{
		PhoneNumber:      phoneNumber,
		Latitude:         out.Area.Center.Latitude,
		Longitude:        out.Area.Center.Longitude,
		AccuracyRadius:   out.Area.Radius,
		LastLocationTime: out.LastLocationTime,
	}, nil
}

type simSwapResponse struct {
	LatestSimChange time.Time `json:"latestSimChange"`
}

// LatestSimChange fetches the timestamp of the subscriber's latest SIM change.
func (c *Client) LatestSimChange(ctx context.Context, phoneNumber string) (*models.SimSwapRecord, error) {
	var out simSwapResponse
	payload := map[string]string{"phoneNumber": phoneNumber}
	if err := c.post(ctx, "/sim-swap/v0/retrieve-date", phoneNumber, payload, &out); err != nil {
		return nil, err
	}
	return &models.SimSwapRecord{
		PhoneNumber:     phoneNumber,
		LatestSimChange: out.LatestSimChange,
	}, nil
}
