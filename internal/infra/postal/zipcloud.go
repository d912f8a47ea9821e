// Package postal resolves Japanese postal codes through the zipcloud search API.
package postal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"cafeadmin/config"
	deliverycontext "cafeadmin/internal/delivery/context"
	"cafeadmin/internal/domain/entity"
	domainerrors "cafeadmin/internal/domain/errors"
	"cafeadmin/internal/domain/service"

	"github.com/pkg/errors"
)

// zipcloudResponse is the body returned by GET /api/search?zipcode=...
type zipcloudResponse struct {
	Status  int     `json:"status"`
	Message *string `json:"message"`
	Results []struct {
		Zipcode  string `json:"zipcode"`
		Address1 string `json:"address1"`
		Address2 string `json:"address2"`
		Address3 string `json:"address3"`
	} `json:"results"`
}

type zipcloudClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewZipcloudClient creates a PostalLookup backed by zipcloud
func NewZipcloudClient(cfg *config.Config, logger *slog.Logger) service.PostalLookup {
	return &zipcloudClient{
		endpoint:   cfg.Postal.Endpoint,
		httpClient: &http.Client{Timeout: cfg.Postal.Timeout},
		logger:     logger,
	}
}

// Lookup returns the first match for a normalized 7-digit code.
func (c *zipcloudClient) Lookup(ctx context.Context, postalCode string) (*entity.PostalAddress, error) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, c.logger)

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "parse postal endpoint")
	}
	q := u.Query()
	q.Set("zipcode", postalCode)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if requestID := deliverycontext.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(deliverycontext.HeaderXRequestID, requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("Postal lookup failed", slog.String("postal_code", postalCode), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPostalLookupFailed, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("Postal lookup returned non-success status", slog.Int("status", resp.StatusCode))

		return nil, errors.Wrapf(domainerrors.ErrPostalLookupFailed, "status %d", resp.StatusCode)
	}

	var body zipcloudResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(domainerrors.ErrPostalLookupFailed, err.Error())
	}
	if body.Status != http.StatusOK {
		msg := ""
		if body.Message != nil {
			msg = *body.Message
		}
		if body.Status == http.StatusBadRequest {
			return nil, errors.Wrap(domainerrors.ErrPostalCodeInvalid, msg)
		}

		return nil, errors.Wrapf(domainerrors.ErrPostalLookupFailed, "status %d: %s", body.Status, msg)
	}
	if len(body.Results) == 0 {
		return nil, domainerrors.ErrPostalNotFound
	}

	hit := body.Results[0]

	return &entity.PostalAddress{
		PostalCode: postalCode,
		Prefecture: hit.Address1,
		City:       hit.Address2,
		Town:       hit.Address3,
	}, nil
}
