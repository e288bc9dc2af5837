package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oceanobs/bog/internal/models"
	"github.com/oceanobs/bog/internal/transport"
)

// Client queries per-buoy status and historical series using a Session's
// token. It borrows the session read-only and never mutates it. No retries
// happen at this layer; retry is an authentication-only policy.
type Client struct {
	session *Session
	client  transport.Doer
	logger  *logrus.Logger
}

// NewClient returns a query client bound to an authenticated session.
func NewClient(session *Session, client transport.Doer, logger *logrus.Logger) *Client {
	return &Client{
		session: session,
		client:  client,
		logger:  logger,
	}
}

// CurrentStatus fetches the latest status of one buoy. When enforceScope is
// set, an unauthorized id fails locally with ErrScope before any network
// call; fleet snapshots iterate already-known-authorized ids and skip the
// redundant check.
func (c *Client) CurrentStatus(ctx context.Context, buoyID int, enforceScope bool) (*models.BuoyStatus, error) {
	if enforceScope && !c.session.Authorized(buoyID) {
		return nil, fmt.Errorf("%w: buoy %d", ErrScope, buoyID)
	}

	header, err := c.session.authHeader(ErrStatusFetch)
	if err != nil {
		return nil, err
	}

	var status models.BuoyStatus
	url := fmt.Sprintf("%s/buoy/%d/details", c.session.endpoint, buoyID)
	if err := doJSON(ctx, c.client, http.MethodGet, url, nil, header, &status, ErrStatusFetch); err != nil {
		return nil, err
	}

	if status.BuoyID == 0 {
		status.BuoyID = buoyID
	}
	return &status, nil
}

// HistoricalSeries fetches historical observations for one buoy. Scope is
// always enforced. The available-variable set is discovered through one
// CurrentStatus call; nil variables default to all available, and a request
// outside the available set fails with ErrInvalidVariable before any
// historical request is issued. All variables are fetched in a single
// comma-joined request, never one request per variable.
//
// The returned slice is the resolved variable order, which downstream
// alignment uses as column order.
func (c *Client) HistoricalSeries(ctx context.Context, buoyID int, variables []string) (map[string][]models.SeriesPoint, []string, error) {
	status, err := c.CurrentStatus(ctx, buoyID, true)
	if err != nil {
		return nil, nil, err
	}

	available := make(map[string]struct{}, len(status.Series))
	for _, name := range status.Series {
		available[name] = struct{}{}
	}

	if len(variables) == 0 {
		variables = append([]string(nil), status.Series...)
	} else {
		var missing []string
		for _, name := range variables {
			if _, ok := available[name]; !ok {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return nil, nil, fmt.Errorf("%w: %s (buoy %d offers %s)",
				ErrInvalidVariable,
				strings.Join(missing, ", "),
				buoyID,
				strings.Join(status.Series, ", "))
		}
	}

	header, err := c.session.authHeader(ErrHistoricalFetch)
	if err != nil {
		return nil, nil, err
	}

	var reports models.ReportsResponse
	url := fmt.Sprintf("%s/buoy/%d/reports?series=%s", c.session.endpoint, buoyID, strings.Join(variables, ","))
	if err := doJSON(ctx, c.client, http.MethodGet, url, nil, header, &reports, ErrHistoricalFetch); err != nil {
		return nil, nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"buoy_id":   buoyID,
		"variables": len(variables),
	}).Debug("Fetched historical series")

	return reports.Series.Series, variables, nil
}
