// Package fleet drives per-buoy queries across many buoys and assembles the
// cross-buoy result tables. It owns no session state: it borrows an
// authenticated session, treats the fleet build as the end of the usage
// session, and logs out afterwards.
package fleet

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oceanobs/bog/internal/api"
	"github.com/oceanobs/bog/internal/store"
	"github.com/oceanobs/bog/internal/table"
)

// Aggregator builds per-buoy and fleet-wide tables and hands the finished
// artifacts to a sink.
type Aggregator struct {
	session *api.Session
	api     *api.Client
	sink    store.Sink
	logger  *logrus.Logger
}

// NewAggregator wires an aggregator over an authenticated session.
func NewAggregator(session *api.Session, client *api.Client, sink store.Sink, logger *logrus.Logger) *Aggregator {
	return &Aggregator{
		session: session,
		api:     client,
		sink:    sink,
		logger:  logger,
	}
}

// BuildBuoyTable assembles one buoy's requested variables into a single
// time-aligned table. Variable validation and the single batched fetch
// happen in the query layer; alignment keeps only timestamps present in
// every requested series, so no variable column has missing values.
// Positional series are renamed to buoy_lat/buoy_lon so they stay
// unambiguous once tables are combined across buoys. Columns come out as
// buoy_id, time, then variables in request order.
func (a *Aggregator) BuildBuoyTable(ctx context.Context, buoyID int, variables []string) (*table.Table, error) {
	series, order, err := a.api.HistoricalSeries(ctx, buoyID, variables)
	if err != nil {
		return nil, err
	}

	t := table.AlignSeries(series, order)
	t.Rename("position_latitude", "buoy_lat")
	t.Rename("position_longitude", "buoy_lon")
	t.PrependColumn("buoy_id", buoyID)
	return t, nil
}

// BuildHistoricalTable builds one table per buoy id, concatenates them in
// input order with a fresh row index, saves the artifact, and terminates
// the session. A single buoy's failure aborts the whole batch; there are no
// partial results.
func (a *Aggregator) BuildHistoricalTable(ctx context.Context, buoyIDs []int, variables []string) (*table.Table, error) {
	if len(buoyIDs) == 0 {
		return nil, fmt.Errorf("%w: historical build needs at least one buoy id", api.ErrEmptyRequest)
	}

	tables := make([]*table.Table, 0, len(buoyIDs))
	for _, id := range buoyIDs {
		t, err := a.BuildBuoyTable(ctx, id, variables)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	out := table.Concat(tables...)

	parts := make([]string, len(buoyIDs))
	for i, id := range buoyIDs {
		parts[i] = strconv.Itoa(id)
	}
	name := "buoys_" + strings.Join(parts, "_")

	location, err := a.sink.Save(ctx, name, out)
	if err != nil {
		return nil, err
	}
	a.logger.WithFields(logrus.Fields{
		"artifact": location,
		"buoys":    len(buoyIDs),
		"rows":     out.NumRows(),
	}).Info("Saved historical table")

	a.terminate(ctx)
	return out, nil
}

// BuildCurrentSnapshot produces one row per authorized buoy from its latest
// status, saves the artifact named by the freshest last_updated value, and
// terminates the session. The per-buoy scope check is skipped: the iterated
// ids come from the authorized set itself. Row order follows the stable
// authorized-id order; callers wanting most-recent-first sort on
// last_updated.
func (a *Aggregator) BuildCurrentSnapshot(ctx context.Context) (*table.Table, error) {
	out := table.New("buoy_id", "last_updated", "buoy_lat", "buoy_lon", "battery", "system_status")

	var maxUpdated int64
	for _, id := range a.session.AuthorizedBuoys() {
		status, err := a.api.CurrentStatus(ctx, id, false)
		if err != nil {
			return nil, err
		}

		out.Append(id, status.LastUpdated, status.Latitude, status.Longitude, status.Battery, status.SystemStatus)
		if status.LastUpdated > maxUpdated {
			maxUpdated = status.LastUpdated
		}
	}

	name := fmt.Sprintf("current_buoys_%d", maxUpdated)
	location, err := a.sink.Save(ctx, name, out)
	if err != nil {
		return nil, err
	}
	a.logger.WithFields(logrus.Fields{
		"artifact": location,
		"rows":     out.NumRows(),
	}).Info("Saved fleet snapshot")

	a.terminate(ctx)
	return out, nil
}

// terminate logs out best-effort. The artifact is already written by the
// time this runs, so a remote logout failure is logged, not returned.
func (a *Aggregator) terminate(ctx context.Context) {
	if err := a.session.Terminate(ctx); err != nil {
		a.logger.WithError(err).Warn("Logout failed, local session invalidated anyway")
	}
}
