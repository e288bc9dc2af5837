// Package bog implements a client for the BOG remote buoy telemetry service.
//
// # Architecture
//
// The client is structured into several key packages:
//   - transport: outbound HTTP capability and interceptor chain
//   - api: session lifecycle and per-buoy queries
//   - table: time-alignment of independently sampled series
//   - fleet: cross-buoy table assembly
//   - store: artifact sinks (delimited files, Postgres)
//   - config: YAML configuration
//
// Key behaviors
//
//   - Session lifecycle:
//     Authentication retries up to three times; the authorized buoy set is
//     loaded once per session and owned exclusively by the Session.
//
//   - Alignment:
//     Multiple named variable series are inner-joined on their timestamps,
//     so result tables never contain missing variable values.
//
//   - Fleet builds:
//     Historical tables concatenate per-buoy tables in caller order;
//     snapshots produce one row per authorized buoy. Both log the session
//     out afterwards.
//
// Example usage
//
//	session, err := api.NewSession(ctx, endpoint, creds, doer, logger)
//	client := api.NewClient(session, doer, logger)
//	agg := fleet.NewAggregator(session, client, sink, logger)
//	tbl, err := agg.BuildHistoricalTable(ctx, []int{72, 76}, nil)
//
// For more information about specific packages, see their respective
// documentation.
package bog
