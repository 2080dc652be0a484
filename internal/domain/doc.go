// Package domain models the wildfire-impact scenario that the dashboard renders.
//
// # Data Sources
//
// Scenarios come from the TerraNova API (`/api/scenario`) or, when that call
// fails for any reason, from the fallback builders in this package. Fire
// catalogs come from `/api/fires` or the bundled [FallbackFires] list.
//
// # Coordinates
//
// Every coordinate is a WGS-84 latitude/longitude pair. On the wire a
// coordinate is a two-element JSON array `[lat, lng]`, matching Leaflet's
// LatLng literal. See [LatLng].
//
// # Merge Rules
//
// A server payload is layered over a fallback scenario by [Merge]:
//
//	scalars:  payload value when present, else fallback
//	stats:    key-wise union, payload wins per key
//	layers:   key-wise union, payload wins per key (an empty payload layer clears it)
//	lists:    payload list when non-empty, else fallback list
//
// An empty list from the server never erases fallback content. This keeps
// the dashboard demoable when the backend returns partial data.
//
// # Determinism
//
// Fallback scenarios jitter coordinates for visual variety, but the jitter is
// seeded from the selection (fire, timeline, weights, role, horizon), so the
// same selection always produces the same scenario.
package domain
