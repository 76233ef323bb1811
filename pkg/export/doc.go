// Package export converts whole-catalog snapshots to and from portable
// formats (JSON, YAML and sectioned pipe text) and imports snapshots back
// into a catalog.
package export
