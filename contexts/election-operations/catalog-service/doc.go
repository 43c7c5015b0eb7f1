// Package catalogservice implements the Election Catalog inside the
// election-operations context.
//
// The module owns election metadata and ballot structure management
// (elections, positions, candidates, options) for administrators, and serves
// read-only catalog views to voters. It keeps business rules in
// application/domain layers and isolates infrastructure concerns behind
// ports and adapters.
package catalogservice
