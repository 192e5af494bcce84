// Package types defines the export data model, store configuration and
// standard errors for timelog: column projections, join descriptors,
// export options and the attribute entries pivoted into exported rows.
package types
