// Package cache provides the TTL result cache used by the query layer.
//
// Graph query results and vector search results are cached under the md5 of
// the request text so that repeated questions inside the freshness window
// skip the database round trip. Entries expire after the configured TTL and
// are recomputed on the next access; a background sweep is optional and only
// reclaims memory earlier.
package cache
