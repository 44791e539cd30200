package driver

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// serializeProps converts a node's property map into JSON-friendly values.
func serializeProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = serializeValue(v)
	}
	return out
}

// serializeValue converts Neo4j temporal and container types into plain Go
// values safe for JSON encoding and cache storage.
func serializeValue(v any) any {
	switch val := v.(type) {
	case dbtype.Date:
		return val.Time().Format("2006-01-02")
	case dbtype.LocalDateTime:
		return val.Time().Format(time.RFC3339)
	case dbtype.LocalTime:
		return val.Time().Format("15:04:05")
	case dbtype.Time:
		return val.Time().Format(time.RFC3339)
	case dbtype.Duration:
		return val.String()
	case time.Time:
		return val.Format(time.RFC3339)
	case dbtype.Node:
		return serializeProps(val.Props)
	case dbtype.Relationship:
		return serializeProps(val.Props)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = serializeValue(item)
		}
		return out
	case map[string]any:
		return serializeProps(val)
	default:
		return v
	}
}
