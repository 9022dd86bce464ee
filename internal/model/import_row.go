package model

import (
	"fmt"
	"strings"
	"time"
)

// ImportType names the entity an import run targets, e.g. "product" or "category".
type ImportType string

const (
	ImportTypeProduct  ImportType = "product"
	ImportTypeCategory ImportType = "category"
)

// IdentifierKey is the row column that identifies a record of this import type.
func (t ImportType) IdentifierKey() string {
	switch strings.ToLower(string(t)) {
	case "product", "products":
		return "sku"
	default:
		return "code"
	}
}

// Row is one imported record keyed by column name.
type Row map[string]any

// Identifier returns the record key for the given import type, or "" when absent.
func (r Row) Identifier(t ImportType) string {
	v, ok := r[t.IdentifierKey()]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Clone returns a shallow copy so transforms never mutate the caller's row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// TransformedRow is a row after field processing plus the storage keys
// downloaded while producing it.
type TransformedRow struct {
	Row     Row
	Fetched []string
}

// ImportRow is a transformed row as persisted after an import run.
type ImportRow struct {
	ID         string     `json:"id"`
	ImportType ImportType `json:"import_type"`
	Identifier string     `json:"identifier"`
	Data       Row        `json:"data"`
	CreatedAt  time.Time  `json:"created_at"`
}
