package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/ppiankov/tripparse/internal/model"
)

// Cache memoises extracted records by inquiry content
type Cache interface {
	Get(key string) (*model.ExtractedRecord, bool)
	Set(key string, rec *model.ExtractedRecord)
	Len() int
}

// CacheKey generates a cache key from raw inquiry bytes
func CacheKey(raw []byte) string {
	hash := sha256.Sum256(raw)
	return "tripparse:v1:" + hex.EncodeToString(hash[:])
}

// Clone returns a deep copy so cached records never alias caller state
func Clone(rec *model.ExtractedRecord) *model.ExtractedRecord {
	if rec == nil {
		return nil
	}
	out := *rec
	out.Fields = make(map[model.FieldID]model.Value, len(rec.Fields))
	for id, v := range rec.Fields {
		if v.List != nil {
			v.List = append([]string(nil), v.List...)
		}
		out.Fields[id] = v
	}
	if rec.Methods != nil {
		out.Methods = make(map[model.FieldID]model.Method, len(rec.Methods))
		for id, m := range rec.Methods {
			out.Methods[id] = m
		}
	}
	if rec.Warnings != nil {
		out.Warnings = append([]model.Warning(nil), rec.Warnings...)
	}
	return &out
}
