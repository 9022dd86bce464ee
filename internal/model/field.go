package model

import (
	"encoding/json"
	"strings"
)

// FieldType is the closed set of attribute types the import transform knows about.
type FieldType string

const (
	FieldTypeGallery  FieldType = "gallery"
	FieldTypeImage    FieldType = "image"
	FieldTypeFile     FieldType = "file"
	FieldTypeTextarea FieldType = "textarea"
	// FieldTypeOther covers every attribute type whose values pass through untouched.
	FieldTypeOther FieldType = "other"
)

// ParseFieldType maps a raw attribute type name onto a FieldType.
// Unknown names become FieldTypeOther.
func ParseFieldType(s string) FieldType {
	switch ft := FieldType(strings.ToLower(strings.TrimSpace(s))); ft {
	case FieldTypeGallery, FieldTypeImage, FieldTypeFile, FieldTypeTextarea:
		return ft
	default:
		return FieldTypeOther
	}
}

// IsMedia reports whether values of this type reference stored files.
func (t FieldType) IsMedia() bool {
	return t == FieldTypeGallery || t == FieldTypeImage || t == FieldTypeFile
}

// Field describes one imported attribute column.
// Code is the attribute code; RawType keeps the original type name for logs.
type Field struct {
	Code          string    `json:"code"`
	Type          FieldType `json:"type"`
	RawType       string    `json:"-"`
	EnableWYSIWYG bool      `json:"enable_wysiwyg"`
}

// NewField builds a Field from a raw attribute type name.
func NewField(code, rawType string, wysiwyg bool) Field {
	return Field{
		Code:          code,
		Type:          ParseFieldType(rawType),
		RawType:       rawType,
		EnableWYSIWYG: wysiwyg,
	}
}

// UnmarshalJSON normalizes the type name so decoded fields always carry a known FieldType.
func (f *Field) UnmarshalJSON(b []byte) error {
	var raw struct {
		Code          string `json:"code"`
		Type          string `json:"type"`
		EnableWYSIWYG bool   `json:"enable_wysiwyg"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*f = NewField(raw.Code, raw.Type, raw.EnableWYSIWYG)
	return nil
}

// MediaSegment is the directory downloaded media of this field is stored in:
// the field's type name, so every image column of a row shares ".../image".
func (f Field) MediaSegment() string {
	return string(f.Type)
}
