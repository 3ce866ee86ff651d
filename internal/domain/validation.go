package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Validation error kinds.
const (
	KindRequired = "required"
	KindCast     = "cast"
)

// FieldError describes one offending field.
type FieldError struct {
	Path    string
	Kind    string
	Message string
}

// ValidationError is returned when a raw payload cannot become a Video.
// Its message uses the mongoose wording API clients already parse:
//
//	FavYoutubeVideo validation failed: title: Path `title` is required.
type ValidationError struct {
	Model  string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Path+": "+f.Message)
	}
	return e.Model + " validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) required(path string) {
	e.Fields = append(e.Fields, FieldError{
		Path:    path,
		Kind:    KindRequired,
		Message: fmt.Sprintf("Path `%s` is required.", path),
	})
}

func (e *ValidationError) cast(path, want string, value any) {
	e.Fields = append(e.Fields, FieldError{
		Path: path,
		Kind: KindCast,
		Message: fmt.Sprintf("Cast to %s failed for value %s (type %s) at path %q",
			want, render(value), typeName(value), path),
	})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NormalizeThumbnail drops a present but falsy thumbnailUrl ("" / false / 0 / null)
// so the field stays absent instead of being stored empty.
func NormalizeThumbnail(raw map[string]any) {
	if v, ok := raw["thumbnailUrl"]; ok && isFalsy(v) {
		delete(raw, "thumbnailUrl")
	}
}

// NewVideo builds a Video from a decoded JSON (or YAML) object.
// title, description and youtuberName must be non-empty strings, watched
// defaults to false. Unknown keys, including any client supplied _id, are ignored.
func NewVideo(raw map[string]any) (*Video, error) {
	NormalizeThumbnail(raw)

	verr := &ValidationError{Model: ModelName}
	v := &Video{}

	v.Title, _ = requiredString(raw, "title", verr)
	v.Description, _ = requiredString(raw, "description", verr)

	if val, ok := raw["thumbnailUrl"]; ok {
		if s, isStr := val.(string); isStr {
			v.ThumbnailURL = s
		} else {
			verr.cast("thumbnailUrl", "string", val)
		}
	}

	if val, ok := raw["watched"]; ok && val != nil {
		if b, isBool := val.(bool); isBool {
			v.Watched = b
		} else {
			verr.cast("watched", "Boolean", val)
		}
	}

	v.YoutuberName, _ = requiredString(raw, "youtuberName", verr)

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return v, nil
}

// NewPatch builds a VideoPatch from a decoded JSON object. Only keys present
// in raw end up in the patch; present values follow the same rules as NewVideo.
func NewPatch(raw map[string]any) (VideoPatch, error) {
	NormalizeThumbnail(raw)

	verr := &ValidationError{Model: ModelName}
	var p VideoPatch

	for _, path := range []string{"title", "description", "youtuberName"} {
		if _, ok := raw[path]; !ok {
			continue
		}
		s, ok := requiredString(raw, path, verr)
		if !ok {
			continue
		}
		switch path {
		case "title":
			p.Title = &s
		case "description":
			p.Description = &s
		case "youtuberName":
			p.YoutuberName = &s
		}
	}

	if val, ok := raw["thumbnailUrl"]; ok {
		if s, isStr := val.(string); isStr {
			p.ThumbnailURL = &s
		} else {
			verr.cast("thumbnailUrl", "string", val)
		}
	}

	if val, ok := raw["watched"]; ok {
		switch b := val.(type) {
		case nil:
			verr.required("watched")
		case bool:
			p.Watched = &b
		default:
			verr.cast("watched", "Boolean", val)
		}
	}

	if err := verr.orNil(); err != nil {
		return VideoPatch{}, err
	}
	return p, nil
}

func requiredString(raw map[string]any, path string, verr *ValidationError) (string, bool) {
	val, ok := raw[path]
	if !ok || val == nil {
		verr.required(path)
		return "", false
	}
	s, isStr := val.(string)
	if !isStr {
		verr.cast(path, "string", val)
		return "", false
	}
	if s == "" {
		verr.required(path)
		return "", false
	}
	return s, true
}

func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return x == ""
	case float64:
		return x == 0 || math.IsNaN(x)
	case int:
		return x == 0
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	default:
		return false
	}
}

func typeName(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, int, int64, json.Number:
		return "number"
	case []any:
		return "Array"
	case map[string]any:
		return "Object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func render(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
