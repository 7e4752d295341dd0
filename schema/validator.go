// Package schema validates untrusted documents, both caller request
// bodies and model output, before anything downstream trusts them.
package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError names the offending field and the violated constraint.
type ValidationError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Constraint)
}

// ValidationErrors aggregates every violation found in one document.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validator checks documents against the fixed shapes in schemas.go.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewValidator compiles every document schema once, up front.
func NewValidator() (*Validator, error) {
	compiled := make(map[string]*gojsonschema.Schema, len(documentSchemas))
	for name, raw := range documentSchemas {
		s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile schema %q: %w", name, err)
		}
		compiled[name] = s
	}
	return &Validator{schemas: compiled}, nil
}

// Validate checks raw JSON against the named document schema. Numeric
// strings in positions where the schema expects a number are coerced, then
// the document is re-checked. Unknown fields are ignored. On success the
// decoded (possibly coerced) document is returned.
func (v *Validator) Validate(document string, raw []byte) (map[string]interface{}, ValidationErrors) {
	s, ok := v.schemas[document]
	if !ok {
		return nil, ValidationErrors{{Field: "$", Constraint: fmt.Sprintf("unknown document type %q", document)}}
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, ValidationErrors{{Field: "$", Constraint: "document is not a JSON object"}}
	}

	errs := v.check(s, doc)
	if len(errs) == 0 {
		return doc, nil
	}

	// A model may legally emit numbers as strings; coerce those fields
	// and check once more.
	coerced := false
	for _, ve := range errs {
		if ve.Constraint == "invalid type: expected number, got string" ||
			ve.Constraint == "invalid type: expected integer, got string" {
			if coerceNumericString(doc, ve.Field) {
				coerced = true
			}
		}
	}
	if !coerced {
		return nil, errs
	}

	if errs = v.check(s, doc); len(errs) > 0 {
		return nil, errs
	}
	return doc, nil
}

// ValidateValue checks an already-decoded value (for example one entry of
// an array inside a larger document).
func (v *Validator) ValidateValue(document string, value interface{}) ValidationErrors {
	s, ok := v.schemas[document]
	if !ok {
		return ValidationErrors{{Field: "$", Constraint: fmt.Sprintf("unknown document type %q", document)}}
	}
	if m, ok := value.(map[string]interface{}); ok {
		if errs := v.check(s, m); len(errs) > 0 {
			// Same coercion pass as Validate, entry-local.
			coerced := false
			for _, ve := range errs {
				if strings.HasPrefix(ve.Constraint, "invalid type: expected number") ||
					strings.HasPrefix(ve.Constraint, "invalid type: expected integer") {
					if coerceNumericString(m, ve.Field) {
						coerced = true
					}
				}
			}
			if coerced {
				return v.check(s, m)
			}
			return errs
		}
		return nil
	}
	return v.check(s, value)
}

func (v *Validator) check(s *gojsonschema.Schema, doc interface{}) ValidationErrors {
	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return ValidationErrors{{Field: "$", Constraint: err.Error()}}
	}
	if result.Valid() {
		return nil
	}

	errs := make(ValidationErrors, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:      re.Field(),
			Constraint: constraintMessage(re),
		})
	}
	return errs
}

func constraintMessage(re gojsonschema.ResultError) string {
	if re.Type() == "invalid_type" {
		expected, _ := re.Details()["expected"].(string)
		given, _ := re.Details()["given"].(string)
		if expected != "" && given != "" {
			return fmt.Sprintf("invalid type: expected %s, got %s", expected, given)
		}
	}
	return re.Description()
}

// coerceNumericString walks a dotted field path ("accounts.0.balance") and
// replaces a numeric string leaf with its float64 value. Returns whether a
// replacement happened.
func coerceNumericString(doc map[string]interface{}, path string) bool {
	segments := strings.Split(path, ".")
	var cur interface{} = doc
	for i, seg := range segments {
		last := i == len(segments)-1

		switch node := cur.(type) {
		case map[string]interface{}:
			if last {
				return replaceIfNumericString(node, seg)
			}
			next, ok := node[seg]
			if !ok {
				return false
			}
			cur = next
		case []interface{}:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return false
			}
			if last {
				str, ok := node[idx].(string)
				if !ok {
					return false
				}
				f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
				if err != nil {
					return false
				}
				node[idx] = f
				return true
			}
			cur = node[idx]
		default:
			return false
		}
	}
	return false
}

func replaceIfNumericString(node map[string]interface{}, key string) bool {
	str, ok := node[key].(string)
	if !ok {
		return false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return false
	}
	node[key] = f
	return true
}
