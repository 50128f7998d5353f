package dto

import (
	"fmt"
	"sort"
	"strings"

	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
)

// TransitionRule declares one domain action of an entity and the payload it accepts.
type TransitionRule struct {
	Action string
	// Field is the payload key carrying the new value; empty means the action takes no payload.
	Field string
	// OneOf restricts string values of Field.
	OneOf []string
	// Flags lists boolean payload keys, any subset of which may be present.
	Flags []string
}

// Validate checks payload against the rule and returns the cleaned payload.
func (r TransitionRule) Validate(payload map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	fields := map[string]string{}

	if r.Field != "" {
		raw, ok := payload[r.Field]
		value, isString := raw.(string)
		value = strings.TrimSpace(value)
		switch {
		case !ok || (isString && value == ""):
			fields[r.Field] = fmt.Sprintf("%s is required", Label(r.Field))
		case isString && len(r.OneOf) > 0 && !contains(r.OneOf, value):
			fields[r.Field] = fmt.Sprintf("%s must be one of: %s", Label(r.Field), strings.Join(r.OneOf, ", "))
		case isString:
			out[r.Field] = value
		case len(r.OneOf) > 0:
			fields[r.Field] = fmt.Sprintf("%s must be one of: %s", Label(r.Field), strings.Join(r.OneOf, ", "))
		default:
			out[r.Field] = raw
		}
	}
	for _, flag := range r.Flags {
		raw, ok := payload[flag]
		if !ok {
			continue
		}
		b, isBool := raw.(bool)
		if !isBool {
			fields[flag] = fmt.Sprintf("%s must be true or false", Label(flag))
			continue
		}
		out[flag] = b
	}
	if len(r.Flags) > 0 && len(out) == 0 && len(fields) == 0 {
		keys := append([]string(nil), r.Flags...)
		sort.Strings(keys)
		fields[keys[0]] = fmt.Sprintf("%s is required", Label(keys[0]))
	}

	if len(fields) > 0 {
		err := appErrors.Clone(appErrors.ErrValidation, "validation failed")
		err.Fields = fields
		return nil, err
	}
	return out, nil
}

// Label turns a json key into a human label: "reported_by_id" -> "Reported By".
func Label(key string) string {
	parts := strings.Split(key, "_")
	if len(parts) > 1 && parts[len(parts)-1] == "id" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
