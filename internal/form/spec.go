// Package form implements entity forms: validated create/edit payloads handed
// to a state container, with typeahead lookups and dirty-close confirmation.
package form

import (
	"context"
	"reflect"

	"github.com/noah-isme/guardforce-admin/internal/dto"
	"github.com/noah-isme/guardforce-admin/internal/models"
)

// Target is the container surface a form submits to.
type Target[E models.Identifiable, P any] interface {
	Create(ctx context.Context, payload P) (E, error)
	Update(ctx context.Context, id int64, payload P) (E, error)
}

// Spec declares one entity's form.
type Spec[E models.Identifiable, P any] struct {
	// Entity is the singular label used in notifications, e.g. "complaint".
	Entity string
	// Defaults returns the values of an empty create form.
	Defaults func() P
	// Tracked lists the json keys compared against the initial values to detect unsaved changes.
	// Empty means every field.
	Tracked []string
	// FromEntity binds a stored record into form values for editing.
	FromEntity func(E) P
	// Labels overrides the human label of a field.
	Labels map[string]string
}

func (s Spec[E, P]) defaults() P {
	if s.Defaults != nil {
		return s.Defaults()
	}
	var zero P
	return zero
}

func (s Spec[E, P]) label(field string) string {
	if l, ok := s.Labels[field]; ok {
		return l
	}
	return dto.Label(field)
}

// Dependency clears a dependent field when its parent changes.
type Dependency[P any] struct {
	Parent string
	// Fields are the dependent json keys cleared by Reset.
	Fields []string
	// Reset clears dependent values. It runs under the form lock.
	Reset func(values *P)
	// Refetch re-scopes dependent lookups to the new parent value.
	Refetch func(ctx context.Context, values P) error
}

// Resetter is implemented by lookups attached to a form.
type Resetter interface {
	Reset()
}

// fieldValue returns the dereferenced value of the field tagged json:key, or nil.
func fieldValue(v interface{}, key string) interface{} {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		if dto.JSONName(rt.Field(i)) != key {
			continue
		}
		f := rv.Field(i)
		if f.Kind() == reflect.Ptr {
			if f.IsNil() {
				return nil
			}
			f = f.Elem()
		}
		return f.Interface()
	}
	return nil
}

// jsonKeys lists the json keys of a struct type in declaration order.
func jsonKeys(v interface{}) []string {
	rt := reflect.TypeOf(v)
	for rt != nil && rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil
	}
	keys := make([]string, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		if name := dto.JSONName(rt.Field(i)); name != "" && rt.Field(i).IsExported() {
			keys = append(keys, name)
		}
	}
	return keys
}
