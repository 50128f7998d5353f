package dto

import (
	"reflect"
	"strings"
)

// Normalize trims every string field of the struct pointed to by v and turns
// empty optional values (blank *string, zero *int64 references) into nil.
func Normalize(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			switch elem.Kind() {
			case reflect.String:
				trimmed := strings.TrimSpace(elem.String())
				if trimmed == "" {
					f.Set(reflect.Zero(f.Type()))
					continue
				}
				elem.SetString(trimmed)
			case reflect.Int, reflect.Int64:
				if elem.Int() == 0 {
					f.Set(reflect.Zero(f.Type()))
				}
			}
		}
	}
}
