package export

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// FromRecords flattens a slice of structs into a dataset. Columns follow the exported scalar
// fields in declaration order, named by their json tag. Nested structs and slices are skipped.
func FromRecords(title string, records interface{}) (Dataset, error) {
	v := reflect.ValueOf(records)
	if v.Kind() != reflect.Slice {
		return Dataset{}, fmt.Errorf("export records: expected slice, got %s", v.Kind())
	}
	elem := v.Type().Elem()
	for elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return Dataset{}, fmt.Errorf("export records: expected struct elements, got %s", elem.Kind())
	}

	type column struct {
		index int
		name  string
	}
	var columns []column
	for i := 0; i < elem.NumField(); i++ {
		f := elem.Field(i)
		if !f.IsExported() || !scalar(f.Type) {
			continue
		}
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		columns = append(columns, column{index: i, name: name})
	}

	ds := Dataset{Title: title, Headers: make([]string, len(columns)), Rows: make([]map[string]string, 0, v.Len())}
	for i, col := range columns {
		ds.Headers[i] = col.name
	}
	for i := 0; i < v.Len(); i++ {
		item := v.Index(i)
		for item.Kind() == reflect.Ptr {
			if item.IsNil() {
				break
			}
			item = item.Elem()
		}
		if item.Kind() != reflect.Struct {
			continue
		}
		row := make(map[string]string, len(columns))
		for _, col := range columns {
			row[col.name] = format(item.Field(col.index))
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

var timeType = reflect.TypeOf(time.Time{})

func scalar(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == timeType {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func format(v reflect.Value) string {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Type() == timeType {
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	}
	return ""
}
