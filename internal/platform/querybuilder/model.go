package querybuilder

import (
	"errors"
	"reflect"
	"strings"
	"sync"
)

type columnField struct {
	name  string
	index int
}

var columnPlans sync.Map // reflect.Type -> []columnField

// InsertModel builds a single-row insert from the exported `db`-tagged fields of a struct.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", nil, errors.New("insert model: nil pointer")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return "", nil, errors.New("insert model: not a struct")
	}

	plan := planFor(v.Type())
	if len(plan) == 0 {
		return "", nil, errors.New("insert model: no db columns")
	}

	cols := make([]string, len(plan))
	vals := make([]any, len(plan))
	for i, f := range plan {
		cols[i] = f.name
		vals[i] = v.Field(f.index).Interface()
	}
	return InsertInto(table).Columns(cols...).Values(vals...).Suffix(suffix).ToSQL()
}

func planFor(t reflect.Type) []columnField {
	if cached, ok := columnPlans.Load(t); ok {
		return cached.([]columnField)
	}

	plan := make([]columnField, 0, t.NumField())
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		plan = append(plan, columnField{name: name, index: i})
	}
	columnPlans.Store(t, plan)
	return plan
}
