package reactive

import "reflect"

// sameValue reports whether old and new count as unchanged for trigger
// suppression. The comparison is identity-style: comparable values by ==,
// maps, slices and funcs by header identity, everything else as changed.
// Deep equality is deliberately not used; replacing a map with an equal
// but distinct map is a change.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	switch ta.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}
	return false
}

// Normalize rewrites a decoded-JSON value tree into wrappable shape:
// []any values become *[]any, recursively, sharing the original backing
// arrays; map[string]any and map[any]any values keep their identity and
// have their entries normalized in place. Scalars pass through.
//
//	var doc map[string]any
//	json.Unmarshal(data, &doc)
//	o := eng.Mutable(Normalize(doc).(map[string]any)).(*Object)
func Normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, ev := range x {
			x[k] = Normalize(ev)
		}
		return x
	case map[any]any:
		for k, ev := range x {
			x[k] = Normalize(ev)
		}
		return x
	case []any:
		for i := range x {
			x[i] = Normalize(x[i])
		}
		return &x
	case *[]any:
		for i := range *x {
			(*x)[i] = Normalize((*x)[i])
		}
		return x
	default:
		return v
	}
}
