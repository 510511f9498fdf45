package programmatic

import "reflect"

// TypeOf returns the qualified name of v's named type, looking through
// pointers: TypeOf((*store.Order)(nil)) is "example.com/app/store.Order".
// It returns "" for unnamed types.
func TypeOf(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil || t.Name() == "" {
		return ""
	}

	if t.PkgPath() == "" {
		return t.Name()
	}

	return t.PkgPath() + "." + t.Name()
}
