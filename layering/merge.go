package layering

import "reflect"

// MergeLayers composes snapshots ordered from strongest to weakest. Nil
// slices, maps and pointers in a stronger layer fall through to the next
// weaker layer; non-nil slices replace weaker ones wholesale so an explicit
// empty order still wins.
func MergeLayers[T any](layers ...T) T {
	var zero T
	if len(layers) == 0 {
		return zero
	}

	merged := cloneValue(reflect.ValueOf(&layers[len(layers)-1]).Elem())
	for i := len(layers) - 2; i >= 0; i-- {
		merged = mergeValue(reflect.ValueOf(&layers[i]).Elem(), merged)
	}

	if !merged.IsValid() {
		return zero
	}
	out, _ := merged.Interface().(T)
	return out
}

func mergeValue(strong, weak reflect.Value) reflect.Value {
	if !strong.IsValid() {
		return cloneValue(weak)
	}

	switch strong.Kind() {
	case reflect.Pointer:
		if strong.IsNil() {
			return cloneValue(weak)
		}
		var weakElem reflect.Value
		if weak.IsValid() && weak.Kind() == reflect.Pointer && !weak.IsNil() {
			weakElem = weak.Elem()
		}
		out := reflect.New(strong.Type().Elem())
		out.Elem().Set(mergeValue(strong.Elem(), weakElem))
		return out
	case reflect.Interface:
		if strong.IsNil() {
			return cloneValue(weak)
		}
		return cloneValue(strong)
	case reflect.Struct:
		out := cloneValue(strong)
		if !weak.IsValid() || weak.Type() != strong.Type() {
			return out
		}
		for i := 0; i < strong.NumField(); i++ {
			field := out.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(mergeValue(strong.Field(i), weak.Field(i)))
		}
		return out
	case reflect.Map:
		if strong.IsNil() {
			return cloneValue(weak)
		}
		out := reflect.MakeMapWithSize(strong.Type(), strong.Len())
		if weak.IsValid() && weak.Kind() == reflect.Map && !weak.IsNil() {
			iter := weak.MapRange()
			for iter.Next() {
				out.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
			}
		}
		iter := strong.MapRange()
		for iter.Next() {
			if existing := out.MapIndex(iter.Key()); existing.IsValid() {
				out.SetMapIndex(iter.Key(), mergeValue(iter.Value(), existing))
				continue
			}
			out.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return out
	case reflect.Slice:
		if strong.IsNil() {
			return cloneValue(weak)
		}
		return cloneValue(strong)
	default:
		return cloneValue(strong)
	}
}
