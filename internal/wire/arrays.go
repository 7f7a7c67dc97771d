package wire

import "strconv"

// Array-encoded list attributes: an "arraySize" attribute giving the element
// count, plus indexed keys "x0".."xN-1". One array per fragment.

const arraySizeKey = "arraySize"

func arrayKey(i int) string {
	return "x" + strconv.Itoa(i)
}

// SetArray writes values as an array-encoded attribute set.
func (f *Fragment) SetArray(values []string) *Fragment {
	f.SetInt(arraySizeKey, len(values))
	for i, v := range values {
		f.Set(arrayKey(i), v)
	}
	return f
}

// GetArray reads the array-encoded attribute set back, or nil when absent.
func (f *Fragment) GetArray() []string {
	n := f.GetInt(arraySizeKey, -1)
	if n < 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		v, ok := f.Lookup(arrayKey(i))
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}
