package cbor

import "strconv"

// Transform rewrites a Value during traversal. On decode (a "reviver")
// it runs bottom-up: every element of a container has already been
// transformed by the time its parent is visited, and the whole tree is
// visited once more at the root. On encode (a "replacer") it runs
// top-down: the returned Value is what actually gets serialized, and
// is itself traversed recursively when it is a container.
//
// key is the map key of the visited element, the decimal index for
// array elements, and "" at the root.
type Transform func(key string, v Value) Value

// apply runs the transform when one is set.
func (t Transform) apply(key string, v Value) Value {
	if t == nil {
		return v
	}
	return t(key, v)
}

func indexKey(i int) string {
	return strconv.Itoa(i)
}
