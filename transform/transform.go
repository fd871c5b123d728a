// This package contains the [Func] type and the layer transforms inside subpackages.
package transform

// Func turns the decoded bytes of a layer into its output. Implementations never modify src
// and always return a new slice.
type Func func(src []byte) []byte

// Chain returns a Func applying fns in order.
func Chain(fns ...Func) Func {
	return func(src []byte) []byte {
		out := src
		for _, fn := range fns {
			out = fn(out)
		}
		if len(fns) == 0 {
			out = append([]byte(nil), src...)
		}
		return out
	}
}
