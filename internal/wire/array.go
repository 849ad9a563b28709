package wire

// DecodeCompactArray reads a compact array of T using dec to decode
// each element. A null array (count byte 0) returns nil, false.
func DecodeCompactArray[T any](r *Reader, dec func(*Reader) (T, error)) ([]T, bool, error) {
	n, ok, err := r.CompactArrayLen()
	if err != nil || !ok {
		return nil, ok, err
	}
	items := make([]T, 0, n)
	for i := 0; i < n; i++ {
		item, err := dec(r)
		if err != nil {
			return nil, false, err
		}
		items = append(items, item)
	}
	return items, true, nil
}

// EncodeCompactArray writes items as a compact array using enc to
// encode each element. A nil items slice still encodes as an empty
// (non-null) array, matching this protocol's convention that this
// core never emits a null compact array in a response.
func EncodeCompactArray[T any](w *Writer, items []T, enc func(*Writer, T)) {
	w.CompactArrayLen(len(items), true)
	for _, item := range items {
		enc(w, item)
	}
}

func DecodeInt32(r *Reader) (int32, error) { return r.Int32() }

func EncodeInt32(w *Writer, v int32) { w.Int32(v) }
