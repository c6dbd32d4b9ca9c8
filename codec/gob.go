package codec

import (
	"bytes"
	"encoding/gob"
)

// Gob encodes values with encoding/gob. The zero value is ready to use.
// Interface-typed fields need their concrete types registered with gob.Register.
type Gob[V any] struct{}

var _ Codec[struct{}] = Gob[struct{}]{}

func (Gob[V]) Encode(v V) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Gob[V]) Decode(b []byte) (V, error) {
	var v V
	err := gob.NewDecoder(bytes.NewReader(b)).Decode(&v)
	return v, err
}
