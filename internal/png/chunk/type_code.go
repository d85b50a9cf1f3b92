package chunk

// TypeCode is the 4-byte tag that identifies the kind of a chunk.
type TypeCode [4]byte

// TypeText is the type code of a text-comment chunk.
var TypeText = TypeCode{'t', 'E', 'X', 't'}

// TypeEnd is the type code of the chunk that ends an image.
var TypeEnd = TypeCode{'I', 'E', 'N', 'D'}

// Bytes returns the raw bytes of the type code.
func (t TypeCode) Bytes() []byte {
	return t[:]
}

// IsText returns whether the type code is the text-comment tag.
func (t TypeCode) IsText() bool {
	return t == TypeText
}

// String implements fmt.Stringer.
// Each byte is rendered as a Latin-1 character.
func (t TypeCode) String() string {
	r := make([]rune, len(t))
	for i, b := range t {
		r[i] = rune(b)
	}
	return string(r)
}
