package core

// Value is the result of evaluating a variable for one request.
//
// The zero Value is "not found": the variable is undefined for this request.
// A found Value may have zero-length Data, which is distinct from not found.
// Data frequently aliases the request body or the request arena and must not
// be retained after the owning Request is released.
type Value struct {
	Data  []byte
	Found bool
}

// NotFound is the undefined variable value.
var NotFound = Value{}

var (
	trueData  = []byte("1")
	falseData = []byte("0")
)

// ValueOf returns a found Value holding b without copying it.
func ValueOf(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{Data: b, Found: true}
}

// BoolValue returns the single-byte "1" or "0" Value.
func BoolValue(b bool) Value {
	if b {
		return Value{Data: trueData, Found: true}
	}
	return Value{Data: falseData, Found: true}
}

// String returns the data as a string, or "" when not found.
func (v Value) String() string {
	if !v.Found {
		return ""
	}
	return string(v.Data)
}

// Bool reports whether v is the found value "1".
func (v Value) Bool() bool {
	return v.Found && len(v.Data) == 1 && v.Data[0] == '1'
}
