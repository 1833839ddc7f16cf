package value

import "fmt"

// ObjFunction is a compiled function: its declared arity, its bytecode
// Chunk, and a handle to its name string (spec.md §3). The anonymous
// top-level script is represented the same way, with an empty Name.
type ObjFunction struct {
	HeapObject
	Arity int
	Chunk *Chunk
	Name  *ObjString
}

func (f *ObjFunction) Header() *HeapObject { return &f.HeapObject }

func (f *ObjFunction) String() string {
	if f.Name == nil || f.Name.Chars == "" {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}
func (*ObjFunction) Type() string { return "function" }

// functionSize is a fixed estimate of an ObjFunction allocation's size for
// bytes_allocated bookkeeping; the chunk's own backing arrays are not
// separately accounted for, matching the Rust original's size_of::<T>()
// approach of sizing the object header, not its owned heap buffers.
const functionSize = 64

// NewObjFunction constructs an ObjFunction with an empty chunk, ready for the
// compiler to emit into.
func NewObjFunction(name *ObjString) *ObjFunction {
	return &ObjFunction{
		HeapObject: HeapObject{kind: KindFunction, size: functionSize},
		Chunk:      NewChunk(),
		Name:       name,
	}
}
