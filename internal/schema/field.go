// Package schema holds the single declarative definition of the two model
// output contracts (presentation plan and cloning instructions).
//
// A definition is an ordered Field tree. The same tree is rendered into the
// JSON skeleton embedded in prompts (RenderPrompt) and compiled into an
// openapi3 schema used to validate model output (Compile), so field names and
// enum values exist in exactly one place.
package schema

// Type is the JSON type of a Field
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
)

// Field is one node of a schema definition
type Field struct {
	Name        string
	Type        Type
	Description string
	Optional    bool
	Enum        []string
	Min         *float64
	Fields      []Field // object members, in prompt order
	Items       *Field  // array element
}

func minimum(v float64) *float64 {
	return &v
}

// Object builds an object field
func Object(name string, fields ...Field) Field {
	return Field{Name: name, Type: TypeObject, Fields: fields}
}

// ArrayOf builds an array field whose elements are described by items
func ArrayOf(name string, items Field) Field {
	return Field{Name: name, Type: TypeArray, Items: &items}
}

// String builds a string field
func String(name, description string) Field {
	return Field{Name: name, Type: TypeString, Description: description}
}

// Integer builds an integer field
func Integer(name, description string) Field {
	return Field{Name: name, Type: TypeInteger, Description: description}
}

// Number builds a number field
func Number(name, description string) Field {
	return Field{Name: name, Type: TypeNumber, Description: description}
}

// Enum builds a string field restricted to values
func Enum(name string, values ...string) Field {
	return Field{Name: name, Type: TypeString, Enum: values}
}

// Opt marks the field as optional
func (f Field) Opt() Field {
	f.Optional = true
	return f
}

// AtLeast sets an inclusive numeric minimum
func (f Field) AtLeast(v float64) Field {
	f.Min = minimum(v)
	return f
}

// Describe sets the description shown in prompts
func (f Field) Describe(description string) Field {
	f.Description = description
	return f
}

// Lookup walks a dotted path of object member names (array levels are
// traversed implicitly) and returns the field found there.
func (f Field) Lookup(path ...string) (Field, bool) {
	cur := f
	for _, name := range path {
		for cur.Type == TypeArray && cur.Items != nil {
			cur = *cur.Items
		}
		found := false
		for _, child := range cur.Fields {
			if child.Name == name {
				cur = child
				found = true
				break
			}
		}
		if !found {
			return Field{}, false
		}
	}
	return cur, true
}
