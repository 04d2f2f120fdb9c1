package schema

import "github.com/getkin/kin-openapi/openapi3"

// Compile turns a definition into an openapi3 schema suitable for VisitJSON.
// Optional members are left out of the required list; unknown members are
// tolerated and dropped by the typed decode that follows validation.
func Compile(f Field) *openapi3.Schema {
	var s *openapi3.Schema

	switch f.Type {
	case TypeObject:
		s = openapi3.NewObjectSchema()
		required := make([]string, 0, len(f.Fields))
		for _, child := range f.Fields {
			s.WithProperty(child.Name, Compile(child))
			if !child.Optional {
				required = append(required, child.Name)
			}
		}
		s.Required = required
	case TypeArray:
		s = openapi3.NewArraySchema()
		if f.Items != nil {
			s.WithItems(Compile(*f.Items))
		}
	case TypeInteger:
		s = openapi3.NewIntegerSchema()
	case TypeNumber:
		s = openapi3.NewFloat64Schema()
	default:
		s = openapi3.NewStringSchema()
		if len(f.Enum) > 0 {
			values := make([]interface{}, len(f.Enum))
			for i, v := range f.Enum {
				values[i] = v
			}
			s.WithEnum(values...)
		}
	}

	if f.Min != nil {
		s.WithMin(*f.Min)
	}
	s.Description = f.Description
	return s
}
