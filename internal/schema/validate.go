package schema

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Field names are lower snake case without doubled underscores, which keep
// the environment naming convention unambiguous.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)

// Validate checks the schema definition itself: names, kinds, defaults and
// uniqueness of sibling names.
func (s *Schema) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Fields,
			validation.Required,
			validation.By(uniqueNames),
		),
	)
}

// Validate implements validation.Validatable.
func (f Field) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name,
			validation.Required,
			validation.Match(namePattern).Error("must be lower snake case"),
		),
		validation.Field(&f.Kind,
			validation.Required,
			validation.In(KindBool, KindInt, KindFloat, KindString, KindStringList, KindObject),
		),
		validation.Field(&f.Default,
			validation.By(defaultMatchesKind(f)),
		),
		validation.Field(&f.Optional,
			validation.When(f.Kind != KindObject, validation.Empty.Error("only objects can be optional")),
		),
		validation.Field(&f.Fields,
			validation.When(f.Kind == KindObject, validation.Required, validation.By(uniqueNames)).
				Else(validation.Empty.Error("only objects can have sub-fields")),
		),
	)
}

func defaultMatchesKind(f Field) validation.RuleFunc {
	return func(value interface{}) error {
		if f.Default == nil {
			return nil
		}
		if f.Required {
			return errors.New("required fields cannot have a default")
		}
		var ok bool
		switch f.Kind {
		case KindBool:
			_, ok = f.Default.(bool)
		case KindInt:
			_, ok = f.Default.(int)
		case KindFloat:
			_, ok = f.Default.(float64)
		case KindString:
			_, ok = f.Default.(string)
		case KindStringList:
			_, ok = f.Default.([]string)
		case KindObject:
			return errors.New("objects cannot have a default")
		}
		if !ok {
			return validation.NewError("validation_default_kind", "default does not match kind "+f.Kind.String())
		}
		return nil
	}
}

func uniqueNames(value interface{}) error {
	fields, ok := value.([]Field)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a list of fields")
	}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			return validation.NewError("validation_duplicate_field", "duplicate field name "+f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}
