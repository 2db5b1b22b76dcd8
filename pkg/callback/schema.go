package callback

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Schema is a declared button-payload shape. Declare one per distinct kind
// of button, typically as a package-level var:
//
//	var pagerCB = callback.Must(callback.New("pager",
//		callback.Int("page"),
//		callback.String("query").Optional(),
//	))
type Schema struct {
	prefix string
	sep    string
	fields []Field
	index  map[string]int
}

// New declares a schema with the default ":" separator.
func New(prefix string, fields ...Field) (*Schema, error) {
	return NewSep(prefix, DefaultSeparator, fields...)
}

// NewSep declares a schema with an explicit separator.
func NewSep(prefix, sep string, fields ...Field) (*Schema, error) {
	if prefix == "" {
		return nil, fmt.Errorf("%w: empty prefix", ErrBadSchema)
	}
	if sep == "" {
		return nil, fmt.Errorf("%w: empty separator", ErrBadSchema)
	}
	if strings.Contains(prefix, sep) {
		return nil, fmt.Errorf("%w: separator %q can not be used inside prefix %q", ErrBadSchema, sep, prefix)
	}

	s := &Schema{
		prefix: prefix,
		sep:    sep,
		fields: append([]Field(nil), fields...),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range s.fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: field %d has no name", ErrBadSchema, i)
		}
		if f.Kind == 0 || f.Kind > KindUUID {
			return nil, fmt.Errorf("%w: field %q has invalid kind", ErrBadSchema, f.Name)
		}
		if f.Kind == KindEnum && len(f.Enum) == 0 {
			return nil, fmt.Errorf("%w: enum field %q has no values", ErrBadSchema, f.Name)
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrBadSchema, f.Name)
		}
		s.index[f.Name] = i
	}
	return s, nil
}

// Must panics on schema declaration errors. Bad prefixes and separators are
// programmer errors and should surface at startup.
func Must(s *Schema, err error) *Schema {
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Prefix() string    { return s.prefix }
func (s *Schema) Separator() string { return s.sep }

// Fields returns a copy of the declared field list, in wire order.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Instance is a concrete, immutable value record conforming to a Schema.
// Values are normalized at construction; an Instance that exists can
// always be encoded (modulo separator collisions and the length cap).
type Instance struct {
	schema *Schema
	vals   []any
}

// New builds an instance from one value per declared field, in order.
// Nil stands for an absent value and is only allowed on nullable fields.
// A value of an unsupported runtime type fails with ErrUnencodable.
func (s *Schema) New(vals ...any) (*Instance, error) {
	if len(vals) != len(s.fields) {
		return nil, fmt.Errorf("%w: schema %q takes %d values but %d were given",
			ErrArityMismatch, s.prefix, len(s.fields), len(vals))
	}
	norm := make([]any, len(vals))
	for i, f := range s.fields {
		v, err := normalize(f, vals[i])
		if err != nil {
			return nil, err
		}
		norm[i] = v
	}
	return &Instance{schema: s, vals: norm}, nil
}

// MustNew is New for values known valid at compile time.
func (s *Schema) MustNew(vals ...any) *Instance {
	in, err := s.New(vals...)
	if err != nil {
		panic(err)
	}
	return in
}

// normalize coerces v into the canonical in-memory form for its field kind:
// int64, string, float64, decimal.Decimal, *big.Rat, bool, uuid.UUID or nil.
func normalize(f Field, v any) (any, error) {
	if v == nil {
		if !f.Nullable {
			return nil, fmt.Errorf("%w: field %q is not nullable", ErrUnencodable, f.Name)
		}
		return nil, nil
	}

	switch f.Kind {
	case KindInt:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int8:
			return int64(n), nil
		case int16:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case uint:
			return int64(n), nil
		case uint8:
			return int64(n), nil
		case uint16:
			return int64(n), nil
		case uint32:
			return int64(n), nil
		}
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindFloat:
		switch n := v.(type) {
		case float32:
			return float64(n), nil
		case float64:
			return n, nil
		}
	case KindDecimal:
		if d, ok := v.(decimal.Decimal); ok {
			return d, nil
		}
	case KindRational:
		if r, ok := v.(*big.Rat); ok && r != nil {
			return new(big.Rat).Set(r), nil
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindEnum:
		tok, ok := enumToken(v)
		if !ok {
			break
		}
		if !f.enumAllows(tok) {
			return nil, fmt.Errorf("%w: field %q: %q is not one of %v",
				ErrUnencodable, f.Name, tok, f.Enum)
		}
		return tok, nil
	case KindUUID:
		if u, ok := v.(uuid.UUID); ok {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: field %q: value %v of type %T can not be packed to callback data",
		ErrUnencodable, f.Name, v, v)
}

// enumToken extracts the underlying scalar token of an enumerated value.
func enumToken(v any) (string, bool) {
	switch e := v.(type) {
	case string:
		return e, true
	case fmt.Stringer:
		return e.String(), true
	case int:
		return fmt.Sprintf("%d", e), true
	}
	return "", false
}

// Schema returns the schema this instance conforms to.
func (in *Instance) Schema() *Schema { return in.schema }

// Get returns the normalized value of the named field. Absent values come
// back as a nil any with ok=true; an unknown name yields ok=false.
func (in *Instance) Get(name string) (any, bool) {
	i, ok := in.schema.index[name]
	if !ok {
		return nil, false
	}
	return in.vals[i], true
}

// IsNil reports whether the named field holds an absent value.
func (in *Instance) IsNil(name string) bool {
	v, ok := in.Get(name)
	return ok && v == nil
}

func (in *Instance) Int(name string) (int64, bool) {
	v, _ := in.Get(name)
	n, ok := v.(int64)
	return n, ok
}

func (in *Instance) String(name string) (string, bool) {
	v, _ := in.Get(name)
	s, ok := v.(string)
	return s, ok
}

func (in *Instance) Float(name string) (float64, bool) {
	v, _ := in.Get(name)
	f, ok := v.(float64)
	return f, ok
}

func (in *Instance) Bool(name string) (bool, bool) {
	v, _ := in.Get(name)
	b, ok := v.(bool)
	return b, ok
}

func (in *Instance) Decimal(name string) (decimal.Decimal, bool) {
	v, _ := in.Get(name)
	d, ok := v.(decimal.Decimal)
	return d, ok
}

func (in *Instance) Rational(name string) (*big.Rat, bool) {
	v, _ := in.Get(name)
	r, ok := v.(*big.Rat)
	if !ok {
		return nil, false
	}
	return new(big.Rat).Set(r), true
}

func (in *Instance) UUID(name string) (uuid.UUID, bool) {
	v, _ := in.Get(name)
	u, ok := v.(uuid.UUID)
	return u, ok
}

// Equal reports whether two instances share a schema and agree on every
// field value.
func (in *Instance) Equal(other *Instance) bool {
	if in == nil || other == nil {
		return in == other
	}
	if in.schema != other.schema {
		return false
	}
	for i := range in.vals {
		if !valueEqual(in.vals[i], other.vals[i]) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case *big.Rat:
		bv, ok := b.(*big.Rat)
		return ok && av.Cmp(bv) == 0
	case decimal.Decimal:
		bv, ok := b.(decimal.Decimal)
		return ok && av.Equal(bv)
	default:
		return a == b
	}
}
