package callback

// Kind enumerates the value kinds a schema field may hold. The set is
// closed on purpose: encoding dispatches exhaustively over it instead of
// probing runtime types.
type Kind uint8

const (
	KindInt Kind = iota + 1
	KindString
	KindFloat
	KindDecimal
	KindRational
	KindBool
	KindEnum
	KindUUID
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindRational:
		return "rational"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	case KindUUID:
		return "uuid"
	default:
		return "invalid"
	}
}

// Field is one declared schema field: name, kind and nullability.
// Nullable fields encode nil as the empty token and decode the empty
// token back to nil.
type Field struct {
	Name     string
	Kind     Kind
	Nullable bool

	// Enum holds the allowed tokens for KindEnum fields.
	Enum []string
}

// Optional returns a copy of the field marked nullable.
func (f Field) Optional() Field {
	f.Nullable = true
	return f
}

func Int(name string) Field    { return Field{Name: name, Kind: KindInt} }
func String(name string) Field { return Field{Name: name, Kind: KindString} }
func Float(name string) Field  { return Field{Name: name, Kind: KindFloat} }
func Bool(name string) Field   { return Field{Name: name, Kind: KindBool} }
func UUID(name string) Field   { return Field{Name: name, Kind: KindUUID} }

// Decimal declares an exact-decimal field (shopspring decimal values).
func Decimal(name string) Field { return Field{Name: name, Kind: KindDecimal} }

// Rational declares a big.Rat field, encoded as "p/q".
func Rational(name string) Field { return Field{Name: name, Kind: KindRational} }

// EnumOf declares a field restricted to the given tokens.
func EnumOf(name string, values ...string) Field {
	return Field{Name: name, Kind: KindEnum, Enum: values}
}

func (f Field) enumAllows(token string) bool {
	for _, v := range f.Enum {
		if v == token {
			return true
		}
	}
	return false
}
