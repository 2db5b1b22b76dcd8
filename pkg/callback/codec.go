package callback

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Encode serializes the instance to "prefix SEP v1 SEP ... SEP vN" in field
// declaration order. It fails with ErrSeparatorCollision when an encoded
// value contains the separator (checked per field, so the error names the
// culprit) and with ErrPayloadTooLong when the joined string exceeds
// MaxPayloadLen bytes.
func (in *Instance) Encode() (string, error) {
	return in.encode(true)
}

func (in *Instance) encode(bounded bool) (string, error) {
	s := in.schema
	parts := make([]string, 0, len(in.vals)+1)
	parts = append(parts, s.prefix)
	for i, f := range s.fields {
		tok := encodeValue(in.vals[i])
		if strings.Contains(tok, s.sep) {
			return "", fmt.Errorf("%w: separator %q can not be used in value %s=%q",
				ErrSeparatorCollision, s.sep, f.Name, tok)
		}
		parts = append(parts, tok)
	}

	data := strings.Join(parts, s.sep)
	if bounded && len(data) > MaxPayloadLen {
		return "", fmt.Errorf("%w: len(%q) = %d > %d", ErrPayloadTooLong, data, len(data), MaxPayloadLen)
	}
	return data, nil
}

// encodeValue renders one normalized value as its wire token.
// Absent values become the empty token; that is why a nullable field
// holding a genuinely empty string is indistinguishable from an absent one
// after a round trip (see Decode).
func encodeValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case decimal.Decimal:
		return x.String()
	case *big.Rat:
		return x.RatString()
	case bool:
		if x {
			return "1"
		}
		return "0"
	case uuid.UUID:
		return hex.EncodeToString(x[:])
	default:
		// Unreachable: normalize() only admits the cases above.
		return fmt.Sprint(x)
	}
}

// Decode parses a raw callback payload back into an instance.
//
// Matching is positional: the first token must equal the schema prefix and
// the remaining tokens map onto fields in declaration order. The value
// count is checked before the prefix (ErrArityMismatch, then
// ErrPrefixMismatch); coercion failures surface as ErrMalformed.
//
// An empty token on a nullable field decodes as absent. This is lossy by
// convention: a nullable string field that held "" comes back as nil.
func (s *Schema) Decode(raw string) (*Instance, error) {
	parts := strings.Split(raw, s.sep)
	prefix, tokens := parts[0], parts[1:]

	if len(tokens) != len(s.fields) {
		return nil, fmt.Errorf("%w: schema %q takes %d values but %d were given",
			ErrArityMismatch, s.prefix, len(s.fields), len(tokens))
	}
	if prefix != s.prefix {
		return nil, fmt.Errorf("%w: %q != %q", ErrPrefixMismatch, prefix, s.prefix)
	}

	vals := make([]any, len(tokens))
	for i, f := range s.fields {
		tok := tokens[i]
		if tok == "" && f.Nullable {
			continue
		}
		v, err := decodeToken(f, tok)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s=%q: %v", ErrMalformed, f.Name, tok, err)
		}
		vals[i] = v
	}
	return &Instance{schema: s, vals: vals}, nil
}

// decodeToken coerces one wire token into the field's canonical value form.
func decodeToken(f Field, tok string) (any, error) {
	switch f.Kind {
	case KindInt:
		return strconv.ParseInt(tok, 10, 64)
	case KindString:
		return tok, nil
	case KindFloat:
		return strconv.ParseFloat(tok, 64)
	case KindDecimal:
		return decimal.NewFromString(tok)
	case KindRational:
		r, ok := new(big.Rat).SetString(tok)
		if !ok {
			return nil, fmt.Errorf("invalid rational")
		}
		return r, nil
	case KindBool:
		return strconv.ParseBool(tok)
	case KindEnum:
		if !f.enumAllows(tok) {
			return nil, fmt.Errorf("not one of %v", f.Enum)
		}
		return tok, nil
	case KindUUID:
		return uuid.Parse(tok)
	default:
		return nil, fmt.Errorf("invalid kind")
	}
}
