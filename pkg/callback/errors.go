package callback

import "errors"

// MaxPayloadLen is Telegram's callback_data size limit in bytes.
// This is the length of the full encoded string, prefix included.
const MaxPayloadLen = 64

// DefaultSeparator joins the prefix and field tokens unless a schema
// overrides it.
const DefaultSeparator = ":"

var (
	// ErrBadSchema reports an invalid schema declaration (empty prefix,
	// separator inside the prefix, duplicate field names, ...).
	ErrBadSchema = errors.New("callback: bad schema")

	// ErrUnencodable reports a value whose runtime type cannot be packed
	// into callback data.
	ErrUnencodable = errors.New("callback: unencodable value")

	// ErrSeparatorCollision reports an encoded field value that contains
	// the schema separator.
	ErrSeparatorCollision = errors.New("callback: separator in value")

	// ErrPayloadTooLong reports an encoded payload over MaxPayloadLen bytes.
	ErrPayloadTooLong = errors.New("callback: payload too long")

	// ErrArityMismatch reports a raw payload whose value-token count does
	// not match the schema's field count.
	ErrArityMismatch = errors.New("callback: arity mismatch")

	// ErrPrefixMismatch reports a raw payload carrying a different prefix.
	ErrPrefixMismatch = errors.New("callback: prefix mismatch")

	// ErrMalformed reports a value token that failed type coercion.
	ErrMalformed = errors.New("callback: malformed value")
)
