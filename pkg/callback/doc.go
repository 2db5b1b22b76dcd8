// Package callback packs typed values into Telegram callback_data strings
// and back.
//
// A Schema declares a button payload kind once: a prefix, a separator and
// an ordered list of typed fields. Instances of that schema encode to
// "prefix:v1:v2:..." (64 bytes max, the Bot API limit on callback_data)
// and decode positionally.
//
// Design notes:
//   - Field lists are explicit, not reflected: order is a wire contract.
//   - Supported value kinds are a closed enum; anything else is rejected
//     when the instance is built.
//   - Decode errors are sentinel-wrapped so Filter can swallow them: stale
//     buttons pressed against an old schema are normal, not exceptional.
package callback
