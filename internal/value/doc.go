// Package value converts between native values and wire properties.
//
// Value is a sealed interface: only the types in this package implement it,
// and Encode and Decode switch over all of them. Adding a value kind means
// adding a type here and a case to both switches.
//
// Numeric intent:
//   - Int always encodes as integer_value.
//   - Double always encodes as double_value, even for integral payloads.
//   - Number is a plain number with no stated intent. It encodes as
//     integer_value when it has no fractional part, otherwise as
//     double_value. Number(7) therefore cannot be sent as a double; use
//     Double for that.
//
// Decoding inspects wire fields in a fixed order (integer, double, string,
// blob, timestamp, key, entity, boolean, list) and converts the first one
// present. A property with no field set decodes to a nil Value without error.
package value
