// Package codec encodes catalog records as single pipe-delimited lines.
//
// Book lines have five fields:
//
//	title|author|isbn|year|available
//
// where available is "1" or "0". User lines carry a name, a numeric ID and
// zero or more borrowed ISBNs:
//
//	name|id|isbn1|isbn2|...
//
// A literal pipe or backslash inside a field is written as `\|` or `\\`, and
// line breaks as `\n` and `\r`, so every record stays on one line.
// Lines that contain no backslash decode exactly as plain pipe-separated text.
package codec
