// Package encode writes documents and patches for people and programs.
//
// Documents are written as JSON, compact or indented, or as YAML.
// Indented JSON may be colored.  Patches may be written in their JSON
// wire form or as a listing with one line per operation:
//
//	+ /foo/1 "qux"
//	- /bar
//	~ /baz 2
//	> /a -> /b
//	= /a -> /c
//	? /d true
//
// for add, remove, replace, move, copy and test respectively.
package encode
