// Package irtext reads the textual form of the IR back into an arena.
//
// The syntax is the one ir.Print writes, plus named bindings and nested
// constructors:
//
//	# comment
//	%i32 = int(width: 32, signed: true)
//	%five = int_literal(width: 32, signed: true, value: 5)
//	%c = constant(name: "five", type_hint: %i32)
//	body %c = %five
//	%p = ptr_type(address_space: function, pointee: float(width: 32))
//
// Each binding names exactly one node. Names must be bound before they are
// used; `body` statements attach the body of a nominal node once both sides
// exist, which is how cycles through functions and blocks are written.
// Omitted fields take their zero value, and a variable without an id gets a
// fresh one. Problems are reported as diagnostics with source spans.
package irtext
