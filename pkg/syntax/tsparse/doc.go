// Package tsparse is the TypeScript and JavaScript front end.
//
// Files are parsed with tree-sitter and converted into [syntax.Node] trees.
// While the tree-sitter tree is still open, the module surface of each file
// (imports, exports and top-level bindings) is recorded in a [Module]. A
// [Linker] over all modules of a program then implements
// [syntax.SymbolResolver] for each unit, following imports, re-exports and
// value aliases across files.
//
// # Grammars
//
// .ts, .mts, .cts and .d.ts use the TypeScript grammar, .tsx the TSX grammar,
// and .js, .jsx, .mjs and .cjs the JavaScript grammar.
//
// # Limitations
//
// Name lookup is flow-insensitive and only sees module-level bindings. A
// local variable or parameter that shadows an imported class is resolved to
// the import.
package tsparse
