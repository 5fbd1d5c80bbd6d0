// Package syntax defines the language-neutral syntax tree that the analysis
// packages consume.
//
// # Overview
//
// Front ends (see [github.com/matzehuels/compcheck/pkg/syntax/tsparse]) convert
// source files into [Node] trees. The tree keeps only what the checker reasons
// about: calls, member accesses, identifiers, literals, arrays, object
// literals, bindings, functions and classes. Everything else becomes a
// [KindOther] node whose children are still walked.
//
// A [Unit] is one compilation unit (a source file). A [Program] is the set of
// units observed at one point in time, together with a [SnapshotID] assigned by
// the analysis session and a content fingerprint.
//
// # Semantic Resolution
//
// Units may carry a [SymbolResolver] that maps a node to the declaration it
// refers to. Aliases (imports, re-exports, value aliases) are returned as
// [SymbolAlias] symbols chained through [Symbol.Target]; [Symbol.Unwrap]
// follows the chain.
//
// # Building Trees By Hand
//
// The constructor helpers ([Ident], [Call], [Member], [Array], [Object] and
// friends) build trees for tests and for front ends that do not need source
// positions:
//
//	root := syntax.File("a.ts",
//	    syntax.Call(syntax.Member(syntax.Ident("world"), "registerValidator"),
//	        syntax.Ident("Velocity"),
//	        syntax.Object(syntax.Prop("dependencies", syntax.Array(syntax.Ident("Position"))))),
//	)
//
// [File] links parents and assigns synthetic line numbers in source order.
package syntax
