// Package io provides JSON import and export for component registries.
//
// # Overview
//
// Registries are serialized for two purposes: the persistent cache tier of
// the analysis session, and the `compcheck registry` command that dumps what
// the scanner found. Round trips are lossless.
//
// # JSON Format
//
//	{
//	  "version": 1,
//	  "components": [
//	    {"name": "Velocity", "dependencies": ["Position"], "conflicts": []},
//	    {"name": "Ghost", "dependencies": [], "conflicts": ["Health"]}
//	  ],
//	  "known": ["Ghost", "Health", "Position", "Velocity"]
//	}
//
// Components and known names are sorted, so equal registries encode to equal
// bytes and can be content-hashed.
//
// # Versioning
//
// [ReadJSON] rejects documents whose version differs from [FormatVersion].
// Cached entries written by an older build are therefore treated as misses.
package io
