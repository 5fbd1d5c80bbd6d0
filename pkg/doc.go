// Package pkg provides the core libraries of compcheck, a static checker for
// component composition in entity-component-system codebases.
//
// # Overview
//
// ECS frameworks let components declare that they require other components
// ("Velocity needs Position") or cannot coexist with them ("Ghost excludes
// Health"). compcheck reads those declarations from every file of a project
// and reports places where entities, templates or queries break them. The
// pkg directory is organized into these areas:
//
//  1. Front end: [syntax] trees and the [syntax/tsparse] tree-sitter parser
//     and cross-file linker
//  2. Core: [resolve], [decl], [registry], [constraint] and [check], which
//     turn trees into findings
//  3. Infrastructure: [session], [cache], [io], [config] and [observability]
//  4. Orchestration and output: [pipeline], [watch], [report] and [render]
//
// # Architecture
//
// The data flow of one run:
//
//	Source tree
//	     ↓
//	[pipeline] collects files and fingerprints them
//	     ↓
//	[syntax/tsparse] parses and links them into a [syntax.Program]
//	     ↓
//	[session] returns the snapshot's [registry.Registry], building it once
//	     ↓
//	[check] validates each unit against a [constraint.Graph]
//	     ↓
//	[report] text or JSON, [render] DOT/SVG/PNG
//
// # Quick Start
//
//	cfg := config.Default()
//	runner := pipeline.NewRunner(nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{Root: ".", Config: cfg})
//	if err != nil {
//	    return err
//	}
//	report.WriteText(os.Stdout, report.New(res))
//
// [syntax]: github.com/matzehuels/compcheck/pkg/syntax
// [syntax/tsparse]: github.com/matzehuels/compcheck/pkg/syntax/tsparse
// [resolve]: github.com/matzehuels/compcheck/pkg/resolve
// [decl]: github.com/matzehuels/compcheck/pkg/decl
// [registry]: github.com/matzehuels/compcheck/pkg/registry
// [constraint]: github.com/matzehuels/compcheck/pkg/constraint
// [check]: github.com/matzehuels/compcheck/pkg/check
// [session]: github.com/matzehuels/compcheck/pkg/session
// [cache]: github.com/matzehuels/compcheck/pkg/cache
// [io]: github.com/matzehuels/compcheck/pkg/io
// [config]: github.com/matzehuels/compcheck/pkg/config
// [observability]: github.com/matzehuels/compcheck/pkg/observability
// [pipeline]: github.com/matzehuels/compcheck/pkg/pipeline
// [watch]: github.com/matzehuels/compcheck/pkg/watch
// [report]: github.com/matzehuels/compcheck/pkg/report
// [render]: github.com/matzehuels/compcheck/pkg/render
package pkg
