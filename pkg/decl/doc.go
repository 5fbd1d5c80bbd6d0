// Package decl recognizes the call shapes that declare and use components
// and extracts their arguments.
//
// # Call Shapes
//
// A single classification pass ([Methods.Classify], [Methods.Scan]) turns call
// sites into one of a closed set of variants:
//
//   - [ValidatorRegistration]: registerValidator(C, { dependencies, conflicts })
//   - [TemplateRegistration]: registerTemplate(name, { components: [...] })
//   - [QueryDeclaration]: createQuery(name, { all, any, none, tags, withoutTags })
//   - [EntityCreation]: createEntity()
//   - [SequentialAttach]: e.attach(C, ...args) or e.addComponent(C, ...args)
//
// Method names are matched on any receiver and are configurable through
// [Methods]. Consumers switch on the variant type instead of comparing
// method names themselves.
//
// # Extraction
//
// [ExtractDeclaration], [ExtractTemplate], [ExtractFilter] and
// [AttachedComponent] resolve the component references carried by a shape.
// Entries that cannot be resolved (spreads, computed expressions, literals in
// component positions) are dropped without error.
package decl
