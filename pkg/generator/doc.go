// Package generator synthesizes example values from JSON Schema definitions.
//
// SchemaGenerator walks a priority chain: const, example/examples, enum,
// default, $ref (with cycle detection), allOf/oneOf/anyOf and finally
// type-specific generation honoring numeric, string and array constraints.
//
// Output is reproducible: every Generate call starts from the configured seed,
// so the same schema always yields the same value.
//
//	gen := generator.New(generator.WithSeed(42))
//	value, err := gen.Generate(ctx, schema)
package generator
