/*
Package dsl provides a fluent builder for machine descriptions.

It is an alternative to YAML or JSON files for tests, embedded machines and
generated tables. States and the alphabet are collected from the rules when
they are not declared explicitly.

Example usage:

	desc, err := dsl.New("bitflip").
		Blank("_").
		Initial("q0").
		Final("q2").
		On("q0", "0").Write("1").Right().Go("q0").
		On("q0", "1").Write("0").Right().Go("q0").
		On("q0", "_").Left().Go("q1").
		On("q1", "0").Left().Go("q1").
		On("q1", "1").Left().Go("q1").
		On("q1", "_").Right().Go("q2").
		Build()
	if err != nil {
		log.Fatal(err)
	}

	engine, err := turing.New(desc)
*/
package dsl
