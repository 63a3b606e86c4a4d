/*
Package dsl provides a fluent Go builder for strata scenarios.

It is the in-code counterpart of scenario files: useful for tests and for
generating scripts programmatically while keeping IDE type-checking.

Example usage:

	sc, err := dsl.New("pause-menu").
		Start("mode", dsl.P{"name": "gameplay"}).
		Push("toggle", dsl.P{"name": "pause", "elements": []string{"overlay"}}).
		ExpectCurrent("pause").
		Pop().
		Pop().
		Pop().
		ExpectError("empty_stack").
		Build()
*/
package dsl
