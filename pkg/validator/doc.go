// Package validator builds small declarative validation rules.
//
// Each exported helper returns a Rule: a Check closure plus the
// ValidationError reported when it fails. Apply runs a list of rules and
// returns every failure as ValidationErrors, which implements error:
//
//	err := validator.Apply(
//		validator.RequiredString("title", v.Title),
//		validator.MaxLenString("title", v.Title, 255),
//		validator.NonNegativeAmount("price", v.Price),
//		validator.Optional(v.ProductLink, validator.ValidURL("productLink", v.ProductLink)),
//	)
//	if errs := validator.ExtractValidationErrors(err); errs.Has("title") {
//		// ...
//	}
//
// Messages are written to follow the field name, so "price" + " " +
// "cannot be negative" reads as a sentence. Code is a stable key for clients.
//
// Rules are grouped by family: strings, numbers, formats (URLs) and money
// (amounts, ISO 4217 currency codes). The package has no state.
package validator
