// Package acl is the anti-corruption layer between the upstream quote API and
// the domain.
//
// The upstream speaks JSON with nullable fields and reports trouble through
// HTTP status codes. Nothing of that reaches the domain: the adapter decodes
// into unexported DTOs, converts them to [domain.RawQuote], and folds every
// failure into a [domain.FetchError]:
//
//   - transport failures and an open circuit: FetchError without a status
//   - any non-2xx status: FetchError carrying the status code
//   - a body that is not a JSON object: FetchError without a status
//
// Sanitizing is not done here. The adapter hands back exactly what the
// upstream sent, and the controller cleans it.
package acl
