// Package populate drives one populate run for a single entity kind.
//
// A Populator authenticates against the content API, fetches the raw
// listing from Nookipedia, uploads every transformed record through the
// upload driver, then runs the enrichment steps that apply to the kind in a
// fixed order (villagers: houses, translations, ranks; fish and bugs:
// translations; fossils: none). The Report it returns feeds the CLI summary
// tables and the completion notification.
package populate
