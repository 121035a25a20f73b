package duckdb

import "github.com/leapstack-labs/leapdplyr/pkg/dialect"

func init() {
	dialect.Register(DuckDB)
}

// DuckDB is the DuckDB dialect. It supports SELECT * EXCLUDE, which
// rename() relies on.
var DuckDB = dialect.New(Config).
	Function("log10", dialect.Simple("LOG10")).
	Function("str_detect", detect).
	Build()

// detect renders str_detect(x, pattern) with DuckDB's regexp_matches.
func detect(_ dialect.Dialect, args []string) (string, bool) {
	if len(args) != 2 {
		return "", false
	}
	return "REGEXP_MATCHES(" + args[0] + ", " + args[1] + ")", true
}
