package postgres

import "github.com/leapstack-labs/leapdplyr/pkg/dialect"

func init() {
	dialect.Register(Postgres)
}

// Postgres is the PostgreSQL dialect.
var Postgres = dialect.New(Config).
	Function("log10", dialect.Simple("LOG")).
	Function("nchar", dialect.Simple("CHAR_LENGTH")).
	Build()
