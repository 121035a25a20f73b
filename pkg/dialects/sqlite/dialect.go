package sqlite

import "github.com/leapstack-labs/leapdplyr/pkg/dialect"

func init() {
	dialect.Register(SQLite)
}

// SQLite is the SQLite dialect.
var SQLite = dialect.New(Config).
	Function("log10", dialect.Simple("LOG10")).
	Function("ceiling", dialect.Simple("CEIL")).
	Function("ceil", dialect.Simple("CEIL")).
	Build()
