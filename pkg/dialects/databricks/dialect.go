package databricks

import "github.com/leapstack-labs/leapdplyr/pkg/dialect"

func init() {
	dialect.Register(Databricks)
}

// Databricks is the Databricks dialect.
var Databricks = dialect.New(Config).
	Function("log10", dialect.Simple("LOG10")).
	Function("nchar", dialect.Simple("CHAR_LENGTH")).
	Build()
