package snowflake

import "github.com/leapstack-labs/leapdplyr/pkg/dialect"

func init() {
	dialect.Register(Snowflake)
}

// Snowflake is the Snowflake dialect.
var Snowflake = dialect.New(Config).
	Function("log10", func(_ dialect.Dialect, args []string) (string, bool) {
		if len(args) != 1 {
			return "", false
		}
		return "LOG(10, " + args[0] + ")", true
	}).
	Function("ifelse", dialect.Simple("IFF")).
	Build()
