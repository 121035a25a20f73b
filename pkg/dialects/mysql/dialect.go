package mysql

import "github.com/leapstack-labs/leapdplyr/pkg/dialect"

func init() {
	dialect.Register(MySQL)
}

// MySQL is the MySQL dialect. LENGTH counts bytes in MySQL, so nchar maps to
// CHAR_LENGTH, and LOG takes the natural log, so log10 maps to LOG10.
var MySQL = dialect.New(Config).
	Function("nchar", dialect.Simple("CHAR_LENGTH")).
	Function("log10", dialect.Simple("LOG10")).
	Function("mod", dialect.Simple("MOD")).
	Function("as.integer", castTo("SIGNED")).
	Function("as.character", castTo("CHAR")).
	Function("as.numeric", castTo("DECIMAL(65, 30)")).
	Function("as.double", castTo("DOUBLE")).
	Build()

// castTo renders CAST with MySQL's restricted set of target types.
func castTo(typ string) dialect.FunctionRenderer {
	return func(_ dialect.Dialect, args []string) (string, bool) {
		if len(args) != 1 {
			return "", false
		}
		return "CAST(" + args[0] + " AS " + typ + ")", true
	}
}
