// Package all registers every built-in dialect.
//
//	import _ "github.com/leapstack-labs/leapdplyr/pkg/dialects/all"
package all

import (
	// Register dialects.
	_ "github.com/leapstack-labs/leapdplyr/pkg/dialects/ansi"
	_ "github.com/leapstack-labs/leapdplyr/pkg/dialects/databricks"
	_ "github.com/leapstack-labs/leapdplyr/pkg/dialects/duckdb"
	_ "github.com/leapstack-labs/leapdplyr/pkg/dialects/mysql"
	_ "github.com/leapstack-labs/leapdplyr/pkg/dialects/postgres"
	_ "github.com/leapstack-labs/leapdplyr/pkg/dialects/snowflake"
	_ "github.com/leapstack-labs/leapdplyr/pkg/dialects/sqlite"
)
