package sqlgen

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/leapdplyr/pkg/ast"
	"github.com/leapstack-labs/leapdplyr/pkg/dialect"
	"github.com/leapstack-labs/leapdplyr/pkg/dialects/databricks"
	"github.com/leapstack-labs/leapdplyr/pkg/dialects/duckdb"
	"github.com/leapstack-labs/leapdplyr/pkg/dialects/mysql"
	"github.com/leapstack-labs/leapdplyr/pkg/dialects/postgres"
	"github.com/leapstack-labs/leapdplyr/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/leapdplyr/pkg/dialects/all"
)

func generate(t *testing.T, d dialect.Dialect, input string, opts ...Option) (string, error) {
	t.Helper()
	root, err := parser.Parse(input)
	require.NoError(t, err, "parse %q", input)
	return New(d, opts...).Generate(root)
}

func mustGenerate(t *testing.T, d dialect.Dialect, input string, opts ...Option) string {
	t.Helper()
	sql, err := generate(t, d, input, opts...)
	require.NoError(t, err, "generate %q", input)
	return sql
}

func generationError(t *testing.T, err error) *GenerationError {
	t.Helper()
	require.Error(t, err)
	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr), "expected *GenerationError, got %T", err)
	return genErr
}

func TestGenerate_Postgres(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "select then filter",
			input:    "select(name, age) %>% filter(age > 18)",
			expected: "SELECT \"name\", \"age\"\nFROM \"data\"\nWHERE (\"age\" > 18)",
		},
		{
			name:     "group and summarise",
			input:    "group_by(department) %>% summarise(avg_salary = mean(salary), count = n())",
			expected: "SELECT AVG(\"salary\") AS \"avg_salary\", COUNT(*) AS \"count\"\nFROM \"data\"\nGROUP BY \"department\"",
		},
		{
			name:     "arrange",
			input:    "arrange(desc(age), name)",
			expected: "SELECT *\nFROM \"data\"\nORDER BY \"age\" DESC, \"name\" ASC",
		},
		{
			name:     "precedence is parenthesized",
			input:    "filter(a > 1 & b < 2)",
			expected: "SELECT *\nFROM \"data\"\nWHERE ((\"a\" > 1) AND (\"b\" < 2))",
		},
		{
			name:     "left associative subtraction",
			input:    "mutate(x = a - b - c)",
			expected: "SELECT *, ((\"a\" - \"b\") - \"c\") AS \"x\"\nFROM \"data\"",
		},
		{
			name:     "filters conjoin",
			input:    "filter(a > 1) %>% filter(b < 2) %>% filter(c == 3)",
			expected: "SELECT *\nFROM \"data\"\nWHERE (\"a\" > 1) AND ((\"b\" < 2)) AND ((\"c\" = 3))",
		},
		{
			name:     "source table",
			input:    "users %>% select(id)",
			expected: "SELECT \"id\"\nFROM \"users\"",
		},
		{
			name:     "data source only",
			input:    "users",
			expected: "SELECT *\nFROM \"users\"",
		},
		{
			name:     "literals",
			input:    `filter(name == "O'Brien" | active == TRUE | score != NA | x > -3.5)`,
			expected: "SELECT *\nFROM \"data\"\nWHERE ((((\"name\" = 'O''Brien') OR (\"active\" = TRUE)) OR (\"score\" != NULL)) OR (\"x\" > -3.5))",
		},
		{
			name:     "whole numbers render without fraction",
			input:    "mutate(y = x * 2.0)",
			expected: "SELECT *, (\"x\" * 2) AS \"y\"\nFROM \"data\"",
		},
		{
			name:     "select alias and expression",
			input:    "select(full = salary * 12, name)",
			expected: "SELECT (\"salary\" * 12) AS \"full\", \"name\"\nFROM \"data\"",
		},
		{
			name:     "select inlines mutated column",
			input:    "mutate(x = a + b) %>% select(x, c)",
			expected: "SELECT (\"a\" + \"b\") AS \"x\", \"c\"\nFROM \"data\"",
		},
		{
			name:     "function translation",
			input:    "mutate(lname = tolower(name), n = nchar(name))",
			expected: "SELECT *, LOWER(\"name\") AS \"lname\", CHAR_LENGTH(\"name\") AS \"n\"\nFROM \"data\"",
		},
		{
			name:     "unknown function passes through upper-cased",
			input:    "mutate(y = my_udf(x, 1))",
			expected: "SELECT *, MY_UDF(\"x\", 1) AS \"y\"\nFROM \"data\"",
		},
		{
			name:     "window function at a clean level",
			input:    "mutate(r = row_number())",
			expected: "SELECT *, ROW_NUMBER() OVER () AS \"r\"\nFROM \"data\"",
		},
		{
			name:     "join by column",
			input:    `users %>% inner_join(orders, by = "user_id")`,
			expected: "SELECT *\nFROM \"users\"\nINNER JOIN \"orders\" ON \"users\".\"user_id\" = \"orders\".\"user_id\"",
		},
		{
			name:     "join by expression",
			input:    "left_join(orders, by = id == order_id)",
			expected: "SELECT *\nFROM \"data\"\nLEFT JOIN \"orders\" ON (\"id\" = \"order_id\")",
		},
		{
			name:     "semi join falls back to exists",
			input:    `semi_join(orders, by = "id")`,
			expected: "SELECT *\nFROM \"data\"\nWHERE EXISTS (SELECT 1 FROM \"orders\" WHERE \"data\".\"id\" = \"orders\".\"id\")",
		},
		{
			name:     "anti join falls back to not exists",
			input:    `filter(x > 1) %>% anti_join(orders, by = "id")`,
			expected: "SELECT *\nFROM \"data\"\nWHERE (\"x\" > 1) AND (NOT EXISTS (SELECT 1 FROM \"orders\" WHERE \"data\".\"id\" = \"orders\".\"id\"))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mustGenerate(t, postgres.Postgres, tt.input))
		})
	}
}

func TestGenerate_SubqueryWrap(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:  "mutate depends on earlier mutate",
			input: "mutate(doubled = value * 2) %>% mutate(quadrupled = doubled * 2)",
			expected: "SELECT *, (\"doubled\" * 2) AS \"quadrupled\"\n" +
				"FROM (\n" +
				"SELECT *, (\"value\" * 2) AS \"doubled\"\n" +
				"FROM \"data\"\n" +
				") AS subquery",
		},
		{
			name:  "dependent assignments are batched",
			input: "mutate(a = x + 1, b = a * 2, c = a * 3)",
			expected: "SELECT *, (\"a\" * 2) AS \"b\", (\"a\" * 3) AS \"c\"\n" +
				"FROM (\n" +
				"SELECT *, (\"x\" + 1) AS \"a\"\n" +
				"FROM \"data\"\n" +
				") AS subquery",
		},
		{
			name:  "filter on computed column",
			input: "mutate(total = price * qty) %>% filter(total > 100)",
			expected: "SELECT *\n" +
				"FROM (\n" +
				"SELECT *, (\"price\" * \"qty\") AS \"total\"\n" +
				"FROM \"data\"\n" +
				") AS subquery\n" +
				"WHERE (\"total\" > 100)",
		},
		{
			name:  "window function after filter",
			input: "filter(x > 0) %>% mutate(r = row_number())",
			expected: "SELECT *, ROW_NUMBER() OVER () AS \"r\"\n" +
				"FROM (\n" +
				"SELECT *\n" +
				"FROM \"data\"\n" +
				"WHERE (\"x\" > 0)\n" +
				") AS subquery",
		},
		{
			name:  "filter after summarise",
			input: "group_by(d) %>% summarise(total = sum(x)) %>% filter(total > 10)",
			expected: "SELECT *\n" +
				"FROM (\n" +
				"SELECT SUM(\"x\") AS \"total\"\n" +
				"FROM \"data\"\n" +
				"GROUP BY \"d\"\n" +
				") AS subquery\n" +
				"WHERE (\"total\" > 10)",
		},
		{
			name:  "summarise of computed column keeps grouping outside",
			input: "group_by(d) %>% mutate(x2 = x * 2) %>% summarise(m = mean(x2))",
			expected: "SELECT AVG(\"x2\") AS \"m\"\n" +
				"FROM (\n" +
				"SELECT *, (\"x\" * 2) AS \"x2\"\n" +
				"FROM \"data\"\n" +
				") AS subquery\n" +
				"GROUP BY \"d\"",
		},
		{
			name:  "join on computed column qualifies the subquery",
			input: `mutate(k = id * 2) %>% inner_join(t, by = "k")`,
			expected: "SELECT *\n" +
				"FROM (\n" +
				"SELECT *, (\"id\" * 2) AS \"k\"\n" +
				"FROM \"data\"\n" +
				") AS subquery\n" +
				"INNER JOIN \"t\" ON subquery.\"k\" = \"t\".\"k\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mustGenerate(t, postgres.Postgres, tt.input))
		})
	}
}

func TestGenerate_Rename(t *testing.T) {
	t.Run("star exclusion", func(t *testing.T) {
		sql := mustGenerate(t, duckdb.DuckDB, "rename(new_name = old_name)")
		assert.Equal(t, "SELECT * EXCLUDE (\"old_name\"), \"old_name\" AS \"new_name\"\nFROM \"data\"", sql)
	})

	t.Run("after mutate replaces the star", func(t *testing.T) {
		sql := mustGenerate(t, duckdb.DuckDB, "mutate(x = a + 1) %>% rename(y = b)")
		assert.Equal(t, "SELECT * EXCLUDE (\"b\"), (\"a\" + 1) AS \"x\", \"b\" AS \"y\"\nFROM \"data\"", sql)
	})

	t.Run("select after rename inlines the new name", func(t *testing.T) {
		sql := mustGenerate(t, duckdb.DuckDB, "rename(y = b) %>% select(y)")
		assert.Equal(t, "SELECT \"b\" AS \"y\"\nFROM \"data\"", sql)
	})

	t.Run("unsupported dialect", func(t *testing.T) {
		_, err := generate(t, postgres.Postgres, "rename(new_name = old_name)")
		genErr := generationError(t, err)
		assert.Equal(t, UnsupportedOperation, genErr.Kind)
		assert.Equal(t, "rename", genErr.Operation)
		assert.Equal(t, "postgresql", genErr.Dialect)
		assert.Equal(t, "generation error: rename() is not supported by the postgresql dialect", err.Error())
	})

	t.Run("after explicit select", func(t *testing.T) {
		_, err := generate(t, duckdb.DuckDB, "select(a, b) %>% rename(c = a)")
		genErr := generationError(t, err)
		assert.Equal(t, InvalidAst, genErr.Kind)
		assert.Contains(t, genErr.Reason, "implicit '*' projection")
	})

	t.Run("no mappings", func(t *testing.T) {
		root := &ast.Pipeline{Operations: []ast.Operation{&ast.Rename{}}}
		_, err := New(duckdb.DuckDB).Generate(root)
		genErr := generationError(t, err)
		assert.Equal(t, InvalidAst, genErr.Kind)
		assert.Equal(t, "rename() requires at least one mapping", genErr.Reason)
	})

	t.Run("old name is gone", func(t *testing.T) {
		_, err := generate(t, duckdb.DuckDB, "rename(b = a) %>% arrange(a)")
		genErr := generationError(t, err)
		assert.Equal(t, InvalidColumnReference, genErr.Kind)
		assert.Equal(t, "a", genErr.Column)
	})
}

func TestGenerate_DialectSpecific(t *testing.T) {
	t.Run("mysql backticks and concat", func(t *testing.T) {
		sql := mustGenerate(t, mysql.MySQL, "mutate(full = paste(first, last)) %>% arrange(full)")
		assert.Equal(t, "SELECT *, CONCAT(CONCAT(`first`, ' '), `last`) AS `full`\nFROM `data`\nORDER BY `full` ASC", sql)
	})

	t.Run("mysql has no full join", func(t *testing.T) {
		_, err := generate(t, mysql.MySQL, `full_join(t, by = "id")`)
		genErr := generationError(t, err)
		assert.Equal(t, UnsupportedOperation, genErr.Kind)
		assert.Equal(t, "full_join", genErr.Operation)
	})

	t.Run("duckdb native semi join", func(t *testing.T) {
		sql := mustGenerate(t, duckdb.DuckDB, `semi_join(orders, by = "id")`)
		assert.Equal(t, "SELECT *\nFROM \"data\"\nSEMI JOIN \"orders\" ON \"data\".\"id\" = \"orders\".\"id\"", sql)
	})

	t.Run("semi and anti joins per dialect", func(t *testing.T) {
		sql := mustGenerate(t, databricks.Databricks, `anti_join(orders, by = "id")`)
		assert.Contains(t, sql, "ANTI JOIN `orders`")
		assert.NotContains(t, sql, "EXISTS")

		sql = mustGenerate(t, mysql.MySQL, `anti_join(orders, by = "id")`)
		assert.Contains(t, sql, "WHERE NOT EXISTS (SELECT 1 FROM `orders`")
		assert.NotContains(t, sql, "ANTI JOIN")
	})

	t.Run("duckdb statistical aggregates", func(t *testing.T) {
		sql := mustGenerate(t, duckdb.DuckDB, "summarise(med = median(x), sd = sd(x))")
		assert.Equal(t, "SELECT MEDIAN(\"x\") AS \"med\", STDDEV_SAMP(\"x\") AS \"sd\"\nFROM \"data\"", sql)
	})

	t.Run("every dialect quotes with its own style", func(t *testing.T) {
		quotes := make(map[string]bool)
		for _, name := range dialect.List() {
			quotes[dialect.MustGet(name).QuoteIdentifier("a")[:1]] = true
		}
		require.Len(t, quotes, 2, "double quotes and backticks")

		for _, name := range dialect.List() {
			d := dialect.MustGet(name)
			own := d.QuoteIdentifier("a")
			sql := mustGenerate(t, d, "select(a, b) %>% arrange(b)")
			assert.Contains(t, sql, own, name)
			for q := range quotes {
				if q != own[:1] {
					assert.NotContains(t, sql, q, name)
				}
			}
		}
	})

	t.Run("aggregate mapping is shared", func(t *testing.T) {
		for _, name := range dialect.List() {
			d := dialect.MustGet(name)
			assert.Equal(t, "AVG", d.AggregateFunction("mean"), name)
			assert.Equal(t, "COUNT(*)", d.AggregateFunction("n"), name)
			assert.Equal(t, "CUSTOM", d.AggregateFunction("custom"), name)
		}
	})
}

func TestGenerate_Options(t *testing.T) {
	t.Run("limit", func(t *testing.T) {
		sql := mustGenerate(t, postgres.Postgres, "select(a)", WithLimit(10))
		assert.Equal(t, "SELECT \"a\"\nFROM \"data\"\nLIMIT 10", sql)
	})

	t.Run("default table", func(t *testing.T) {
		sql := mustGenerate(t, postgres.Postgres, "select(a)", WithDefaultTable("events"))
		assert.Equal(t, "SELECT \"a\"\nFROM \"events\"", sql)
	})

	t.Run("explicit source wins over default table", func(t *testing.T) {
		sql := mustGenerate(t, postgres.Postgres, "users %>% select(a)", WithDefaultTable("events"))
		assert.Equal(t, "SELECT \"a\"\nFROM \"users\"", sql)
	})

	t.Run("max depth", func(t *testing.T) {
		_, err := generate(t, postgres.Postgres, "filter(a > 1 & b < 2)", WithMaxDepth(2))
		assert.Equal(t, MaxNestingDepthExceeded, generationError(t, err).Kind)
	})
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
	}{
		{"window in filter", "filter(row_number() > 1)", ComplexExpression},
		{"aggregate in filter", "filter(mean(x) > 1)", ComplexExpression},
		{"aggregate without column", "summarise(total = sum())", InvalidColumnReference},
		{"n with column", "summarise(c = n(x))", UnsupportedAggregateFunction},
		{"window in summarise", "summarise(r = lag(x))", UnsupportedAggregateFunction},
		{"n with arguments in expression", "mutate(c = n(x))", UnsupportedAggregateFunction},
		{"bad conversion", "mutate(y = as.integer(a, b))", InvalidTypeConversion},
		{"empty summarise", "summarise()", EmptyQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := generate(t, postgres.Postgres, tt.input)
			assert.Equal(t, tt.kind, generationError(t, err).Kind)
		})
	}

	t.Run("empty pipeline", func(t *testing.T) {
		_, err := New(postgres.Postgres).Generate(&ast.Pipeline{Source: "t"})
		genErr := generationError(t, err)
		assert.Equal(t, InvalidAst, genErr.Kind)
		assert.Contains(t, err.Error(), "Empty pipeline")
	})

	t.Run("nil root", func(t *testing.T) {
		_, err := New(postgres.Postgres).Generate(nil)
		assert.Equal(t, InvalidAst, generationError(t, err).Kind)
	})

	t.Run("summarise with grouping only", func(t *testing.T) {
		sql := mustGenerate(t, postgres.Postgres, "group_by(a, b) %>% summarise()")
		assert.Equal(t, "SELECT \"a\", \"b\"\nFROM \"data\"\nGROUP BY \"a\", \"b\"", sql)
	})
}

func TestGenerate_Deterministic(t *testing.T) {
	input := "users %>% filter(age > 18) %>% mutate(x = a * 2) %>% mutate(y = x + 1) %>% arrange(desc(y))"
	g := New(postgres.Postgres)
	root, err := parser.Parse(input)
	require.NoError(t, err)

	first, err := g.Generate(root)
	require.NoError(t, err)
	for range 5 {
		again, err := g.Generate(root)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
