package dialect

// ANSIReservedWords are the SQL:2016 reserved words most likely to collide
// with dplyr column names. Dialects extend this list with their own.
var ANSIReservedWords = []string{
	"all", "and", "any", "as", "asc", "between", "both", "by", "case", "cast",
	"check", "column", "constraint", "create", "cross", "current_date",
	"current_time", "current_timestamp", "current_user", "default", "desc",
	"distinct", "else", "end", "except", "false", "fetch", "for", "foreign",
	"from", "full", "grant", "group", "having", "in", "inner", "intersect",
	"into", "is", "join", "leading", "left", "like", "natural", "not", "null",
	"of", "on", "or", "order", "outer", "primary", "references", "right",
	"select", "table", "then", "to", "trailing", "true", "union", "unique",
	"user", "using", "when", "where", "window", "with",
}
