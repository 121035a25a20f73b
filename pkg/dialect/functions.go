package dialect

import (
	"fmt"
	"strings"
)

// commonFunctions translates R functions that read the same in every
// supported dialect. Keys are lowercase DSL names.
var commonFunctions = map[string]FunctionRenderer{
	// Math
	"abs":     simple("ABS"),
	"round":   simple("ROUND"),
	"floor":   simple("FLOOR"),
	"ceiling": simple("CEILING"),
	"ceil":    simple("CEILING"),
	"sqrt":    simple("SQRT"),
	"sign":    simple("SIGN"),
	"exp":     simple("EXP"),
	"log":     renderLog,
	"log10":   simple("LOG"),
	"mod":     renderMod,

	// Trigonometric
	"sin":   simple("SIN"),
	"cos":   simple("COS"),
	"tan":   simple("TAN"),
	"asin":  simple("ASIN"),
	"acos":  simple("ACOS"),
	"atan":  simple("ATAN"),
	"atan2": arity(2, simple("ATAN2")),
	"sinh":  simple("SINH"),
	"cosh":  simple("COSH"),
	"tanh":  simple("TANH"),

	// Strings
	"tolower": simple("LOWER"),
	"toupper": simple("UPPER"),
	"substr":  renderSubstr,
	"nchar":   simple("LENGTH"),
	"trimws":  simple("TRIM"),
	"paste0":  renderConcat(""),
	"str_c":   renderConcat(""),
	"paste":   renderConcat(" "),

	// Conditionals
	"ifelse":  renderIfElse,
	"if_else": renderIfElse,
	"is.na":   renderIsNull,

	// Window functions
	"row_number":   rankLike("ROW_NUMBER"),
	"rank":         rankLike("RANK"),
	"min_rank":     rankLike("RANK"),
	"dense_rank":   rankLike("DENSE_RANK"),
	"percent_rank": rankLike("PERCENT_RANK"),
	"cume_dist":    rankLike("CUME_DIST"),
	"ntile":        renderNtile,
	"lead":         offset("LEAD"),
	"lag":          offset("LAG"),
	"first":        arity(1, window("FIRST_VALUE")),
	"first_value":  arity(1, window("FIRST_VALUE")),
	"last":         arity(1, window("LAST_VALUE")),
	"last_value":   arity(1, window("LAST_VALUE")),
	"nth":          arity(2, window("NTH_VALUE")),
	"nth_value":    arity(2, window("NTH_VALUE")),

	// Type conversion
	"as.numeric":   cast("NUMERIC"),
	"as.double":    cast("DOUBLE PRECISION"),
	"as.integer":   cast("INTEGER"),
	"as.character": cast("VARCHAR"),
	"as.logical":   cast("BOOLEAN"),

	// NULL handling
	"coalesce":   simple("COALESCE"),
	"replace_na": arity(2, simple("COALESCE")),
	"na.replace": arity(2, simple("COALESCE")),
}

// Simple renders NAME(args...).
func Simple(name string) FunctionRenderer { return simple(name) }

func simple(name string) FunctionRenderer {
	return func(_ Dialect, args []string) (string, bool) {
		return name + "(" + strings.Join(args, ", ") + ")", true
	}
}

// arity restricts render to calls with exactly n arguments.
func arity(n int, render FunctionRenderer) FunctionRenderer {
	return func(d Dialect, args []string) (string, bool) {
		if len(args) != n {
			return "", false
		}
		return render(d, args)
	}
}

// cast renders CAST(x AS typ).
func cast(typ string) FunctionRenderer {
	return func(_ Dialect, args []string) (string, bool) {
		if len(args) != 1 {
			return "", false
		}
		return "CAST(" + args[0] + " AS " + typ + ")", true
	}
}

func window(name string) FunctionRenderer {
	return func(_ Dialect, args []string) (string, bool) {
		return name + "(" + strings.Join(args, ", ") + ") OVER ()", true
	}
}

// rankLike renders NAME() OVER (), ordering by the optional single argument.
func rankLike(name string) FunctionRenderer {
	return func(_ Dialect, args []string) (string, bool) {
		switch len(args) {
		case 0:
			return name + "() OVER ()", true
		case 1:
			return name + "() OVER (ORDER BY " + args[0] + ")", true
		}
		return "", false
	}
}

// offset renders LEAD/LAG with a default offset of 1.
func offset(name string) FunctionRenderer {
	return func(_ Dialect, args []string) (string, bool) {
		switch len(args) {
		case 1:
			return fmt.Sprintf("%s(%s, 1) OVER ()", name, args[0]), true
		case 2:
			return fmt.Sprintf("%s(%s, %s) OVER ()", name, args[0], args[1]), true
		}
		return "", false
	}
}

func renderNtile(_ Dialect, args []string) (string, bool) {
	switch len(args) {
	case 1:
		return "NTILE(" + args[0] + ") OVER ()", true
	case 2:
		return "NTILE(" + args[1] + ") OVER (ORDER BY " + args[0] + ")", true
	}
	return "", false
}

// renderLog maps log(x) to the natural log and log(x, base) to LOG(base, x).
func renderLog(_ Dialect, args []string) (string, bool) {
	switch len(args) {
	case 1:
		return "LN(" + args[0] + ")", true
	case 2:
		return "LOG(" + args[1] + ", " + args[0] + ")", true
	}
	return "", false
}

func renderMod(_ Dialect, args []string) (string, bool) {
	if len(args) != 2 {
		return "", false
	}
	return "(" + args[0] + " % " + args[1] + ")", true
}

func renderSubstr(_ Dialect, args []string) (string, bool) {
	if len(args) != 2 && len(args) != 3 {
		return "", false
	}
	return "SUBSTR(" + strings.Join(args, ", ") + ")", true
}

func renderIfElse(_ Dialect, args []string) (string, bool) {
	if len(args) != 3 {
		return "", false
	}
	return fmt.Sprintf("CASE WHEN %s THEN %s ELSE %s END", args[0], args[1], args[2]), true
}

func renderIsNull(_ Dialect, args []string) (string, bool) {
	if len(args) != 1 {
		return "", false
	}
	return "(" + args[0] + " IS NULL)", true
}

// renderConcat folds the arguments through the dialect's concatenation,
// placing sep between them.
func renderConcat(sep string) FunctionRenderer {
	return func(d Dialect, args []string) (string, bool) {
		if len(args) == 0 {
			return "", false
		}
		out := args[0]
		for _, arg := range args[1:] {
			if sep != "" {
				out = d.StringConcat(out, d.QuoteString(sep))
			}
			out = d.StringConcat(out, arg)
		}
		return out, true
	}
}
