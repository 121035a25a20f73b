package output

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Topic identifies a family of failures sharing a hint.
type Topic string

// Hint topics.
const (
	TopicInput      Topic = "input"
	TopicLex        Topic = "lex"
	TopicParse      Topic = "parse"
	TopicGenerate   Topic = "generate"
	TopicValidation Topic = "validation"
	TopicComplexity Topic = "complexity"
	TopicNotFound   Topic = "not_found"
	TopicPermission Topic = "permission"
	TopicIO         Topic = "io"
	TopicConfig     Topic = "config"
	TopicTimeout    Topic = "timeout"
	TopicGeneral    Topic = "general"
)

// Hint explains a failure and what to try next.
type Hint struct {
	Description string   `json:"description,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Catalog keys are the English texts. They are format strings, so a
// literal percent sign is doubled.
var hints = map[Topic]Hint{
	TopicInput: {
		Description: "Please provide valid dplyr code.",
		Suggestions: []string{"Example: data %%>%% select(name, age)"},
	},
	TopicLex: {
		Description: "There is a syntax error in the input code.",
		Suggestions: []string{
			"Check that string quotes are closed",
			"Check special characters and escape sequences",
			"Remove unsupported characters",
		},
	},
	TopicParse: {
		Description: "The dplyr function usage is incorrect.",
		Suggestions: []string{
			"Check the dplyr function names",
			"Check the function arguments",
			"Check the pipe operator (%%>%% or |>) usage",
			"Check the placement of parentheses and commas",
		},
	},
	TopicGenerate: {
		Description: "The feature is not supported by the selected SQL dialect or the expression is too complex.",
		Suggestions: []string{
			"Try a different SQL dialect (-d option)",
			"Break the expression into simpler parts",
			"Use only supported functions and operators",
		},
	},
	TopicValidation: {
		Description: "dplyr code validation failed.",
		Suggestions: []string{"Check the dplyr syntax", "Check the function usage"},
	},
	TopicComplexity: {
		Description: "The query is too complex.",
		Suggestions: []string{"Break the query into simpler parts", "Remove unnecessary operations"},
	},
	TopicNotFound: {
		Description: "The specified file does not exist.",
		Suggestions: []string{"Check the file path", "Check that the file exists"},
	},
	TopicPermission: {
		Description: "You do not have permission to read or write the file.",
		Suggestions: []string{"Check the file permissions"},
	},
	TopicIO: {
		Description: "An error occurred during a file or I/O operation.",
		Suggestions: []string{"Check the file path and permissions", "Check the available disk space"},
	},
	TopicConfig: {
		Description: "There is a problem with the configuration.",
		Suggestions: []string{"Check the configuration options", "Run with --debug to see where settings come from"},
	},
	TopicTimeout: {
		Description: "Transpilation did not finish in time.",
		Suggestions: []string{"Simplify the pipeline", "Raise the limit with --timeout"},
	},
	TopicGeneral: {
		Description: "An unexpected error occurred.",
		Suggestions: []string{"Run with --debug for details"},
	},
}

var korean = map[string]string{
	"Please provide valid dplyr code.":                      "올바른 dplyr 코드를 입력해 주세요.",
	"Example: data %%>%% select(name, age)":                 "예: data %%>%% select(name, age)",
	"There is a syntax error in the input code.":            "입력 코드에 구문 오류가 있습니다.",
	"Check that string quotes are closed":                   "문자열 따옴표가 닫혀 있는지 확인하세요",
	"Check special characters and escape sequences":         "특수 문자와 이스케이프 시퀀스를 확인하세요",
	"Remove unsupported characters":                         "지원되지 않는 문자를 제거하세요",
	"The dplyr function usage is incorrect.":                "dplyr 함수 사용법이 올바르지 않습니다.",
	"Check the dplyr function names":                        "dplyr 함수 이름을 확인하세요",
	"Check the function arguments":                          "함수 인수를 확인하세요",
	"Check the pipe operator (%%>%% or |>) usage":           "파이프 연산자(%%>%% 또는 |>) 사용을 확인하세요",
	"Check the placement of parentheses and commas":         "괄호와 쉼표의 위치를 확인하세요",
	"Try a different SQL dialect (-d option)":               "다른 SQL 방언을 사용해 보세요 (-d 옵션)",
	"Break the expression into simpler parts":               "표현식을 더 단순하게 나누어 보세요",
	"Use only supported functions and operators":            "지원되는 함수와 연산자만 사용하세요",
	"dplyr code validation failed.":                         "dplyr 코드 검증에 실패했습니다.",
	"Check the dplyr syntax":                                "dplyr 구문을 확인하세요",
	"Check the function usage":                              "함수 사용법을 확인하세요",
	"The query is too complex.":                             "쿼리가 너무 복잡합니다.",
	"Break the query into simpler parts":                    "쿼리를 더 단순한 부분으로 나누세요",
	"Remove unnecessary operations":                         "불필요한 연산을 제거하세요",
	"The specified file does not exist.":                    "지정한 파일이 존재하지 않습니다.",
	"Check the file path":                                   "파일 경로를 확인하세요",
	"Check that the file exists":                            "파일이 존재하는지 확인하세요",
	"You do not have permission to read or write the file.": "파일 읽기/쓰기 권한이 없습니다.",
	"Check the file permissions":                            "파일 권한을 확인하세요",
	"An error occurred during a file or I/O operation.":     "파일 또는 입출력 작업 중 오류가 발생했습니다.",
	"Check the file path and permissions":                   "파일 경로와 권한을 확인하세요",
	"Check the available disk space":                        "디스크 여유 공간을 확인하세요",
	"There is a problem with the configuration.":            "설정에 문제가 있습니다.",
	"Check the configuration options":                       "설정 옵션을 확인하세요",
	"Run with --debug to see where settings come from":      "--debug로 실행하여 설정 출처를 확인하세요",
	"Transpilation did not finish in time.":                 "변환이 제한 시간 내에 끝나지 않았습니다.",
	"Simplify the pipeline":                                 "파이프라인을 단순화하세요",
	"Raise the limit with --timeout":                        "--timeout으로 제한 시간을 늘리세요",
	"An unexpected error occurred.":                         "예기치 않은 오류가 발생했습니다.",
	"Run with --debug for details":                          "자세한 내용은 --debug로 실행하세요",
	"Error":                                                 "오류",
	"Warning":                                               "경고",
	"Suggestions":                                           "제안",
}

func init() {
	for key, msg := range korean {
		if err := message.SetString(language.Korean, key, msg); err != nil {
			panic(err)
		}
	}
}

// Tag maps a lang setting to a language tag. Unknown values are English.
func Tag(lang string) language.Tag {
	if lang == "ko" {
		return language.Korean
	}
	return language.English
}

// Localize translates an English catalog text into lang.
func Localize(lang, text string) string {
	return message.NewPrinter(Tag(lang)).Sprintf(text)
}

// HintFor returns the hint for topic in lang.
func HintFor(topic Topic, lang string) Hint {
	h, ok := hints[topic]
	if !ok {
		h = hints[TopicGeneral]
	}
	p := message.NewPrinter(Tag(lang))
	out := Hint{Description: p.Sprintf(h.Description)}
	for _, s := range h.Suggestions {
		out.Suggestions = append(out.Suggestions, p.Sprintf(s))
	}
	return out
}

// ErrorWithHint writes msg followed by the hint's description and
// suggestions to the error output.
func (r *Renderer) ErrorWithHint(msg string, h Hint, lang string) {
	r.Error(msg)
	if h.Description != "" {
		r.errPrintln("  " + h.Description)
	}
	if len(h.Suggestions) == 0 {
		return
	}
	r.errPrintln("  " + Localize(lang, "Suggestions") + ":")
	for _, s := range h.Suggestions {
		r.errPrintln("    - " + s)
	}
}
