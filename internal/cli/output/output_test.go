package output

import (
	"bytes"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func newTestRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputMode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"TEXT", ModeText, false},
		{" markdown ", ModeMarkdown, false},
		{"md", ModeMarkdown, false},
		{"json", ModeJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	r, _, _ := newTestRenderer(ModeAuto, true)
	assert.Equal(t, ModeText, r.EffectiveMode())

	r, _, _ = newTestRenderer(ModeAuto, false)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	r, _, _ = newTestRenderer(ModeJSON, true)
	assert.Equal(t, ModeJSON, r.EffectiveMode())

	r, _, _ = newTestRenderer("", false)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_SQL(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.SQL("SELECT *\nFROM \"data\"\n")
	assert.Equal(t, "```sql\nSELECT *\nFROM \"data\"\n```\n", out.String())

	r, out, _ = newTestRenderer(ModeText, false)
	r.SQL("SELECT 1")
	assert.Equal(t, "SELECT 1\n", out.String())
}

func TestRenderer_Messages(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, false)
	r.Success("done")
	r.Muted("quiet")
	r.Error("boom")
	r.Warning("careful")

	assert.Equal(t, "done\nquiet\n", out.String())
	assert.Equal(t, "Error: boom\nWarning: careful\n", errOut.String())
}

func TestRenderer_TextWithoutTTYHasNoANSI(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText, false)
	r.Header(1, "Dialects")
	r.Success("ok")
	r.Error("bad")
	r.StatusLine("a.R", "success", "12 bytes")

	assert.False(t, ansi.MatchString(out.String()+errOut.String()))
	assert.Contains(t, out.String(), "✓ ok")
	assert.Contains(t, out.String(), "✓ a.R  12 bytes")
	assert.Contains(t, errOut.String(), "✗ bad")
}

func TestRenderer_HeaderMarkdown(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Header(2, "Summary")
	r.StatusLine("b.R", "failed", "")
	assert.Equal(t, "## Summary\n\n- ✗ b.R\n", out.String())
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(1, "Title"))
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Deep", FormatHeader(3, "Deep"))
	assert.Equal(t, "- **dialect**: postgresql", FormatKeyValue("dialect", "postgresql"))
}

func TestHintFor(t *testing.T) {
	en := HintFor(TopicParse, "en")
	assert.Equal(t, "The dplyr function usage is incorrect.", en.Description)
	assert.Contains(t, en.Suggestions, "Check the pipe operator (%>% or |>) usage")

	ko := HintFor(TopicParse, "ko")
	assert.Equal(t, "dplyr 함수 사용법이 올바르지 않습니다.", ko.Description)
	assert.Contains(t, ko.Suggestions, "파이프 연산자(%>% 또는 |>) 사용을 확인하세요")
	assert.Len(t, ko.Suggestions, len(en.Suggestions))

	assert.Equal(t, HintFor(TopicGeneral, "en"), HintFor(Topic("nope"), "en"))
	assert.Equal(t, "Example: data %>% select(name, age)", HintFor(TopicInput, "fr").Suggestions[0])
}

func TestErrorWithHint(t *testing.T) {
	r, _, errOut := newTestRenderer(ModeMarkdown, false)
	r.ErrorWithHint("unexpected token", HintFor(TopicTimeout, "ko"), "ko")

	want := "Error: unexpected token\n" +
		"  변환이 제한 시간 내에 끝나지 않았습니다.\n" +
		"  제안:\n" +
		"    - 파이프라인을 단순화하세요\n" +
		"    - --timeout으로 제한 시간을 늘리세요\n"
	assert.Equal(t, want, errOut.String())
}

func TestDescribeInput(t *testing.T) {
	assert.Equal(t, InputInfo{Source: "stdin"}, DescribeInput("stdin", ""))
	assert.Equal(t, InputInfo{Source: "a.R", Bytes: 9, Lines: 1}, DescribeInput("a.R", "select(a)"))
	assert.Equal(t, InputInfo{Source: "arg", Bytes: 25, Lines: 2}, DescribeInput("arg", "select(a) %>%\narrange(b)\n"))
}

func TestEnvelope(t *testing.T) {
	meta := NewMetadata("postgresql", DescribeInput("arg", "select(a)"))
	_, err := uuid.Parse(meta.RequestID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), meta.Timestamp, time.Minute)

	meta.Elapsed(time.Now().Add(-2 * time.Millisecond))
	assert.GreaterOrEqual(t, meta.ProcessingMS, 2.0)

	ok, err := json.Marshal(SuccessEnvelope("SELECT \"a\"", meta))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(ok, &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, `SELECT "a"`, decoded["sql"])
	assert.NotContains(t, decoded, "error")
	assert.Equal(t, "postgresql", decoded["metadata"].(map[string]any)["dialect"])

	failed, err := json.Marshal(ErrorEnvelope(ErrorBody{Topic: TopicLex, Stage: "lex", Message: "bad char", ExitCode: 4}, meta))
	require.NoError(t, err)
	decoded = nil
	require.NoError(t, json.Unmarshal(failed, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "sql")
	body := decoded["error"].(map[string]any)
	assert.Equal(t, "lex", body["topic"])
	assert.InDelta(t, 4, body["exit_code"], 0)
}
