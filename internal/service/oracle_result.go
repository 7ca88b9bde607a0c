package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ResultKind int

const (
	ParseFailure ResultKind = iota
	ParsedScore
	ParsedObject
)

func (k ResultKind) String() string {
	switch k {
	case ParsedScore:
		return "score"
	case ParsedObject:
		return "object"
	}
	return "failure"
}

// OracleResult is the only shape LLM output takes once it leaves the parser.
type OracleResult struct {
	Kind   ResultKind
	Score  float64
	Object map[string]any
}

// ParseOracleResponse reads a completion. The first balanced {...} span wins;
// only when there is none is the whole text tried as a bare number.
func ParseOracleResponse(raw string) OracleResult {
	text := stripCodeFence(raw)
	if text == "" {
		return OracleResult{Kind: ParseFailure}
	}

	if span, ok := firstJSONObject(text); ok {
		var obj map[string]any
		if err := json.Unmarshal([]byte(span), &obj); err != nil {
			return OracleResult{Kind: ParseFailure}
		}
		return OracleResult{Kind: ParsedObject, Object: obj}
	}

	var v any
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		switch val := v.(type) {
		case float64:
			return scoreResult(val)
		case string:
			text = val
		default:
			return OracleResult{Kind: ParseFailure}
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return OracleResult{Kind: ParseFailure}
	}
	return scoreResult(f)
}

func scoreResult(f float64) OracleResult {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return OracleResult{Kind: ParseFailure}
	}
	return OracleResult{Kind: ParsedScore, Score: f}
}

func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(strings.Trim(raw, "`"))
}

// firstJSONObject returns the first brace-balanced span of text. Braces inside
// JSON strings are ignored.
func firstJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", false
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func clampScore(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return DefaultScore
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
