package gemini

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/resume-scorer/internal/apperr"
	"github.com/spigell/resume-scorer/internal/matching"
)

var (
	labelledScore = regexp.MustCompile(`(?i)match\s*score[*_\s]*:[*_\s]*(-?\d+(?:\.\d+)?)`)
	scorePattern  = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*(?:/\s*100|%)`)
	sectionHeader = regexp.MustCompile(`(?i)^(match score|missing skills|suggestions|interview questions)[*_\s]*:[*_\s]*(.*)$`)
	bulletPrefix  = regexp.MustCompile(`^(?:[-*•]+|\d+[.)])\s*`)
)

type section int

const (
	sectionNone section = iota
	sectionMissing
	sectionSuggestions
	sectionQuestions
)

// parseResponse reads either a JSON object or the labelled text format. It fails
// only when neither yields a score or any list.
func parseResponse(raw string) (matching.Result, error) {
	if result, ok := parseJSON(raw); ok {
		return result, nil
	}
	if result, ok := parseSections(raw); ok {
		return result, nil
	}
	return matching.Result{}, fmt.Errorf("gemini response has neither a json object nor labelled sections: %w", apperr.ErrMalformedResponse)
}

func parseJSON(raw string) (matching.Result, bool) {
	obj := firstObject(extractJSON(raw))
	if obj == "" {
		return matching.Result{}, false
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(obj), &data); err != nil {
		return matching.Result{}, false
	}

	scoreValue, hasScore := data["match_score"]
	if !hasScore {
		scoreValue, hasScore = data["score"]
	}
	_, hasMissing := data["missing_skills"]
	_, hasSuggestions := data["suggestions"]
	if !hasScore && !hasMissing && !hasSuggestions {
		return matching.Result{}, false
	}

	score := coerceFloat(scoreValue)
	if math.IsNaN(score) {
		score = 0
	}

	return matching.Result{
		MatchScore:         matching.ClampScore(score),
		MissingSkills:      coerceStrings(data["missing_skills"]),
		Suggestions:        coerceStrings(data["suggestions"]),
		InterviewQuestions: coerceStrings(data["interview_questions"]),
	}, true
}

func parseSections(raw string) (matching.Result, bool) {
	result := matching.Result{
		MissingSkills: []string{},
		Suggestions:   []string{},
	}
	found := false

	m := labelledScore.FindStringSubmatch(raw)
	if m == nil {
		m = scorePattern.FindStringSubmatch(raw)
	}
	if m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			result.MatchScore = matching.ClampScore(v)
			found = true
		}
	}

	current := sectionNone
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*#_"))
		if line == "" {
			continue
		}

		if m := sectionHeader.FindStringSubmatch(line); m != nil {
			current = sectionFor(m[1])
			if current != sectionNone {
				found = true
			}
			if current == sectionMissing {
				for _, item := range strings.Split(m[2], ",") {
					result = appendItem(result, current, item)
				}
			} else {
				result = appendItem(result, current, m[2])
			}
			continue
		}

		result = appendItem(result, current, line)
	}

	return result, found
}

func sectionFor(header string) section {
	switch strings.ToLower(header) {
	case "missing skills":
		return sectionMissing
	case "suggestions":
		return sectionSuggestions
	case "interview questions":
		return sectionQuestions
	default:
		return sectionNone
	}
}

func appendItem(result matching.Result, s section, item string) matching.Result {
	item = strings.TrimSpace(bulletPrefix.ReplaceAllString(strings.TrimSpace(item), ""))
	item = strings.TrimSpace(strings.Trim(item, "*_"))
	if item == "" {
		return result
	}

	switch s {
	case sectionMissing:
		result.MissingSkills = append(result.MissingSkills, item)
	case sectionSuggestions:
		result.Suggestions = append(result.Suggestions, item)
	case sectionQuestions:
		result.InterviewQuestions = append(result.InterviewQuestions, item)
	}
	return result
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// firstObject returns the first balanced {...} in s, ignoring braces inside
// string literals.
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		trimmed = strings.TrimSuffix(trimmed, "/100")
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
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
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceStrings(v any) []string {
	out := []string{}
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, line := range strings.Split(val, "\n") {
			line = strings.TrimSpace(bulletPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
			if line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}
