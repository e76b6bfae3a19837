package assessment

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/resume-scorer/internal/apperr"
)

type keyRecord struct {
	Questions []questionRecord `mapstructure:"questions"`
}

type questionRecord struct {
	CorrectAnswer any     `mapstructure:"correct_answer"`
	CorrectOption any     `mapstructure:"correct_option"`
	Weight        float64 `mapstructure:"weight"`
}

// DecodeKey reads an answer key from a loosely typed job record such as
// {"questions": [{"correct_answer": 1, "weight": 2}]}. Numbers may be strings and
// the correct option may be given as an index or as a letter.
func DecodeKey(record map[string]any) ([]Question, error) {
	var key keyRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &key,
	})
	if err != nil {
		return nil, fmt.Errorf("create answer key decoder: %w", err)
	}
	if err := decoder.Decode(record); err != nil {
		return nil, apperr.NewValidationError("questions", err.Error())
	}

	if len(key.Questions) == 0 {
		return nil, apperr.NewValidationError("questions", "answer key is empty")
	}

	questions := make([]Question, 0, len(key.Questions))
	for i, q := range key.Questions {
		raw := q.CorrectAnswer
		if raw == nil {
			raw = q.CorrectOption
		}
		option, err := parseOption(raw)
		if err != nil {
			return nil, apperr.NewValidationError(fmt.Sprintf("questions[%d].correct_answer", i), err.Error())
		}
		questions = append(questions, Question{CorrectOption: option, Weight: q.Weight})
	}

	return questions, nil
}

// ParseKey decodes a JSON answer key document.
func ParseKey(data []byte) ([]Question, error) {
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, apperr.NewValidationError("questions", fmt.Sprintf("answer key is not valid json: %v", err))
	}
	return DecodeKey(record)
}

func parseOption(v any) (int, error) {
	switch val := v.(type) {
	case nil:
		return 0, fmt.Errorf("correct option is missing")
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val != float64(int(val)) {
			return 0, fmt.Errorf("correct option %v is not a whole number", val)
		}
		return int(val), nil
	case string:
		trimmed := strings.ToUpper(strings.TrimSpace(val))
		if len(trimmed) == 1 {
			if idx := strings.Index(Letters, trimmed); idx >= 0 {
				return idx, nil
			}
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, fmt.Errorf("correct option %q is neither an index nor a letter", val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported correct option type %T", v)
	}
}
