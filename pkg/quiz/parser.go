package quiz

import (
	"strings"

	"ai-studymate-be/internal/constant"
)

// Pair is one parsed quiz item. Answered is false when the block carried no
// marker and the whole block is shown as an open question.
type Pair struct {
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
	Answered bool   `json:"answered"`
}

// Parse splits generated quiz text into (question, answer) pairs.
//
// Grammar is line-oriented: lines accumulate into the current question
// until a line containing the answer marker closes it; the text after the
// first marker occurrence on that line is the answer. Anomalies degrade,
// they never fail: a block without a marker becomes an unanswered question,
// a stray marker line with no preceding question text is dropped.
func Parse(text string) []Pair {
	return ParseWithMarker(text, constant.AnswerMarker)
}

func ParseWithMarker(text, marker string) []Pair {
	if marker == "" || strings.TrimSpace(text) == "" {
		if t := strings.TrimSpace(text); t != "" {
			return []Pair{{Question: t}}
		}
		return nil
	}

	var pairs []Pair
	var buffer []string

	flush := func(answer string, answered bool) {
		question := strings.TrimSpace(strings.Join(buffer, "\n"))
		buffer = buffer[:0]
		if question == "" && answer == "" {
			return
		}
		if question == "" {
			// Marker with nothing before it: nothing to ask, drop it.
			return
		}
		pairs = append(pairs, Pair{Question: question, Answer: answer, Answered: answered})
	}

	for _, line := range strings.Split(text, "\n") {
		idx := strings.Index(line, marker)
		if idx < 0 {
			buffer = append(buffer, line)
			continue
		}
		// Text left of the marker still belongs to the question.
		if before := strings.TrimSpace(line[:idx]); before != "" {
			buffer = append(buffer, before)
		}
		answer := strings.TrimSpace(line[idx+len(marker):])
		flush(answer, true)
	}

	// Trailing block without a marker: unanswered question.
	flush("", false)

	return pairs
}
