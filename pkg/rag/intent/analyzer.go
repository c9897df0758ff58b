// FILE: pkg/rag/intent/analyzer.go
// PURPOSE: Keyword-based intent analysis for inventory questions

package intent

import (
	"regexp"
	"strings"
)

// Topic is a coarse subject area detected in a question.
type Topic string

const (
	TopicAsset    Topic = "asset"
	TopicRoom     Topic = "room"
	TopicUser     Topic = "user"
	TopicValue    Topic = "value"
	TopicStatus   Topic = "status"
	TopicTime     Topic = "time"
	TopicQuantity Topic = "quantity"
)

// SpecialQueries are aggregate question shapes that map to dedicated
// structured lookups instead of a plain filter.
type SpecialQueries struct {
	HighestValue bool
	LowestValue  bool
	MostQuantity bool
	Missing      bool
	Recent       bool
	ByRoom       bool
}

// Entities holds concrete identifiers extracted from the question text.
type Entities struct {
	AssetCode string
	RoomName  string
	Year      int
}

// Analysis is the full classification result for one question. An empty
// analysis (no topics, no flags, no entities) is valid and means the
// question gave the pipeline nothing to work with.
type Analysis struct {
	Topics   []Topic
	Special  SpecialQueries
	Entities Entities
}

// HasTopic reports whether t was detected.
func (a *Analysis) HasTopic(t Topic) bool {
	for _, topic := range a.Topics {
		if topic == t {
			return true
		}
	}
	return false
}

// Keyword tables. Vietnamese terms dominate because that is what the
// institution's users type; common English equivalents are included so
// mixed-language questions still classify.
var topicKeywords = map[Topic][]string{
	TopicAsset:    {"tài sản", "thiết bị", "asset", "máy", "mã"},
	TopicRoom:     {"phòng", "room"},
	TopicUser:     {"người", "nhân viên", "user", "phụ trách"},
	TopicValue:    {"giá trị", "giá", "value", "tiền", "nguyên giá"},
	TopicStatus:   {"trạng thái", "tình trạng", "status", "hỏng", "thiếu", "mất"},
	TopicTime:     {"năm", "year", "khi nào", "thời gian"},
	TopicQuantity: {"số lượng", "bao nhiêu", "quantity"},
}

// topicOrder fixes the iteration order so results are deterministic.
var topicOrder = []Topic{
	TopicAsset, TopicRoom, TopicUser, TopicValue, TopicStatus, TopicTime, TopicQuantity,
}

var specialKeywords = map[string][]string{
	"highestValue": {"cao nhất", "đắt nhất", "highest value"},
	"lowestValue":  {"thấp nhất", "rẻ nhất", "lowest value"},
	"mostQuantity": {"nhiều nhất", "most quantity"},
	"missing":      {"thiếu", "mất", "missing", "lost"},
	"recent":       {"mới nhất", "gần đây", "recent"},
	"byRoom":       {"ở phòng", "trong phòng", "theo phòng", "by room", "in room"},
}

var (
	yearPattern      = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	roomNamePattern  = regexp.MustCompile(`(?i)(?:phòng|room)\s+([A-Za-z0-9][A-Za-z0-9\-\.]*)`)
	assetCodePattern = regexp.MustCompile(`(?i)(?:mã(?:\s+tài\s+sản)?|asset\s+code|code)\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9\-\./]*)`)
)

// Analyze classifies a question. It is pure and total: any input string,
// including empty or emoji-only text, produces an Analysis and never an
// error. No network or model call happens here.
func Analyze(question string) *Analysis {
	lowered := strings.ToLower(question)
	analysis := &Analysis{}

	for _, topic := range topicOrder {
		for _, kw := range topicKeywords[topic] {
			if strings.Contains(lowered, kw) {
				analysis.Topics = append(analysis.Topics, topic)
				break
			}
		}
	}

	analysis.Special = SpecialQueries{
		HighestValue: containsAny(lowered, specialKeywords["highestValue"]),
		LowestValue:  containsAny(lowered, specialKeywords["lowestValue"]),
		MostQuantity: containsAny(lowered, specialKeywords["mostQuantity"]),
		Missing:      containsAny(lowered, specialKeywords["missing"]),
		Recent:       containsAny(lowered, specialKeywords["recent"]),
		ByRoom:       containsAny(lowered, specialKeywords["byRoom"]),
	}

	analysis.Entities = extractEntities(question)

	return analysis
}

func containsAny(lowered string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

func extractEntities(question string) Entities {
	entities := Entities{}

	if m := assetCodePattern.FindStringSubmatch(question); m != nil {
		entities.AssetCode = strings.ToUpper(m[1])
	}
	if m := roomNamePattern.FindStringSubmatch(question); m != nil {
		entities.RoomName = m[1]
	}
	if m := yearPattern.FindString(question); m != "" {
		// The pattern guarantees four digits, so this cannot fail.
		year := 0
		for _, ch := range m {
			year = year*10 + int(ch-'0')
		}
		entities.Year = year
	}

	return entities
}

// TopicStrings returns the detected topics as plain strings for logging
// and message metadata.
func (a *Analysis) TopicStrings() []string {
	out := make([]string, len(a.Topics))
	for i, t := range a.Topics {
		out[i] = string(t)
	}
	return out
}
