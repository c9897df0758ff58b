// FILE: pkg/rag/prompt/builder.go
// PURPOSE: Deterministic prompt assembly from retrieval results

package prompt

import (
	"fmt"
	"strings"

	"inventory-assistant-be/internal/constant"
	"inventory-assistant-be/internal/entity"
	"inventory-assistant-be/pkg/rag/retrieval"
	"inventory-assistant-be/pkg/rag/search"
)

const systemFraming = `Bạn là trợ lý quản lý tài sản của đơn vị. Trả lời ngắn gọn, chính xác, bằng tiếng Việt.
Chỉ dựa vào dữ liệu được cung cấp dưới đây. Nếu dữ liệu không đủ để trả lời, hãy nói rõ là không tìm thấy thông tin.`

// Input collects everything one completion call needs. All fields are
// optional except Question; empty sections are omitted from the output.
type Input struct {
	Structured *retrieval.Result
	Snippets   []search.Snippet
	History    []*entity.ChatMessage
	Question   string
}

// Build renders the prompt. Section order is fixed and content order
// follows the input slices, so identical inputs always produce an
// identical prompt.
func Build(in Input) string {
	var b strings.Builder

	b.WriteString(systemFraming)
	b.WriteString("\n")

	if in.Structured != nil && !in.Structured.Empty() {
		b.WriteString("\n## Dữ liệu tra cứu\n")
		for _, line := range in.Structured.Summaries() {
			b.WriteString("- ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if len(in.Snippets) > 0 {
		b.WriteString("\n## Thông tin liên quan\n")
		for _, s := range in.Snippets {
			fmt.Fprintf(&b, "- (%s) %s\n", s.EntityType, s.SourceText)
		}
	}

	if len(in.History) > 0 {
		b.WriteString("\n## Hội thoại gần đây\n")
		for _, msg := range in.History {
			switch msg.Role {
			case constant.ChatMessageRoleUser:
				b.WriteString("Người dùng: ")
			case constant.ChatMessageRoleAssistant:
				b.WriteString("Trợ lý: ")
			default:
				continue
			}
			b.WriteString(msg.Content)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n## Câu hỏi\n")
	b.WriteString(in.Question)
	b.WriteString("\n")

	return b.String()
}
