// FILE: pkg/rag/retrieval/structured.go
// PURPOSE: Bounded database lookups driven by the intent analysis

package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inventory-assistant-be/internal/entity"
	"inventory-assistant-be/internal/pkg/logger"
	"inventory-assistant-be/internal/repository/specification"
	"inventory-assistant-be/pkg/rag/intent"
)

// AssetSource and RoomSource are the narrow slices of the repository layer
// the structured retriever actually needs.
type AssetSource interface {
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Asset, error)
}

type RoomSource interface {
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Room, error)
}

// AssetSummary is a display projection of an asset, with the room name
// already hydrated.
type AssetSummary struct {
	Code            string
	Name            string
	Year            int
	Quantity        int
	MissingQuantity int
	RemainingValue  float64
	RoomName        string
}

type RoomSummary struct {
	Name     string
	Building string
}

// Result is everything the structured path found for one question. Empty
// results are normal; they just mean the prompt gets no structured section.
type Result struct {
	Assets []AssetSummary
	Rooms  []RoomSummary
}

func (r *Result) Empty() bool {
	return len(r.Assets) == 0 && len(r.Rooms) == 0
}

// Summaries renders the result as one line per record, ready to drop into
// a prompt section.
func (r *Result) Summaries() []string {
	lines := make([]string, 0, len(r.Assets)+len(r.Rooms))
	for _, a := range r.Assets {
		line := fmt.Sprintf("[%s] %s | năm %d | số lượng %d | giá trị còn lại %.0f", a.Code, a.Name, a.Year, a.Quantity, a.RemainingValue)
		if a.MissingQuantity > 0 {
			line += fmt.Sprintf(" | thiếu %d", a.MissingQuantity)
		}
		if a.RoomName != "" {
			line += " | phòng " + a.RoomName
		}
		lines = append(lines, line)
	}
	for _, room := range r.Rooms {
		line := "Phòng " + room.Name
		if room.Building != "" {
			line += " (" + room.Building + ")"
		}
		lines = append(lines, line)
	}
	return lines
}

// StructuredRetriever resolves an intent analysis into capped database
// queries. It never returns an error to its caller; lookup failures are
// logged and degrade to an empty result.
type StructuredRetriever struct {
	assets AssetSource
	rooms  RoomSource
	cap    int
	logger logger.ILogger
}

func NewStructuredRetriever(assets AssetSource, rooms RoomSource, resultCap int, logger logger.ILogger) *StructuredRetriever {
	return &StructuredRetriever{
		assets: assets,
		rooms:  rooms,
		cap:    resultCap,
		logger: logger,
	}
}

func (r *StructuredRetriever) Retrieve(ctx context.Context, analysis *intent.Analysis) *Result {
	result := &Result{}

	filters, roomSummaries := r.buildFilters(ctx, analysis)
	result.Rooms = roomSummaries

	order, limit := r.orderAndLimit(analysis)

	specs := make([]specification.Specification, 0, len(filters)+2)
	specs = append(specs, filters...)
	if order != nil {
		specs = append(specs, *order)
	}
	specs = append(specs, specification.Limit{N: limit})

	// A question with no filters and no aggregate shape would just dump
	// arbitrary rows; skip the asset query entirely in that case.
	if len(filters) == 0 && order == nil {
		return result
	}

	assets, err := r.assets.FindAll(ctx, specs...)
	if err != nil {
		r.logger.Warn("STRUCTURED", "asset lookup failed", map[string]interface{}{"error": err.Error()})
		return &Result{}
	}

	result.Assets = r.summarize(ctx, assets)
	return result
}

// buildFilters converts extracted entities into WHERE specifications,
// resolving a room name to room ids when one was mentioned.
func (r *StructuredRetriever) buildFilters(ctx context.Context, analysis *intent.Analysis) ([]specification.Specification, []RoomSummary) {
	filters := []specification.Specification{}
	roomSummaries := []RoomSummary{}

	if code := analysis.Entities.AssetCode; code != "" {
		filters = append(filters, specification.CodeLike{Pattern: code})
	}

	if name := analysis.Entities.RoomName; name != "" {
		rooms, err := r.rooms.FindAll(ctx, specification.NameLike{Pattern: name}, specification.Limit{N: 5})
		if err != nil {
			r.logger.Warn("STRUCTURED", "room lookup failed", map[string]interface{}{"room": name, "error": err.Error()})
		} else if len(rooms) > 0 {
			ids := make([]uuid.UUID, len(rooms))
			for i, room := range rooms {
				ids[i] = room.Id
				roomSummaries = append(roomSummaries, RoomSummary{Name: room.Name, Building: room.Building})
			}
			filters = append(filters, specification.ByRoomIDs{RoomIDs: ids})
		}
	}

	if analysis.Entities.Year != 0 {
		filters = append(filters, specification.ByYear{Year: analysis.Entities.Year})
	}

	if analysis.Special.Missing {
		filters = append(filters, specification.MissingOnly{})
	}

	return filters, roomSummaries
}

// orderAndLimit maps the aggregate flags onto an ordering and a row cap.
// Superlative questions want a handful of rows, everything else is bounded
// by the configured cap.
func (r *StructuredRetriever) orderAndLimit(analysis *intent.Analysis) (*specification.OrderBy, int) {
	switch {
	case analysis.Special.HighestValue:
		return &specification.OrderBy{Field: "remaining_value", Desc: true}, 3
	case analysis.Special.LowestValue:
		return &specification.OrderBy{Field: "remaining_value", Desc: false}, 3
	case analysis.Special.MostQuantity:
		return &specification.OrderBy{Field: "quantity", Desc: true}, 3
	case analysis.Special.Recent:
		return &specification.OrderBy{Field: "year", Desc: true}, r.cap
	default:
		return nil, r.cap
	}
}

// summarize projects assets for display and hydrates room names in one
// batched lookup.
func (r *StructuredRetriever) summarize(ctx context.Context, assets []*entity.Asset) []AssetSummary {
	roomIds := make([]uuid.UUID, 0, len(assets))
	seen := map[uuid.UUID]bool{}
	for _, a := range assets {
		if a.RoomId != nil && !seen[*a.RoomId] {
			seen[*a.RoomId] = true
			roomIds = append(roomIds, *a.RoomId)
		}
	}

	roomNames := map[uuid.UUID]string{}
	if len(roomIds) > 0 {
		rooms, err := r.rooms.FindAll(ctx, specification.ByIDs{IDs: roomIds})
		if err != nil {
			r.logger.Warn("STRUCTURED", "room hydration failed", map[string]interface{}{"error": err.Error()})
		} else {
			for _, room := range rooms {
				roomNames[room.Id] = room.Name
			}
		}
	}

	summaries := make([]AssetSummary, len(assets))
	for i, a := range assets {
		summary := AssetSummary{
			Code:            a.Code,
			Name:            strings.TrimSpace(a.Name),
			Year:            a.Year,
			Quantity:        a.Quantity,
			MissingQuantity: a.MissingQuantity,
			RemainingValue:  a.RemainingValue,
		}
		if a.RoomId != nil {
			summary.RoomName = roomNames[*a.RoomId]
		}
		summaries[i] = summary
	}
	return summaries
}
