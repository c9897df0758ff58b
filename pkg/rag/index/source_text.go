// FILE: pkg/rag/index/source_text.go
// PURPOSE: Canonical document text per inventory entity

package index

import (
	"fmt"
	"strings"

	"inventory-assistant-be/internal/entity"
)

// The documents below are what gets embedded and what later surfaces in
// prompts as retrieved snippets. Keep them short, factual, and stable:
// any wording change makes previously stored vectors stale.

func BuildAssetDocument(asset *entity.Asset, roomName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tài sản %s: %s.", asset.Code, asset.Name)
	if asset.Specifications != "" {
		fmt.Fprintf(&b, " Thông số: %s.", asset.Specifications)
	}
	fmt.Fprintf(&b, " Năm %d, số lượng %d", asset.Year, asset.Quantity)
	if asset.MissingQuantity > 0 {
		fmt.Fprintf(&b, ", thiếu %d", asset.MissingQuantity)
	}
	fmt.Fprintf(&b, ", giá trị còn lại %.0f.", asset.RemainingValue)
	if roomName != "" {
		fmt.Fprintf(&b, " Đặt tại phòng %s.", roomName)
	}
	return b.String()
}

func BuildRoomDocument(room *entity.Room) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Phòng %s", room.Name)
	if room.Building != "" {
		fmt.Fprintf(&b, ", %s", room.Building)
	}
	b.WriteString(".")
	if room.Description != "" {
		fmt.Fprintf(&b, " %s", room.Description)
	}
	return b.String()
}

func BuildUserDocument(user *entity.User) string {
	doc := fmt.Sprintf("Nhân sự %s", user.FullName)
	if user.Role != "" {
		doc += fmt.Sprintf(", vai trò %s", user.Role)
	}
	return doc + "."
}
