package sensors

import "hvac-dashboard/internal/common"

// maxPlainWindow is the largest page count shown without ellipses
const maxPlainWindow = 7

// PageSlot is one entry of the pager: a page number or an ellipsis
type PageSlot struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// BuildPageWindow returns the pager slots for page out of totalPages.
// Up to seven pages are listed in full. Beyond that the first and last
// page and the neighbours of the current page are shown, with an ellipsis
// wherever two shown pages are more than one apart.
func BuildPageWindow(page, totalPages int) []PageSlot {
	if totalPages < 1 {
		totalPages = 1
	}
	page = common.Clamp(page, 1, totalPages)

	if totalPages <= maxPlainWindow {
		slots := make([]PageSlot, 0, totalPages)
		for n := 1; n <= totalPages; n++ {
			slots = append(slots, PageSlot{Page: n})
		}
		return slots
	}

	shown := []int{1}
	for offset := -1; offset <= 1; offset++ {
		n := common.Clamp(page+offset, 1, totalPages)
		if n > shown[len(shown)-1] {
			shown = append(shown, n)
		}
	}
	if totalPages > shown[len(shown)-1] {
		shown = append(shown, totalPages)
	}

	slots := make([]PageSlot, 0, maxPlainWindow)
	for i, n := range shown {
		if i > 0 && n-shown[i-1] > 1 {
			slots = append(slots, PageSlot{Ellipsis: true})
		}
		slots = append(slots, PageSlot{Page: n})
	}
	return slots
}
