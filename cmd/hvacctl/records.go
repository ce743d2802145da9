package main

import (
	"encoding/json"
	"fmt"
	"os"

	"hvac-dashboard/internal/api/client"
	"hvac-dashboard/internal/sensors"
)

// loadRecords reads a sensor dump, either a bare JSON array or the
// upstream {"count", "results"} envelope
func loadRecords(path string) ([]sensors.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records []sensors.Record
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var envelope client.SensorStatusResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return envelope.Results, nil
}

// formatWindow renders pager slots as "1 … 4 [5] 6 … 12"
func formatWindow(slots []sensors.PageSlot, current int) string {
	out := ""
	for i, slot := range slots {
		if i > 0 {
			out += " "
		}
		switch {
		case slot.Ellipsis:
			out += "…"
		case slot.Page == current:
			out += fmt.Sprintf("[%d]", slot.Page)
		default:
			out += fmt.Sprintf("%d", slot.Page)
		}
	}
	return out
}
