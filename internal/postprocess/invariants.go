package postprocess

import (
	"log"
	"sort"

	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
)

// RepairCounter receives one signal per invariant-sweep repair, letting
// a caller wire the count into its own metrics collector without this
// package importing it directly.
type RepairCounter interface {
	RecordRepair()
}

// sweepInvariants applies Step E (§4.7): sorts items by start_time,
// drops overlapping pairs (keeping the earlier item), and drops a transfer
// that directly follows another transfer. Two consecutive non-transfer
// items with no transfer between them are left as they are; no transfer
// is inserted. Violations are logged; repair is deterministic.
func sweepInvariants(day int, items []models.ScheduleItem, repairs RepairCounter) []models.ScheduleItem {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartTime < items[j].StartTime
	})

	items = dropOverlaps(day, items, repairs)
	items = dropDuplicateTransfers(day, items, repairs)

	return items
}

func dropOverlaps(day int, items []models.ScheduleItem, repairs RepairCounter) []models.ScheduleItem {
	out := make([]models.ScheduleItem, 0, len(items))
	for _, item := range items {
		if len(out) == 0 {
			out = append(out, item)
			continue
		}
		last := out[len(out)-1]
		lastEnd, lastOK := parseHHMM(last.EndTime)
		curStart, curOK := parseHHMM(item.StartTime)
		if lastOK && curOK && curStart < lastEnd {
			log.Printf("postprocess: day %d item %q overlaps %q, dropping later item", day, last.PlaceName, item.PlaceName)
			if repairs != nil {
				repairs.RecordRepair()
			}
			continue
		}
		out = append(out, item)
	}
	return out
}

// dropDuplicateTransfers removes a transfer that immediately follows
// another transfer (i.e. two transfers with no non-transfer item
// between them), keeping the first.
func dropDuplicateTransfers(day int, items []models.ScheduleItem, repairs RepairCounter) []models.ScheduleItem {
	out := make([]models.ScheduleItem, 0, len(items))
	prevWasTransfer := false
	for _, item := range items {
		if item.Type == models.ItemTransfer && prevWasTransfer {
			log.Printf("postprocess: day %d duplicate consecutive transfer %q dropped", day, item.PlaceName)
			if repairs != nil {
				repairs.RecordRepair()
			}
			continue
		}
		out = append(out, item)
		prevWasTransfer = item.Type == models.ItemTransfer
	}
	return out
}
