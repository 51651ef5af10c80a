package budget

import "sort"

// Ordering of items within a category. Manual array order is
// authoritative until a sort directive is toggled on; the directive
// then re-applies on every insert and edit until a manual move clears
// it. There is no toggle path back to unsorted.

// NextSortDirection is the sort-toggle transition: unsorted goes to
// ascending, and an active directive flips between ascending and
// descending.
func NextSortDirection(current SortDirection) SortDirection {
	if current == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// sortItems stable-sorts items by amount in the given direction. Ties
// keep their prior relative order. SortNone leaves the slice untouched.
func sortItems(items []Item, dir SortDirection) {
	switch dir {
	case SortAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Amount < items[j].Amount
		})
	case SortDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Amount > items[j].Amount
		})
	}
}

// moveItem splices the item at index from to destination index dest.
// dest is an insert-before position computed against the list before
// removal (len(items) means append), so it shifts down by one when the
// removal happens earlier in the slice.
func moveItem(items []Item, from, dest int) []Item {
	if dest > len(items) {
		dest = len(items)
	}
	if dest < 0 {
		dest = 0
	}
	if from < dest {
		dest--
	}

	moved := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items, Item{})
	copy(items[dest+1:], items[dest:])
	items[dest] = moved
	return items
}
