package telsum

import (
	"telsuite/pkg/telsum/models"
)

// GroupSheets partitions worksheet names by their first prefixLength
// characters. A name shorter than the prefix length groups under the full
// name. Group keys and members keep first-seen order; every input name lands
// in exactly one group.
func GroupSheets(sheetNames []string, prefixLength int) *models.SheetGroups {
	if prefixLength <= 0 {
		prefixLength = DefaultPrefixLength
	}
	groups := models.NewSheetGroups()
	for _, name := range sheetNames {
		key := name
		if runes := []rune(name); len(runes) >= prefixLength {
			key = string(runes[:prefixLength])
		}
		groups.Add(key, name)
	}
	return groups
}
