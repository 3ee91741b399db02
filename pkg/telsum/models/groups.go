package models

// SheetGroups is a partition of worksheet names keyed by shared prefix.
// Group keys and the names within each group keep first-seen order.
type SheetGroups struct {
	keys    []string
	members map[string][]string
}

// NewSheetGroups returns an empty partition.
func NewSheetGroups() *SheetGroups {
	return &SheetGroups{members: make(map[string][]string)}
}

// Add appends a worksheet name to the group for key, creating the group on
// first use.
func (g *SheetGroups) Add(key, name string) {
	if _, ok := g.members[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.members[key] = append(g.members[key], name)
}

// Keys returns the group keys in first-seen order.
func (g *SheetGroups) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Members returns the worksheet names grouped under key, in first-seen order.
func (g *SheetGroups) Members(key string) []string {
	return g.members[key]
}

// Len returns the number of groups.
func (g *SheetGroups) Len() int {
	return len(g.keys)
}
