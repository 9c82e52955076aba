package entities

import "sort"

// KnowledgeBase is the ordered historical sequence of MeetingRecords for
// one team, sorted ascending by date. It is owned by the team's store and
// mutated only via merge-insert; records are never deleted.
type KnowledgeBase []MeetingRecord

// SortByDate stable-sorts the base ascending by record date. Records with
// equal dates keep their relative insertion order, so a team holding
// several meetings on one day preserves submission order.
func (kb KnowledgeBase) SortByDate() {
	sort.SliceStable(kb, func(i, j int) bool {
		return kb[i].Date < kb[j].Date
	})
}

// Previous returns the record immediately preceding the most recent one,
// or nil if the base holds fewer than two records. It surfaces
// "previous meeting" context to callers right after a merge-insert.
func (kb KnowledgeBase) Previous() *MeetingRecord {
	if len(kb) < 2 {
		return nil
	}
	return &kb[len(kb)-2]
}
