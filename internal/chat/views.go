package chat

import (
	"cmp"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/collate"
)

// SortedConversations orders conversations pinned first, then by most recent
// activity. Ties keep stored order.
func (s *Store) SortedConversations() []Conversation {
	out := s.Conversations()
	SortConversations(out)
	return out
}

// SortConversations sorts in place by (pinned desc, lastMessageAt desc).
func SortConversations(convs []Conversation) {
	slices.SortStableFunc(convs, func(a, b Conversation) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.LastMessageAt, a.LastMessageAt)
	})
}

// TotalUnread sums the unread counters of all conversations.
func (s *Store) TotalUnread() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, c := range s.conversations {
		total += c.Unread
	}
	return total
}

// ContactsBySections groups contacts by the uppercase first letter of their
// name. Names not starting with A-Z land in "#", which always sorts last.
func (s *Store) ContactsBySections() []Section {
	contacts := s.Contacts()
	col := collate.New(s.locale)

	byLetter := make(map[string][]Contact)
	for _, c := range contacts {
		k := SectionLetter(c.Name)
		byLetter[k] = append(byLetter[k], c)
	}

	letters := make([]string, 0, len(byLetter))
	for k := range byLetter {
		letters = append(letters, k)
	}
	slices.SortFunc(letters, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case a == "#":
			return 1
		case b == "#":
			return -1
		}
		return col.CompareString(a, b)
	})

	sections := make([]Section, 0, len(letters))
	for _, k := range letters {
		list := byLetter[k]
		slices.SortStableFunc(list, func(a, b Contact) int {
			return col.CompareString(a.Name, b.Name)
		})
		sections = append(sections, Section{Letter: k, Contacts: list})
	}
	return sections
}

// SectionLetter returns the index letter for a contact name.
func SectionLetter(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "#"
	}
	r, _ := utf8.DecodeRuneInString(name)
	if u := unicode.ToUpper(r); u >= 'A' && u <= 'Z' {
		return string(u)
	}
	return "#"
}

// ConversationTimeLabel formats the conversation's last activity for a list row.
func (s *Store) ConversationTimeLabel(c Conversation) string {
	return FormatTimeLabel(s.now(), c.LastMessageAt, s.yesterday)
}

// FormatTimeLabel renders ts as HH:MM when it falls on now's calendar day,
// as the yesterday label when it falls on the previous calendar day, and as
// MM-DD otherwise. Calendar days are taken in now's location.
func FormatTimeLabel(now time.Time, ts int64, yesterday string) string {
	loc := now.Location()
	t := time.UnixMilli(ts).In(loc)

	y, m, d := now.Date()
	ty, tm, td := t.Date()
	if y == ty && m == tm && d == td {
		return t.Format("15:04")
	}

	prev := time.Date(y, m, d, 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	if py, pm, pd := prev.Date(); py == ty && pm == tm && pd == td {
		return yesterday
	}
	return t.Format("01-02")
}
