// Package models defines the domain types for the documentation catalog.
package models

// Article is one documentation page.
type Article struct {
	Module      int       `json:"module"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ReadTime    int       `json:"read_time"`
	Content     string    `json:"content"`
	Previous    *TopicRef `json:"previous_topic,omitempty"`
	Next        *TopicRef `json:"next_topic,omitempty"`
	Checksum    string    `json:"checksum"`
	Source      string    `json:"-"` // file the article was loaded from
}

// TopicRef points at a neighbouring article in reading order.
type TopicRef struct {
	Module int    `json:"module"`
	Slug   string `json:"slug"`
	Title  string `json:"title"`
}

// Clone returns a copy of a that shares no pointers with the original.
func (a Article) Clone() Article {
	if a.Previous != nil {
		p := *a.Previous
		a.Previous = &p
	}
	if a.Next != nil {
		n := *a.Next
		a.Next = &n
	}
	return a
}
