package models

// Icon names a card icon on the listing page.
const (
	IconBookOpen = "book-open"
	IconZap      = "zap"
	IconCode     = "code"
)

// Icons lists every icon the listing page can draw.
var Icons = []string{IconBookOpen, IconZap, IconCode}

// Topic is a navigation pointer into the article registry.
type Topic struct {
	Title string `json:"title" yaml:"title"`
	Slug  string `json:"slug" yaml:"slug"`
}

// SubModule groups topics inside a module.
type SubModule struct {
	Title  string  `json:"title" yaml:"title"`
	Topics []Topic `json:"topics" yaml:"topics"`
}

// Module is a top-level curriculum entry of the navigation tree. A module
// carries either flat Topics or SubModules, never both.
type Module struct {
	Number     int         `json:"module" yaml:"module"`
	Title      string      `json:"title" yaml:"title"`
	Icon       string      `json:"icon" yaml:"icon"`
	Topics     []Topic     `json:"topics,omitempty" yaml:"topics"`
	SubModules []SubModule `json:"sub_modules,omitempty" yaml:"sub_modules"`
}

// IconOrDefault returns the module icon, falling back to IconBookOpen.
func (m Module) IconOrDefault() string {
	if m.Icon == "" {
		return IconBookOpen
	}
	return m.Icon
}

// AllTopics returns the module's topics in reading order: flat topics first,
// then each sub-module's topics.
func (m Module) AllTopics() []Topic {
	out := make([]Topic, 0, len(m.Topics))
	out = append(out, m.Topics...)
	for _, sm := range m.SubModules {
		out = append(out, sm.Topics...)
	}
	return out
}

// CloneRoadmap deep-copies a navigation tree.
func CloneRoadmap(in []Module) []Module {
	out := make([]Module, len(in))
	for i, m := range in {
		c := m
		c.Topics = append([]Topic(nil), m.Topics...)
		if m.SubModules != nil {
			c.SubModules = make([]SubModule, len(m.SubModules))
			for j, sm := range m.SubModules {
				c.SubModules[j] = SubModule{
					Title:  sm.Title,
					Topics: append([]Topic(nil), sm.Topics...),
				}
			}
		}
		out[i] = c
	}
	return out
}

// FileMetadata describes one file in a content source.
type FileMetadata struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
}
