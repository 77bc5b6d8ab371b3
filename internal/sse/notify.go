package sse

import (
	"github.com/Ankit1478/LLM-Internals/internal/docservice"
)

// ReloadNotifier returns a docservice reload hook that forwards every
// article change plus a registry.reloaded event carrying the new
// generation. A changed navigation tree also sends roadmap.updated.
func ReloadNotifier(b *Broker) docservice.ReloadFunc {
	return func(res docservice.ReloadResult) {
		for _, c := range res.Changes {
			b.PublishArticleEvent(string(c.Kind), c.Slug)
		}
		if res.RoadmapChanged {
			b.PublishRoadmapUpdated()
		}
		b.Publish(Event{Type: EventRegistryReloaded, Data: map[string]string{
			"generation": res.Generation,
		}})
	}
}
