package web

import (
	"html/template"

	"github.com/Ankit1478/LLM-Internals/internal/models"
)

const svgOpen = `<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true">`

// icons maps module icon names to inline SVG.
var icons = map[string]template.HTML{
	models.IconBookOpen: svgOpen +
		`<path d="M2 3h6a4 4 0 0 1 4 4v14a3 3 0 0 0-3-3H2z"/>` +
		`<path d="M22 3h-6a4 4 0 0 0-4 4v14a3 3 0 0 1 3-3h7z"/></svg>`,
	models.IconZap: svgOpen +
		`<polygon points="13 2 3 14 12 14 11 22 21 10 12 10 13 2"/></svg>`,
	models.IconCode: svgOpen +
		`<polyline points="16 18 22 12 16 6"/><polyline points="8 6 2 12 8 18"/></svg>`,
}

func iconFor(m models.Module) template.HTML {
	if svg, ok := icons[m.IconOrDefault()]; ok {
		return svg
	}
	return icons[models.IconBookOpen]
}
