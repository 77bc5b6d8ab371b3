package content

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/Ankit1478/LLM-Internals/internal/apperr"
	"github.com/Ankit1478/LLM-Internals/internal/models"
)

// hclRoadmap is the top-level structure of roadmap.hcl:
//
//	module {
//	  number = 1
//	  title  = "LLM Internals"
//	  icon   = "zap"
//
//	  topic "tokens-tokenization" { title = "Tokens & Tokenization" }
//
//	  submodule "Core Agent Patterns" {
//	    topic "react-pattern" { title = "ReAct" }
//	  }
//	}
type hclRoadmap struct {
	Modules []hclModule `hcl:"module,block"`
}

type hclModule struct {
	Number     int            `hcl:"number"`
	Title      string         `hcl:"title"`
	Icon       string         `hcl:"icon,optional"`
	Topics     []hclTopic     `hcl:"topic,block"`
	SubModules []hclSubModule `hcl:"submodule,block"`
}

type hclSubModule struct {
	Title  string     `hcl:"title,label"`
	Topics []hclTopic `hcl:"topic,block"`
}

type hclTopic struct {
	Slug  string `hcl:"slug,label"`
	Title string `hcl:"title"`
}

// DecodeRoadmapHCL parses an HCL navigation tree. filename is used in
// diagnostics only.
func DecodeRoadmapHCL(src []byte, filename string) ([]models.Module, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("content: %w: parse %s: %w", apperr.ErrInvalidContent, filename, diags)
	}

	var doc hclRoadmap
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, fmt.Errorf("content: %w: decode %s: %w", apperr.ErrInvalidContent, filename, diags)
	}

	out := make([]models.Module, 0, len(doc.Modules))
	for _, m := range doc.Modules {
		mod := models.Module{
			Number: m.Number,
			Title:  m.Title,
			Icon:   m.Icon,
			Topics: convertTopics(m.Topics),
		}
		for _, sm := range m.SubModules {
			mod.SubModules = append(mod.SubModules, models.SubModule{
				Title:  sm.Title,
				Topics: convertTopics(sm.Topics),
			})
		}
		out = append(out, mod)
	}
	return out, nil
}

func convertTopics(in []hclTopic) []models.Topic {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.Topic, len(in))
	for i, t := range in {
		out[i] = models.Topic{Title: t.Title, Slug: t.Slug}
	}
	return out
}

// yamlRoadmap accepts either a bare list of modules or a {modules: [...]}
// document.
type yamlRoadmap struct {
	Modules []models.Module `yaml:"modules"`
}

// DecodeRoadmapYAML parses a YAML navigation tree.
func DecodeRoadmapYAML(src []byte) ([]models.Module, error) {
	var list []models.Module
	if err := yaml.Unmarshal(src, &list); err == nil {
		return list, nil
	}
	var doc yamlRoadmap
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("content: %w: decode %s: %w", apperr.ErrInvalidContent, RoadmapYAML, err)
	}
	return doc.Modules, nil
}
