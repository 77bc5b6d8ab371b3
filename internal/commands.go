package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/Ankit1478/LLM-Internals/internal/apperr"
	"github.com/Ankit1478/LLM-Internals/internal/content"
	"github.com/Ankit1478/LLM-Internals/internal/docservice"
	"github.com/Ankit1478/LLM-Internals/internal/mcpserver"
	"github.com/Ankit1478/LLM-Internals/internal/registry"
)

// ErrCheckFailed is returned by Check when content has problems.
var ErrCheckFailed = errors.New("content check failed")

// ServeMCP serves the documentation tools over stdio until the client
// disconnects.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}

	svc, _, err := openService(ctx, app.config, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(svc, app.version).ServeStdio()
}

// Check builds the registry from the configured content and writes every
// problem and warning to w. It returns ErrCheckFailed when the content
// would be rejected at startup.
func Check(ctx context.Context, w io.Writer, opts ...Option) error {
	app, _, err := newApplication(opts)
	if err != nil {
		return err
	}

	src, err := content.Open(app.config.Content.Path)
	if err != nil {
		return err
	}

	reg, err := docservice.Build(ctx, src)
	if err != nil {
		var verr *registry.ValidationError
		switch {
		case errors.As(err, &verr):
			for _, p := range verr.Problems {
				fmt.Fprintf(w, "error\t%s\t%s\n", p.Kind, p.Detail)
			}
			fmt.Fprintf(w, "%s: %d problem(s)\n", src.Root(), len(verr.Problems))
		case errors.Is(err, apperr.ErrInvalidContent):
			fmt.Fprintf(w, "error\tparse\t%v\n", err)
		default:
			return err
		}
		return ErrCheckFailed
	}

	warnings := reg.Lint()
	for _, wn := range warnings {
		fmt.Fprintf(w, "warning\t%s\t%s\n", wn.Kind, wn.Detail)
	}
	fmt.Fprintf(w, "%s: ok, %d articles, %d modules, %d warning(s)\n",
		src.Root(), reg.Len(), len(reg.Roadmap()), len(warnings))
	return nil
}

// Docs prints the navigation tree, or the article registered under slug
// when slug is not empty.
func Docs(ctx context.Context, w io.Writer, slug string, opts ...Option) error {
	app, _, err := newApplication(opts)
	if err != nil {
		return err
	}

	// Keep the CLI output clean: content warnings are only logged at debug.
	svc, _, err := openService(ctx, app.config, slog.New(slog.DiscardHandler))
	if err != nil {
		return err
	}
	defer svc.Close()

	if slug != "" {
		a, err := svc.GetArticle(ctx, slug)
		if err != nil {
			return fmt.Errorf("article %q: %w", slug, err)
		}
		fmt.Fprintf(w, "%s\n%s\n\n%s", a.Title, a.Description, a.Content)
		if a.Previous != nil {
			fmt.Fprintf(w, "\nprevious: %s (%s)", a.Previous.Title, a.Previous.Slug)
		}
		if a.Next != nil {
			fmt.Fprintf(w, "\nnext: %s (%s)", a.Next.Title, a.Next.Slug)
		}
		fmt.Fprintln(w)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, m := range svc.Roadmap() {
		fmt.Fprintf(tw, "Module %d\t%s\n", m.Number+1, m.Title)
		for _, t := range m.Topics {
			fmt.Fprintf(tw, "  %s\t%s\n", t.Slug, t.Title)
		}
		for _, sm := range m.SubModules {
			fmt.Fprintf(tw, "  [%s]\t\n", sm.Title)
			for _, t := range sm.Topics {
				fmt.Fprintf(tw, "    %s\t%s\n", t.Slug, t.Title)
			}
		}
	}
	return tw.Flush()
}
