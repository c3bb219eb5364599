package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/scratches"
	"github.com/fwojciec/scratches/clip"
)

// Run executes the clip command.
func (c *ClipCmd) Run(deps *Dependencies) error {
	if c.Selection != "" && len(c.URLs) != 1 {
		err := scratches.Errorf(scratches.EINVALID, "--selection needs exactly one URL")
		fmt.Fprintf(deps.Stderr, "error: %s\n", scratches.ErrorMessage(err))
		return err
	}

	loaded, err := deps.Settings.LoadSettings(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scratches.ErrorMessage(err))
		return err
	}
	settings := loaded.Settings

	var docs []scratches.Document
	if c.Selection != "" {
		result := deps.Extractor.Extract(&scratches.ExtractRequest{
			URL:       c.URLs[0],
			Title:     c.Title,
			Selection: c.Selection,
		}, settings)
		docs = append(docs, scratches.DocumentFromResult(result))
	} else {
		clippings, err := deps.Clipper.ClipAll(deps.Ctx, c.URLs, settings, func(p scratches.ClipProgress) {
			status := "ok"
			if p.Error != nil {
				status = "failed: " + p.Error.Error()
			}
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s %s\n", p.Completed, p.Total, clip.TruncateURL(p.URL, 60), status)
		})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", scratches.ErrorMessage(err))
			return err
		}
		for _, cl := range clippings {
			docs = append(docs, cl.Document())
		}
		fmt.Fprintln(deps.Stderr, clip.Summary(clippings))
	}

	text := scratches.FormatDocuments(settings.OutputFormat, docs, deps.Now())
	return handoff(deps, text, settings.OutputFormat.DefaultTag, c.Open, c.URLOnly)
}

// handoff prints text, prints its hand-off URL, or opens that URL.
func handoff(deps *Dependencies, text, tag string, open, urlOnly bool) error {
	if !open && !urlOnly {
		fmt.Fprintln(deps.Stdout, text)
		return nil
	}

	u := scratches.HandoffURL(deps.Scheme, text, tag)
	if urlOnly {
		fmt.Fprintln(deps.Stdout, u)
		return nil
	}

	if err := deps.Opener.Open(deps.Ctx, u); err != nil {
		fmt.Fprintf(deps.Stderr, "error: could not open %s app: %v\n", schemeName(deps.Scheme), err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Sent to %s\n", schemeName(deps.Scheme))
	return nil
}

func schemeName(scheme string) string {
	if scheme = strings.TrimSpace(scheme); scheme == "" {
		return scratches.DefaultScheme
	}
	return scheme
}
