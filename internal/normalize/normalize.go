// Package normalize maps provider-native posting records onto model.Job.
//
// Records arrive as generically decoded JSON (map[string]any) rather than
// typed structs: a single field of an unexpected type must default that
// field, not fail the whole board.
package normalize

import (
	"time"

	"github.com/amishk599/boardscan/internal/model"
	"github.com/amishk599/boardscan/internal/textutil"
)

// MaxDescriptionRunes bounds Job.Description.
const MaxDescriptionRunes = 1200

// Normalize converts one raw record from the given source into a Job. It
// never fails: missing or mistyped fields fall back to empty values.
// company is used by the board sources, whose records do not name the
// company themselves.
func Normalize(kind model.Source, company string, raw map[string]any) model.Job {
	var job model.Job
	switch kind {
	case model.SourceLever:
		job = lever(raw)
		job.Company = company
	case model.SourceGreenhouse:
		job = greenhouse(raw)
		job.Company = company
	case model.SourceSerpAPI:
		job = serpAPI(raw)
	default:
		job = model.Job{Company: company}
	}
	job.Source = kind
	if job.Tags == nil {
		job.Tags = []string{}
	}
	return job
}

func lever(raw map[string]any) model.Job {
	categories := object(raw, "categories")

	url := str(raw, "hostedUrl")
	if url == "" {
		url = str(raw, "applyUrl")
	}

	desc := str(raw, "descriptionPlain")
	if desc == "" {
		desc = textutil.HTMLToText(str(raw, "description"))
	}

	var postedAt string
	if ms := number(raw, "createdAt"); ms > 0 {
		postedAt = time.UnixMilli(int64(ms)).UTC().Format("2006-01-02T15:04:05.000Z07:00")
	}

	return model.Job{
		Title:       str(raw, "text"),
		Location:    str(categories, "location"),
		Team:        str(categories, "team"),
		Commitment:  str(categories, "commitment"),
		URL:         url,
		Description: textutil.Truncate(desc, MaxDescriptionRunes),
		PostedAt:    postedAt,
		Tags:        stringList(raw, "tags"),
	}
}

// Greenhouse's list endpoint carries no description; the detail endpoint is
// never called, so Description stays empty.
func greenhouse(raw map[string]any) model.Job {
	var team string
	if departments := list(raw, "departments"); len(departments) > 0 {
		if first, ok := departments[0].(map[string]any); ok {
			team = str(first, "name")
		}
	}

	postedAt := str(raw, "updated_at")
	if postedAt == "" {
		postedAt = str(raw, "created_at")
	}

	return model.Job{
		Title:      str(raw, "title"),
		Location:   str(object(raw, "location"), "name"),
		Team:       team,
		Commitment: str(raw, "commitment"),
		URL:        str(raw, "absolute_url"),
		PostedAt:   postedAt,
	}
}

func serpAPI(raw map[string]any) model.Job {
	extensions := object(raw, "detected_extensions")

	url := firstLink(raw, "related_links")
	if url == "" {
		url = firstLink(raw, "apply_options")
	}

	return model.Job{
		Title:       str(raw, "title"),
		Company:     str(raw, "company_name"),
		Location:    str(raw, "location"),
		Commitment:  str(extensions, "schedule_type"),
		URL:         url,
		Description: textutil.Truncate(str(raw, "description"), MaxDescriptionRunes),
		PostedAt:    str(extensions, "posted_at"),
	}
}

// firstLink returns the "link" of the first entry of the named list.
func firstLink(raw map[string]any, key string) string {
	entries := list(raw, key)
	if len(entries) == 0 {
		return ""
	}
	first, ok := entries[0].(map[string]any)
	if !ok {
		return ""
	}
	return str(first, "link")
}
