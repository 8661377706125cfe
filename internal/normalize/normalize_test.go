package normalize

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/boardscan/internal/model"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

const leverRecord = `{
	"id": "ff7ef527",
	"text": "Senior QA Engineer",
	"categories": {"location": "San Jose, CA", "team": "Autonomy", "commitment": "Full-time"},
	"hostedUrl": "https://jobs.lever.co/wayve/ff7ef527",
	"applyUrl": "https://jobs.lever.co/wayve/ff7ef527/apply",
	"descriptionPlain": "Own the test strategy.",
	"description": "<p>Own the test strategy.</p>",
	"createdAt": 1769784074110,
	"tags": ["Python", 7, "Playwright"]
}`

const greenhouseRecord = `{
	"id": 12345,
	"title": "Validation Engineer",
	"location": {"name": "Palo Alto, CA"},
	"departments": [{"name": "Vehicle Systems"}, {"name": "Other"}],
	"commitment": "Full-time",
	"absolute_url": "https://boards.greenhouse.io/lucidmotors/jobs/12345",
	"updated_at": "2026-02-13T10:00:00-05:00",
	"created_at": "2026-02-01T10:00:00Z"
}`

const serpRecord = `{
	"title": "SDET",
	"company_name": "Quanta Robotics",
	"location": "San Jose, CA",
	"description": "Write Cypress suites.",
	"detected_extensions": {"posted_at": "3 days ago", "schedule_type": "Full-time"},
	"related_links": [{"link": "https://quanta.example/jobs/1"}],
	"apply_options": [{"link": "https://apply.example/1"}]
}`

func TestNormalize_Lever(t *testing.T) {
	job := Normalize(model.SourceLever, "wayve", decode(t, leverRecord))

	assert.Equal(t, "Senior QA Engineer", job.Title)
	assert.Equal(t, "wayve", job.Company)
	assert.Equal(t, "San Jose, CA", job.Location)
	assert.Equal(t, "Autonomy", job.Team)
	assert.Equal(t, "Full-time", job.Commitment)
	assert.Equal(t, "https://jobs.lever.co/wayve/ff7ef527", job.URL)
	assert.Equal(t, "Own the test strategy.", job.Description)
	assert.Equal(t, "2026-01-30T14:41:14.110Z", job.PostedAt)
	assert.Equal(t, model.SourceLever, job.Source)
	assert.Equal(t, []string{"Python", "Playwright"}, job.Tags)
}

func TestNormalize_LeverFallbacks(t *testing.T) {
	raw := decode(t, leverRecord)
	delete(raw, "hostedUrl")
	delete(raw, "descriptionPlain")
	raw["createdAt"] = 0

	job := Normalize(model.SourceLever, "wayve", raw)
	assert.Equal(t, "https://jobs.lever.co/wayve/ff7ef527/apply", job.URL)
	assert.Equal(t, "Own the test strategy.", job.Description, "HTML description is used when the plain text is absent")
	assert.Empty(t, job.PostedAt, "zero createdAt means unknown")
}

func TestNormalize_DescriptionTruncated(t *testing.T) {
	raw := decode(t, leverRecord)
	raw["descriptionPlain"] = strings.Repeat("x", 5000)
	job := Normalize(model.SourceLever, "wayve", raw)
	assert.Len(t, job.Description, MaxDescriptionRunes)

	serp := decode(t, serpRecord)
	serp["description"] = strings.Repeat("y", 1300)
	job = Normalize(model.SourceSerpAPI, "", serp)
	assert.Len(t, job.Description, MaxDescriptionRunes)
}

func TestNormalize_Greenhouse(t *testing.T) {
	job := Normalize(model.SourceGreenhouse, "lucidmotors", decode(t, greenhouseRecord))

	assert.Equal(t, "Validation Engineer", job.Title)
	assert.Equal(t, "lucidmotors", job.Company)
	assert.Equal(t, "Palo Alto, CA", job.Location)
	assert.Equal(t, "Vehicle Systems", job.Team)
	assert.Equal(t, "Full-time", job.Commitment)
	assert.Equal(t, "https://boards.greenhouse.io/lucidmotors/jobs/12345", job.URL)
	assert.Empty(t, job.Description, "list endpoint has no description")
	assert.Equal(t, "2026-02-13T10:00:00-05:00", job.PostedAt)
	assert.Equal(t, model.SourceGreenhouse, job.Source)
	assert.NotNil(t, job.Tags)
	assert.Empty(t, job.Tags)
}

func TestNormalize_GreenhouseCreatedAtFallback(t *testing.T) {
	raw := decode(t, greenhouseRecord)
	delete(raw, "updated_at")
	raw["departments"] = []any{}

	job := Normalize(model.SourceGreenhouse, "lucidmotors", raw)
	assert.Equal(t, "2026-02-01T10:00:00Z", job.PostedAt)
	assert.Empty(t, job.Team)
}

func TestNormalize_SerpAPI(t *testing.T) {
	job := Normalize(model.SourceSerpAPI, "", decode(t, serpRecord))

	assert.Equal(t, "SDET", job.Title)
	assert.Equal(t, "Quanta Robotics", job.Company)
	assert.Equal(t, "San Jose, CA", job.Location)
	assert.Empty(t, job.Team)
	assert.Equal(t, "Full-time", job.Commitment)
	assert.Equal(t, "https://quanta.example/jobs/1", job.URL)
	assert.Equal(t, "Write Cypress suites.", job.Description)
	assert.Equal(t, "3 days ago", job.PostedAt)
	assert.Equal(t, model.SourceSerpAPI, job.Source)
	assert.Empty(t, job.Tags)
}

func TestNormalize_SerpAPILinkFallback(t *testing.T) {
	raw := decode(t, serpRecord)
	raw["related_links"] = []any{}
	job := Normalize(model.SourceSerpAPI, "", raw)
	assert.Equal(t, "https://apply.example/1", job.URL)

	delete(raw, "apply_options")
	job = Normalize(model.SourceSerpAPI, "", raw)
	assert.Empty(t, job.URL)
}

// Every optional field is removed in turn; the result must still be a
// well-formed Job.
func TestNormalize_MissingFieldsDefault(t *testing.T) {
	records := []struct {
		kind model.Source
		raw  string
	}{
		{model.SourceLever, leverRecord},
		{model.SourceGreenhouse, greenhouseRecord},
		{model.SourceSerpAPI, serpRecord},
	}
	for _, rec := range records {
		keys := decode(t, rec.raw)
		for key := range keys {
			t.Run(string(rec.kind)+"/without_"+key, func(t *testing.T) {
				raw := decode(t, rec.raw)
				delete(raw, key)
				job := Normalize(rec.kind, "acme", raw)
				assert.Equal(t, rec.kind, job.Source)
				assert.NotNil(t, job.Tags)
				assert.LessOrEqual(t, len([]rune(job.Description)), MaxDescriptionRunes)
			})
		}
	}
}

func TestNormalize_WrongTypesAndEmptyRecord(t *testing.T) {
	raw := map[string]any{
		"text":        42.0,
		"categories":  "not an object",
		"createdAt":   "yesterday",
		"tags":        "python",
		"location":    []any{"x"},
		"departments": []any{"Engineering"},
	}
	for _, kind := range []model.Source{model.SourceLever, model.SourceGreenhouse, model.SourceSerpAPI} {
		job := Normalize(kind, "acme", raw)
		assert.Empty(t, job.Title)
		assert.Empty(t, job.Location)
		assert.Empty(t, job.PostedAt)
		assert.NotNil(t, job.Tags)

		empty := Normalize(kind, "", nil)
		assert.Equal(t, kind, empty.Source)
		assert.Empty(t, empty.Title)
		assert.Empty(t, empty.Company)
	}
}

func FuzzNormalize(f *testing.F) {
	f.Add(leverRecord)
	f.Add(greenhouseRecord)
	f.Add(serpRecord)
	f.Add(`{}`)
	f.Add(`{"categories": null, "related_links": [null], "departments": [1]}`)
	f.Fuzz(func(t *testing.T, data string) {
		var raw map[string]any
		if err := json.Unmarshal([]byte(data), &raw); err != nil {
			return
		}
		for _, kind := range []model.Source{model.SourceLever, model.SourceGreenhouse, model.SourceSerpAPI} {
			job := Normalize(kind, "acme", raw)
			if job.Tags == nil {
				t.Fatalf("%s: nil tags", kind)
			}
			if n := len([]rune(job.Description)); n > MaxDescriptionRunes {
				t.Fatalf("%s: description has %d runes", kind, n)
			}
		}
	})
}
