package board

import (
	"net/url"
)

const linkedInSearchURL = "https://www.linkedin.com/jobs/search/"

// Link is a labelled click-out URL.
type Link struct {
	Keyword  string
	Location string
	URL      string
}

// LinkedInSearchURL builds a LinkedIn job search link. Nothing is fetched.
func LinkedInSearchURL(keyword, location string) string {
	return linkedInSearchURL + "?keywords=" + url.QueryEscape(keyword) + "&location=" + url.QueryEscape(location)
}

// ClickOutLinks returns one link per keyword for each of the first two
// locations, or for "Remote" when no locations are configured.
func ClickOutLinks(keywords, locations []string) []Link {
	if len(locations) > 2 {
		locations = locations[:2]
	}
	if len(locations) == 0 {
		locations = []string{"Remote"}
	}

	links := make([]Link, 0, len(keywords)*len(locations))
	for _, k := range keywords {
		for _, l := range locations {
			links = append(links, Link{Keyword: k, Location: l, URL: LinkedInSearchURL(k, l)})
		}
	}
	return links
}
