package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/htmlutil"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/httputil"
	"github.com/TheMainlander/MyVicSurf-sub000/internal/models"
)

const DefaultWarningsURL = "http://www.bom.gov.au/fwo/IDZ00068.warnings_marine_vic.xml"

// WarningsClient reads the BOM Victorian marine warnings RSS feed.
type WarningsClient struct {
	url   string
	fetch fetcher
}

func NewWarningsClient(feedURL string) *WarningsClient {
	if feedURL == "" {
		feedURL = DefaultWarningsURL
	}
	return &WarningsClient{url: feedURL, fetch: newFetcher("bom", httputil.NewClient(), 0)}
}

func (c *WarningsClient) Fetch(ctx context.Context) ([]models.MarineWarning, []byte, *FetchResult, error) {
	result := &FetchResult{}
	body, err := c.fetch.get(ctx, "marine-warnings", c.url, result)
	if err != nil {
		return nil, nil, result, err
	}

	warnings, err := ParseWarnings(body)
	if err != nil {
		result.ParseErrors++
		result.ParseError = err.Error()
		result.Error = err
		return nil, body, result, err
	}
	result.RecordCount = len(warnings)
	return warnings, body, result, nil
}

// ParseWarnings converts feed items to warnings. Items without a GUID are
// keyed by link.
func ParseWarnings(body []byte) ([]models.MarineWarning, error) {
	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	out := make([]models.MarineWarning, 0, len(feed.Items))
	for _, item := range feed.Items {
		id := item.GUID
		if id == "" {
			id = item.Link
		}
		if id == "" {
			continue
		}
		w := models.MarineWarning{
			GUID:        id,
			Title:       htmlutil.ToText(item.Title),
			Description: htmlutil.ToText(item.Description),
			Link:        item.Link,
		}
		switch {
		case item.PublishedParsed != nil:
			w.PublishedAt = item.PublishedParsed.UTC()
		case item.UpdatedParsed != nil:
			w.PublishedAt = item.UpdatedParsed.UTC()
		default:
			w.PublishedAt = time.Now().UTC()
		}
		out = append(out, w)
	}
	return out, nil
}
