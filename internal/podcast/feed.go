package podcast

import (
	"fmt"
	"time"

	"eduseva-cli/internal/model"

	"github.com/gorilla/feeds"
)

// FeedInput collects what goes into the RSS rendition of an episode.
type FeedInput struct {
	// Document is the active document the episode discusses, when known.
	Document *model.Document

	// Episode is the generated podcast.
	Episode model.Podcast

	// BaseURL is the local server base the enclosure URL is built on,
	// e.g. "http://127.0.0.1:8931".
	BaseURL string

	// Generated is when the episode was produced. Zero falls back to now.
	Generated time.Time
}

// BuildRSS renders the episode as a podcast RSS feed. The enclosure
// points at the local server's audio route, which proxies the upstream
// audio with authentication, so any podcast player can subscribe without
// knowing the API token.
func (in FeedInput) BuildRSS() (string, error) {
	created := in.Generated
	if created.IsZero() {
		created = time.Now()
	}

	title := "EduSeva Podcast"
	description := "Generated study podcast"
	if in.Document != nil && in.Document.Filename != "" {
		title = fmt.Sprintf("EduSeva Podcast: %s", in.Document.Filename)
		description = fmt.Sprintf("Generated study podcast for %s", in.Document.Filename)
	}

	feed := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: in.BaseURL + "/podcast/feed.xml"},
		Description: description,
		Created:     created,
	}

	audioURL := in.BaseURL + "/podcast/episode.mp3"
	feed.Items = append(feed.Items, &feeds.Item{
		Id:          audioURL,
		Title:       in.Episode.Title,
		Description: in.Episode.Description,
		Content:     in.Episode.Script,
		Link:        &feeds.Link{Href: audioURL},
		Enclosure:   &feeds.Enclosure{Url: audioURL, Type: "audio/mpeg", Length: "0"},
		Created:     created,
	})

	rss, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("could not marshal episode to RSS: %w", err)
	}
	return rss, nil
}
