// Package rss renders imported posts as an RSS 2.0 feed. The full body
// travels in content:encoded as CDATA so markup survives aggregators
// that strip the description field.
package rss

import (
	"fmt"
	"io"
	"time"

	"github.com/beevik/etree"
	"github.com/mkowal/inkport"
)

// descriptionLimit caps the plain-text description of a feed item.
const descriptionLimit = 300

// Site holds the channel-level feed metadata.
type Site struct {
	Title       string
	Link        string
	Description string
	Language    string
}

// Writer builds RSS 2.0 feeds from stored posts.
type Writer struct {
	site Site
}

// NewWriter creates a new Writer for the given site.
func NewWriter(site Site) *Writer {
	return &Writer{site: site}
}

// WriteFeed writes the feed for the given posts, assumed newest first.
func (wr *Writer) WriteFeed(w io.Writer, posts []*inkport.Post) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")
	rss.CreateAttr("xmlns:content", "http://purl.org/rss/1.0/modules/content/")

	channel := rss.CreateElement("channel")
	channel.CreateElement("title").SetText(wr.site.Title)
	channel.CreateElement("link").SetText(wr.site.Link)
	channel.CreateElement("description").SetText(wr.site.Description)
	if wr.site.Language != "" {
		channel.CreateElement("language").SetText(wr.site.Language)
	}
	if len(posts) > 0 {
		channel.CreateElement("lastBuildDate").SetText(posts[0].PublishedAt.Format(time.RFC1123Z))
	}

	for _, post := range posts {
		wr.appendItem(channel, post)
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

func (wr *Writer) appendItem(channel *etree.Element, post *inkport.Post) {
	item := channel.CreateElement("item")
	item.CreateElement("title").SetText(post.Title)

	link := fmt.Sprintf("%s/p/%s", wr.site.Link, post.Slug)
	item.CreateElement("link").SetText(link)

	guid := item.CreateElement("guid")
	guid.CreateAttr("isPermaLink", "false")
	guid.SetText(post.ID)

	item.CreateElement("pubDate").SetText(post.PublishedAt.Format(time.RFC1123Z))

	description := post.Excerpt
	if description == "" {
		description = inkport.RenderExcerpt(post.Body, descriptionLimit)
	}
	item.CreateElement("description").SetText(description)

	content := item.CreateElement("content:encoded")
	content.CreateCData(inkport.RenderHTML(post.Body))
}
