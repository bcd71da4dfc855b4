package site

import (
	"github.com/beevik/etree"
	"github.com/fwojciec/repub"
)

// feed builds the RSS document for the given articles in store order. It
// uses only stored fields, so an unchanged store yields byte-identical
// feed output.
func (b *Builder) feed(articles []*repub.Article) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")

	channel := rss.CreateElement("channel")
	channel.CreateElement("title").SetText("文章合集")
	channel.CreateElement("link").SetText(b.link(""))
	channel.CreateElement("description").SetText("微信公众号文章与PDF文档解读合集")

	for _, a := range articles {
		item := channel.CreateElement("item")
		item.CreateElement("title").SetText(a.Title)
		item.CreateElement("link").SetText(b.link(repub.ArticleDir + "/" + a.ID + ".html"))
		item.CreateElement("description").SetText(a.Summary)
		item.CreateElement("pubDate").SetText(a.Date)
		guid := item.CreateElement("guid")
		guid.CreateAttr("isPermaLink", "false")
		guid.SetText(a.ID)
		for _, tag := range a.Tags {
			item.CreateElement("category").SetText(tag)
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, repub.Errorf(repub.EINTERNAL, "serializing feed: %v", err)
	}
	return out, nil
}

func (b *Builder) link(rel string) string {
	if b.baseURL == "" {
		return rel
	}
	if rel == "" {
		return b.baseURL + "/"
	}
	return b.baseURL + "/" + rel
}
