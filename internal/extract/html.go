package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/zenith-dev/zenith/internal/model"
)

// HTMLExtractor walks the DOM with goquery (the same library the teacher
// uses for Confluence/crawler scraping, internal/services/atlassian and
// internal/services/crawler) rather than a regex tag scanner: HTML's
// nesting and attribute syntax is exactly the kind of structure goquery's
// selector API was built for.
type HTMLExtractor struct{}

func NewHTMLExtractor() *HTMLExtractor { return &HTMLExtractor{} }

func (e *HTMLExtractor) Language() string { return "html" }

func (e *HTMLExtractor) Extract(content string) ([]model.ParsedItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	var items []model.ParsedItem
	doc.Find("[id]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		if id == "" {
			return
		}
		tag := goquery.NodeName(sel)
		attrs := make(map[string]string)
		for _, a := range sel.Nodes[0].Attr {
			attrs[a.Key] = a.Val
		}
		html, _ := goquery.OuterHtml(sel)
		items = append(items, model.ParsedItem{
			Kind:       model.KindComponent,
			Name:       id,
			Signature:  "<" + tag + " id=\"" + id + "\">",
			Source:     truncateHTMLSource(html),
			Visibility: model.VisPublic,
			Metadata: model.Metadata{
				TagName:  tag,
				TagAttrs: attrs,
			},
		})
	})

	return items, nil
}

func truncateHTMLSource(html string) string {
	lines := strings.Split(html, "\n")
	if len(lines) > model.MaxSourceLines {
		lines = lines[:model.MaxSourceLines]
	}
	return strings.Join(lines, "\n")
}
