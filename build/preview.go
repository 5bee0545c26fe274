package build

import (
	_ "embed"
	"strings"

	"github.com/beevik/etree"

	"cssg/config"
	"cssg/recipe"
)

//go:embed preview.css
var previewStylesheet []byte

// generatePreview builds an XHTML page exercising every rule of the recipe
// against the generated stylesheet. Sample markup is derived from the
// structured selector parts alone: element names, ids and classes become real
// nodes, while attribute and pseudo fragments stay visible only in the
// caption since they describe match conditions, not markup.
func generatePreview(rcp *recipe.Recipe, cfg *config.DocumentConfig, format config.OutputFmt, stylesheetHref, srcName string) (*etree.Document, error) {
	title, err := expandTemplate(rcp, config.PreviewTitleTemplateFieldName, cfg.Preview.TitleTemplate, format, srcName)
	if err != nil {
		return nil, err
	}

	doc, body := createPreviewDocument(title, stylesheetHref)

	header := body.CreateElement("h1")
	header.CreateAttr("class", "preview-header")
	header.SetText(title)

	for i := range rcp.Rules {
		r := &rcp.Rules[i]
		text, err := r.SelectorText()
		if err != nil {
			return nil, err
		}

		sample := body.CreateElement("div")
		sample.CreateAttr("class", "preview-sample")

		caption := sample.CreateElement("code")
		caption.CreateAttr("class", "preview-selector")
		caption.SetText(text)
		if r.Media != "" {
			media := caption.CreateElement("span")
			media.CreateAttr("class", "preview-media")
			media.SetText("@media " + r.Media)
		}

		buildSampleMarkup(sample, r, cfg.Preview.SampleText)
	}

	return doc, nil
}

// createPreviewDocument builds the XHTML skeleton: proc-inst, head with the
// stylesheet link, embedded preview chrome and title, and an empty body.
func createPreviewDocument(title, stylesheetHref string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")

	head := html.CreateElement("head")

	meta := head.CreateElement("meta")
	meta.CreateAttr("http-equiv", "Content-Type")
	meta.CreateAttr("content", "text/html; charset=utf-8")

	link := head.CreateElement("link")
	link.CreateAttr("rel", "stylesheet")
	link.CreateAttr("type", "text/css")
	link.CreateAttr("href", stylesheetHref)

	style := head.CreateElement("style")
	style.CreateAttr("type", "text/css")
	style.SetText(string(previewStylesheet))

	titleElem := head.CreateElement("title")
	titleElem.SetText(title)

	body := html.CreateElement("body")

	return doc, body
}

// buildSampleMarkup creates sample nodes for a rule's selector chain. Child
// and descendant links nest, sibling links attach next to the previous node,
// and the chain's subject carries the sample text.
func buildSampleMarkup(parent *etree.Element, r *recipe.RuleSpec, sampleText string) {
	elem := createSampleNode(parent, &r.Selector)
	for c := r.Combine; c != nil; c = c.Combine {
		switch c.Combinator {
		case "+", "~":
			elem = createSampleNode(elem.Parent(), &c.Selector)
		default:
			elem = createSampleNode(elem, &c.Selector)
		}
	}
	elem.SetText(sampleText)
}

func createSampleNode(parent *etree.Element, sel *recipe.SelectorSpec) *etree.Element {
	name := sel.Element
	if name == "" {
		name = "div"
	}
	elem := parent.CreateElement(name)
	if sel.ID != "" {
		elem.CreateAttr("id", sel.ID)
	}
	if len(sel.Classes) > 0 {
		elem.CreateAttr("class", strings.Join(sel.Classes, " "))
	}
	return elem
}
