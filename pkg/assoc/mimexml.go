package assoc

import (
	"github.com/beevik/etree"

	"github.com/codename-B/OneText/pkg/tasks"
	"github.com/codename-B/OneText/pkg/types"
)

// MimeInfoNamespace is the freedesktop shared-mime-info schema
const MimeInfoNamespace = "http://www.freedesktop.org/standards/shared-mime-info"

// MimeXML renders the selected rules that declare mime types as a
// shared-mime-info document, the Linux-side counterpart of the store
// registrations. Rules without a mime type are omitted.
func MimeXML(man *types.Manifest, sel tasks.Selection) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	info := doc.CreateElement("mime-info")
	info.CreateAttr("xmlns", MimeInfoNamespace)

	for _, rule := range man.Associations {
		if !sel.Selected(rule.GatingTask) || rule.MimeType == "" {
			continue
		}
		mt := info.CreateElement("mime-type")
		mt.CreateAttr("type", rule.MimeType)
		mt.CreateElement("comment").SetText(rule.FriendlyName)
		glob := mt.CreateElement("glob")
		glob.CreateAttr("pattern", "*"+rule.Extension)
	}

	doc.Indent(2)
	return doc.WriteToString()
}
