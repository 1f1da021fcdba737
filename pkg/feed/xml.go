package feed

import (
	"bytes"
	"encoding/xml"
	"io"
)

// Channel is the RSS channel header.
type Channel struct {
	Title       string
	Link        string
	Description string
}

type cdata struct {
	Text string `xml:",cdata"`
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	NS      string     `xml:"xmlns:g,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	ID                    string `xml:"g:id"`
	Title                 cdata  `xml:"g:title"`
	Description           cdata  `xml:"g:description"`
	Link                  string `xml:"g:link"`
	ImageLink             string `xml:"g:image_link,omitempty"`
	Condition             string `xml:"g:condition"`
	Availability          string `xml:"g:availability"`
	Price                 string `xml:"g:price"`
	Brand                 string `xml:"g:brand"`
	ProductType           string `xml:"g:product_type"`
	GoogleProductCategory string `xml:"g:google_product_category"`
	GTIN                  string `xml:"g:gtin,omitempty"`
	MPN                   string `xml:"g:mpn"`
}

// Write renders ch and items as an RSS 2.0 feed with the g: namespace.
func Write(w io.Writer, ch Channel, items []Item) error {
	doc := rssDoc{
		Version: "2.0",
		NS:      Namespace,
		Channel: rssChannel{
			Title:       ch.Title,
			Link:        ch.Link,
			Description: ch.Description,
			Items:       make([]rssItem, 0, len(items)),
		},
	}
	for _, it := range items {
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			ID:                    it.ID,
			Title:                 cdata{it.Title},
			Description:           cdata{it.Description},
			Link:                  it.Link,
			ImageLink:             it.ImageLink,
			Condition:             it.Condition,
			Availability:          it.Availability,
			Price:                 it.Price(),
			Brand:                 it.Brand,
			ProductType:           it.ProductType,
			GoogleProductCategory: it.GoogleProductCategory,
			GTIN:                  it.GTIN,
			MPN:                   it.MPN,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Build returns the rendered feed.
func Build(ch Channel, items []Item) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, ch, items); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DefaultChannel is the channel header for the company storefront.
func DefaultChannel(siteURL string) Channel {
	return Channel{
		Title:       DefaultBrand + " Product Feed",
		Link:        siteURL,
		Description: "Product feed for Google Merchant Center",
	}
}
