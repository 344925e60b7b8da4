package weather

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

const (
	// feedTimestampLayout is the fixed-width YYYYMMDDHHmm stamp on every timerange.
	feedTimestampLayout = "200601021504"

	localizedLang   = "id_ID"
	xmlNamespaceURI = "http://www.w3.org/XML/1998/namespace"
)

var (
	areaExpr      = xpath.MustCompile("/*//area")
	nameExpr      = xpath.MustCompile("name")
	weatherExpr   = xpath.MustCompile(".//parameter[@id='weather']")
	timerangeExpr = xpath.MustCompile("timerange")
	valueExpr     = xpath.MustCompile("value")

	errMissing = errors.New("missing")
	errEmpty   = errors.New("empty")
)

// ParseFeed turns a BMKG DigitalForecast document into weather records, one per timerange of
// every weather parameter, in document order. Any missing or malformed required field fails
// the whole feed.
func ParseFeed(data []byte) ([]WeatherRecord, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	switch roots := rootElements(doc); {
	case roots == 0:
		return nil, &ParseError{Err: errors.New("document has no root element")}
	case roots > 1:
		return nil, &ParseError{Err: fmt.Errorf("document has %d root elements", roots)}
	}

	records := []WeatherRecord{}
	for _, area := range xmlquery.QuerySelectorAll(doc, areaExpr) {
		areaName, err := localizedName(area)
		if err != nil {
			return nil, err
		}

		for _, param := range xmlquery.QuerySelectorAll(area, weatherExpr) {
			for _, tr := range xmlquery.QuerySelectorAll(param, timerangeExpr) {
				rec, err := parseTimerange(areaName, tr)
				if err != nil {
					return nil, err
				}
				records = append(records, rec)
			}
		}
	}

	return records, nil
}

func parseTimerange(areaName string, tr *xmlquery.Node) (WeatherRecord, error) {
	stamp := tr.SelectAttr("datetime")
	at, err := parseFeedTimestamp(stamp)
	if err != nil {
		return WeatherRecord{}, &FieldError{Area: areaName, Field: "datetime", Value: stamp, Err: err}
	}

	value := xmlquery.QuerySelector(tr, valueExpr)
	if value == nil {
		return WeatherRecord{}, &FieldError{Area: areaName, Field: "value", Err: errMissing}
	}
	icon := strings.TrimSpace(value.InnerText())
	if icon == "" {
		return WeatherRecord{}, &FieldError{Area: areaName, Field: "value", Err: errEmpty}
	}

	return WeatherRecord{
		AreaName: areaName,
		Date:     at.Format(DateLayout),
		Time:     at.Format(TimeLayout),
		Hour:     tr.SelectAttr("h"),
		Icon:     icon,
		Weather:  DescribeIcon(icon),
		At:       at,
	}, nil
}

// localizedName returns the text of the area's id_ID name element.
func localizedName(area *xmlquery.Node) (string, error) {
	for _, n := range xmlquery.QuerySelectorAll(area, nameExpr) {
		if xmlLang(n) == localizedLang {
			return n.InnerText(), nil
		}
	}
	return "", &FieldError{Field: "name", Value: area.SelectAttr("description"), Err: fmt.Errorf("no %s name: %w", localizedLang, errMissing)}
}

// xmlLang reads xml:lang, whether the decoder kept the prefix or resolved it to its namespace.
func xmlLang(n *xmlquery.Node) string {
	for _, a := range n.Attr {
		if a.Name.Local == "lang" && (a.Name.Space == "xml" || a.Name.Space == xmlNamespaceURI) {
			return a.Value
		}
	}
	return ""
}

func rootElements(doc *xmlquery.Node) int {
	count := 0
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			count++
		}
	}
	return count
}

func parseFeedTimestamp(s string) (time.Time, error) {
	if len(s) != len(feedTimestampLayout) {
		return time.Time{}, fmt.Errorf("want %d digits, got %d characters", len(feedTimestampLayout), len(s))
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return time.Time{}, fmt.Errorf("non-digit %q at offset %d", s[i], i)
		}
	}
	return time.Parse(feedTimestampLayout, s)
}
