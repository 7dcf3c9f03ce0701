package ingest

import (
	"encoding/xml"
	"fmt"

	"ecbrates/internal/domain"
)

// The source document is SDMX-ML generic data: a DataSet holding Series
// groups, each with a SeriesKey identifying the currency and a list of
// dated observations. Tags below match by local name, so the message/
// generic namespace prefixes do not matter.
type document struct {
	Series []Series `xml:"DataSet>Series"`
}

type Series struct {
	Key []keyValue `xml:"SeriesKey>Value"`
	Obs []Obs      `xml:"Obs"`
}

type keyValue struct {
	ID    string `xml:"id,attr"`
	Value string `xml:"value,attr"`
}

type Obs struct {
	Dimension attrValue `xml:"ObsDimension"`
	Value     attrValue `xml:"ObsValue"`
}

type attrValue struct {
	Value string `xml:"value,attr"`
}

// Date returns the raw observation date string. Validation happens in the
// reconciler so a bad entry costs one observation, not the document.
func (o Obs) Date() string { return o.Dimension.Value }

// Rate returns the raw observed value string, unparsed for the same reason.
func (o Obs) Rate() string { return o.Value.Value }

const currencyDimensionID = "CURRENCY"

// CurrencyCode locates the CURRENCY entry of the series key. A series
// without one is a data error scoped to that series alone.
func (s Series) CurrencyCode() (string, error) {
	for _, kv := range s.Key {
		if kv.ID == currencyDimensionID {
			return kv.Value, nil
		}
	}
	return "", domain.ErrMissingCurrencyDimension
}

// ParseSeries decodes the raw payload. An unparseable document is fatal for
// the whole run; anything finer-grained is decided per series or per
// observation while reconciling.
func ParseSeries(raw []byte) ([]Series, error) {
	var doc document
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("malformed rates document: %w", err)
	}
	return doc.Series, nil
}
