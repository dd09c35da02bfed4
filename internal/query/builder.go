package query

import (
	"net/url"
	"strings"

	"trendmcp/internal/models"
)

// Fixed parameter names and literals understood by the upstream API.
const (
	ParamToken       = "TokenID"
	ParamDisplayName = "DisplayName"
	ParamFrequency   = "Frequency"
	ParamSiteName    = "SiteName"
	ParamSource      = "Source"
	ParamSentiment   = "Sentiment"
	ParamKeyword     = "Keyword"
	ParamFromDate    = "FromDate"
	ParamToDate      = "ToDate"

	FrequencyDaily = "Day"
	SiteDisruptor  = "Disruptor"
	SourceAll      = "All"
	SentimentAll   = "All"
)

// Credentials are the static identity parameters sent with every request.
type Credentials struct {
	Token       string
	DisplayName string
}

// Build assembles the request URL for spec.
//
// Parameter order is significant to the upstream API and is emitted exactly as
// the endpoint dictates; nothing is sorted. Build is pure: the same inputs
// always produce the same string.
func Build(spec models.EndpointSpec, params models.QueryParams, creds Credentials) string {
	q := newWriter(spec.URLTemplate)

	q.add(ParamToken, creds.Token)
	q.add(ParamDisplayName, creds.DisplayName)

	if spec.AddFrequency {
		q.add(ParamFrequency, FrequencyDaily)
	}

	// Endpoints that take no keyword (influencer listing) only get credentials.
	if !spec.RequiresKeyword || params.Keyword == "" {
		return q.String()
	}

	q.add(ParamSiteName, SiteDisruptor)
	q.add(ParamSource, SourceAll)
	q.add(ParamSentiment, SentimentAll)

	switch spec.KeywordPosition {
	case models.KeywordBeforeDates:
		q.add(ParamKeyword, params.Keyword)
		q.addDates(params)
	default:
		q.addDates(params)
		q.add(ParamKeyword, params.Keyword)
	}

	return q.String()
}

// writer appends key=value pairs in call order.
type writer struct {
	b   strings.Builder
	sep byte
}

func newWriter(base string) *writer {
	w := &writer{sep: '?'}
	w.b.WriteString(base)
	switch {
	case strings.HasSuffix(base, "?"), strings.HasSuffix(base, "&"):
		w.sep = 0
	case strings.Contains(base, "?"):
		w.sep = '&'
	}
	return w
}

func (w *writer) add(key, value string) {
	if w.sep != 0 {
		w.b.WriteByte(w.sep)
	}
	w.sep = '&'
	w.b.WriteString(url.QueryEscape(key))
	w.b.WriteByte('=')
	w.b.WriteString(url.QueryEscape(value))
}

func (w *writer) addDates(params models.QueryParams) {
	if params.FromDate != "" {
		w.add(ParamFromDate, params.FromDate)
	}
	if params.ToDate != "" {
		w.add(ParamToDate, params.ToDate)
	}
}

func (w *writer) String() string {
	return w.b.String()
}
