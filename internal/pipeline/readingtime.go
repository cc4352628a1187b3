package pipeline

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultWordsPerMinute is the average adult silent reading speed.
const DefaultWordsPerMinute = 250

// MinReadingTime is the floor for every estimate, including empty documents.
const MinReadingTime = 1

// nonProseSelector matches elements whose text is not read as prose.
const nonProseSelector = "script, style, template, textarea, option, noscript"

// blockSelector matches elements whose boundaries separate words even when
// the markup has no whitespace between them.
const blockSelector = "p, div, li, dt, dd, h1, h2, h3, h4, h5, h6, pre, blockquote, " +
	"td, th, tr, br, hr, section, article, header, footer, figure, figcaption"

// PlainText strips markup from an HTML fragment and returns its text content.
// Block boundaries are turned into whitespace. Invalid markup is read leniently.
func PlainText(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	doc.Find(nonProseSelector).Remove()
	doc.Find(blockSelector).AfterHtml(" ")
	return doc.Text()
}

// CountWords returns the number of whitespace-separated words in the text
// content of an HTML fragment.
func CountWords(htmlContent string) int {
	return len(strings.Fields(PlainText(htmlContent)))
}

// EstimateReadingTime returns whole minutes needed to read the HTML fragment
// at wordsPerMinute, rounded half away from zero and never below MinReadingTime.
// A non-positive speed falls back to DefaultWordsPerMinute.
func EstimateReadingTime(htmlContent string, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}

	minutes := int(math.Round(float64(CountWords(htmlContent)) / float64(wordsPerMinute)))
	return max(minutes, MinReadingTime)
}
