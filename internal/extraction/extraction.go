// Package extraction derives structured data from raw document bytes.
// It is pure: no I/O, no clock, no mutation of its inputs.
package extraction

import (
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	TypeText         = "text"
	TypeMetadataOnly = "metadata_only"
)

// Metadata is always present on a Result, regardless of extraction type.
// UploadedAt and ExtractedAt are filled in by the caller, which owns the
// document record and the clock.
type Metadata struct {
	Filename    string     `json:"filename"`
	SizeBytes   int64      `json:"sizeBytes"`
	MimeType    string     `json:"mimeType"`
	FileFormat  string     `json:"fileFormat"`
	UploadedAt  *time.Time `json:"uploadedAt,omitempty"`
	ExtractedAt *time.Time `json:"extractedAt,omitempty"`
	Note        string     `json:"note,omitempty"`
}

// Content holds the text-analysis payload, present only on "text" results.
type Content struct {
	Text           string `json:"text"`
	CharacterCount int    `json:"characterCount"`
	LineCount      int    `json:"lineCount"`
	WordCount      int    `json:"wordCount"`
}

// Result is the structured output of extracting one document.
type Result struct {
	ExtractionType string   `json:"extractionType"`
	Metadata       Metadata `json:"metadata"`
	Content        *Content `json:"content,omitempty"`
}

// Extract classifies the payload and computes its extraction result.
//
// Text analysis runs when the mime type starts with "text/" or the filename
// extension is "txt" (case-insensitive). Everything else, including text
// that is not valid UTF-8, yields a metadata-only result.
func Extract(data []byte, mimeType, filename string) Result {
	format := FileFormat(filename)
	res := Result{
		ExtractionType: TypeMetadataOnly,
		Metadata: Metadata{
			Filename:   filename,
			SizeBytes:  int64(len(data)),
			MimeType:   mimeType,
			FileFormat: format,
		},
	}

	if !strings.HasPrefix(mimeType, "text/") && format != "txt" {
		return res
	}

	if !utf8.Valid(data) {
		res.Metadata.Note = "content is not valid UTF-8; text analysis skipped"
		return res
	}

	text := string(data)
	res.ExtractionType = TypeText
	res.Content = &Content{
		Text:           text,
		CharacterCount: utf8.RuneCountInString(text),
		// Splitting on "\n" counts the empty segment after a trailing
		// newline. That matches the stored contract for line_count, so
		// "a\nb\n" reports 3 lines.
		LineCount: len(strings.Split(text, "\n")),
		WordCount: len(strings.Fields(text)),
	}
	return res
}

// FileFormat returns the lower-cased filename extension without the dot.
func FileFormat(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}
