// Package pdfmeta extracts bibliographic metadata from published PDF artifacts.
package pdfmeta

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/git-pkgs/etsi/fetch"
	"github.com/git-pkgs/etsi/internal/core"
	"github.com/ledongthuc/pdf"
)

const (
	// maxScanLines bounds the first-page title scan.
	maxScanLines = 20
	// minTitleLength is the length a line must exceed to count as a title.
	minTitleLength = 20
	// DefaultMaxSize caps how much of an artifact is read.
	DefaultMaxSize = 64 << 20
)

var (
	creationDatePattern = regexp.MustCompile(`D:(\d{4})(\d{2})(\d{2})`)
	decorationPattern   = regexp.MustCompile(`^[^\p{L}\p{N}_\s]+$`)
)

// Extractor downloads an artifact and reads its metadata.
type Extractor struct {
	fetcher fetch.FetcherInterface
	timeout time.Duration
	maxSize int64
	logger  *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTimeout sets the download timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		e.timeout = d
	}
}

// WithMaxSize caps the size of an artifact. Larger artifacts are not
// parsed and yield empty metadata.
func WithMaxSize(n int64) Option {
	return func(e *Extractor) {
		e.maxSize = n
	}
}

// WithLogger sets the logger used to report parse failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// New creates an Extractor downloading through f.
func New(f fetch.FetcherInterface, opts ...Option) *Extractor {
	e := &Extractor{
		fetcher: f,
		timeout: 30 * time.Second,
		maxSize: DefaultMaxSize,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract downloads url and returns whatever metadata it carries. Only a
// failed download is an error; an unreadable document yields empty metadata.
func (e *Extractor) Extract(ctx context.Context, url string) (core.SpecMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	artifact, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return core.SpecMetadata{}, &core.TransportError{Op: "fetch", URL: url, Err: err}
	}
	defer func() { _ = artifact.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(artifact.Body, e.maxSize+1))
	if err != nil {
		return core.SpecMetadata{}, &core.TransportError{Op: "fetch", URL: url, Err: err}
	}
	if int64(len(data)) > e.maxSize {
		e.logger.Warn("artifact exceeds max size, skipping metadata", "url", url, "max_size", e.maxSize)
		return core.SpecMetadata{}, nil
	}

	md, err := Parse(data)
	if err != nil {
		e.logger.Warn("could not read PDF metadata", "url", url, "error", err)
	}
	return md, nil
}

// Parse reads metadata from a PDF document. The returned metadata is
// usable even when err is non-nil; err only explains what was missed.
func Parse(data []byte) (md core.SpecMetadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return core.SpecMetadata{}, fmt.Errorf("open PDF: %w", err)
	}

	info := reader.Trailer().Key("Info")
	title := strings.TrimSpace(info.Key("Title").Text())
	created := info.Key("CreationDate").Text()

	var lines []string
	if title == "" && reader.NumPage() > 0 {
		lines, err = firstPageLines(reader.Page(1))
	}
	return metadataFrom(title, created, lines), err
}

// metadataFrom assembles metadata from the raw Info fields, falling back to
// lines of page text when the title field is empty.
func metadataFrom(title, created string, lines []string) core.SpecMetadata {
	md := core.SpecMetadata{
		Title:           strings.TrimSpace(title),
		PublicationDate: PublicationDate(created),
	}
	if md.Title == "" {
		md.Title = TitleFromLines(lines)
	}
	return md
}

// TitleFromLines returns the first of the leading lines that is long
// enough to be a title and is not made of punctuation alone.
func TitleFromLines(lines []string) string {
	if len(lines) > maxScanLines {
		lines = lines[:maxScanLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= minTitleLength {
			continue
		}
		if decorationPattern.MatchString(line) {
			continue
		}
		return line
	}
	return ""
}

// PublicationDate converts a PDF date string ("D:20230115120000+01'00'")
// to "2023-01-15". Unrecognised input yields "".
func PublicationDate(created string) string {
	m := creationDatePattern.FindStringSubmatch(created)
	if m == nil {
		return ""
	}
	return m[1] + "-" + m[2] + "-" + m[3]
}

func firstPageLines(page pdf.Page) ([]string, error) {
	if page.V.IsNull() {
		return nil, nil
	}
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, fmt.Errorf("read page text: %w", err)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var sb strings.Builder
		for _, text := range row.Content {
			sb.WriteString(text.S)
		}
		lines = append(lines, sb.String())
	}
	return lines, nil
}
