package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tliron/commonlog"
	"golang.org/x/text/encoding/unicode"
)

// maxDocumentBytes caps how much of a document file is read.
const maxDocumentBytes int64 = 32 << 20

const fetchTimeout = 30 * time.Second

var (
	// ErrNoChapters is returned for JSON that decodes but has no chapters array.
	ErrNoChapters = errors.New("document has no chapters")
	// ErrTooLarge is returned when the source exceeds maxDocumentBytes.
	ErrTooLarge = errors.New("document too large")
)

var log = commonlog.GetLogger("lawview.document")

// HTTPClient matches the Do method of *http.Client so tests can inject fakes.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Loader reads documents from local files or http(s) URLs.
type Loader struct {
	Client HTTPClient
}

// Load is a convenience wrapper around a zero Loader.
func Load(ctx context.Context, source string) (*Document, error) {
	return (&Loader{}).Load(ctx, source)
}

// Load fetches source once and decodes it. Any failure is fatal for the
// caller: no partial document is returned.
func (l *Loader) Load(ctx context.Context, source string) (*Document, error) {
	content, err := l.read(ctx, source)
	if err != nil {
		log.Errorf("loading %s: %s", source, err)
		return nil, err
	}
	doc, err := Parse(content)
	if err != nil {
		log.Errorf("decoding %s: %s", source, err)
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}
	log.Infof("loaded %s: %d chapters, %d paragraphs", source, len(doc.Chapters), doc.ParagraphCount())
	return doc, nil
}

// IsRemote reports whether source is fetched over HTTP.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if IsRemote(source) {
		return l.fetch(ctx, source)
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return readLimited(f)
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch document: unexpected status %s", resp.Status)
	}
	return readLimited(resp.Body)
}

func readLimited(r io.Reader) ([]byte, error) {
	content, err := io.ReadAll(io.LimitReader(r, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if int64(len(content)) > maxDocumentBytes {
		return nil, ErrTooLarge
	}
	return content, nil
}

// Parse decodes a document from raw bytes in UTF-8 (with or without BOM) or
// BOM-marked UTF-16.
func Parse(content []byte) (*Document, error) {
	text, err := decodeText(content)
	if err != nil {
		return nil, err
	}

	var probe struct {
		Chapters json.RawMessage `json:"chapters"`
	}
	if err := json.Unmarshal(text, &probe); err != nil {
		return nil, err
	}
	if len(probe.Chapters) == 0 || bytes.Equal(probe.Chapters, []byte("null")) {
		return nil, ErrNoChapters
	}

	var doc Document
	if err := json.Unmarshal(text, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

type unicodeEncoding int

const (
	encodingUnknown unicodeEncoding = iota
	encodingUTF8BOM
	encodingUTF16LE
	encodingUTF16BE
)

func detectUnicodeEncoding(sample []byte) unicodeEncoding {
	if len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF {
		return encodingUTF8BOM
	}
	if len(sample) >= 2 {
		switch {
		case sample[0] == 0xFF && sample[1] == 0xFE:
			return encodingUTF16LE
		case sample[0] == 0xFE && sample[1] == 0xFF:
			return encodingUTF16BE
		}
	}
	return encodingUnknown
}

func decodeText(content []byte) ([]byte, error) {
	switch detectUnicodeEncoding(content) {
	case encodingUTF8BOM:
		return content[3:], nil
	case encodingUTF16LE:
		return decodeUTF16(content, unicode.LittleEndian)
	case encodingUTF16BE:
		return decodeUTF16(content, unicode.BigEndian)
	default:
		return content, nil
	}
}

func decodeUTF16(content []byte, endian unicode.Endianness) ([]byte, error) {
	decoder := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder()
	out, err := decoder.Bytes(content)
	if err != nil {
		return nil, fmt.Errorf("decode utf-16: %w", err)
	}
	return out, nil
}
