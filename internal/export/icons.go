package export

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
)

// maxIconBytes bounds a fetched icon.
const maxIconBytes = 1 << 20

// IconSource resolves an icon reference to its bytes and media type.
type IconSource interface {
	Icon(ctx context.Context, ref string) (data []byte, mediaType string, err error)
}

// Icons resolves icon references from an asset filesystem, over HTTP(S),
// or from inline data URIs. Results are cached by reference.
type Icons struct {
	FS     fs.FS
	Client *http.Client

	mu    sync.Mutex
	cache map[string]icon
}

type icon struct {
	data      []byte
	mediaType string
}

// NewIcons creates a resolver over fsys.
func NewIcons(fsys fs.FS) *Icons {
	return &Icons{FS: fsys, Client: http.DefaultClient}
}

// Icon implements IconSource.
func (ic *Icons) Icon(ctx context.Context, ref string) ([]byte, string, error) {
	ic.mu.Lock()
	if c, ok := ic.cache[ref]; ok {
		ic.mu.Unlock()
		return c.data, c.mediaType, nil
	}
	ic.mu.Unlock()

	var (
		data []byte
		mt   string
		err  error
	)
	switch {
	case strings.HasPrefix(ref, "data:"):
		data, mt, err = decodeDataURI(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		data, mt, err = ic.fetch(ctx, ref)
	default:
		data, mt, err = ic.read(ref)
	}
	if err != nil {
		return nil, "", err
	}

	ic.mu.Lock()
	if ic.cache == nil {
		ic.cache = make(map[string]icon)
	}
	ic.cache[ref] = icon{data: data, mediaType: mt}
	ic.mu.Unlock()
	return data, mt, nil
}

func (ic *Icons) read(ref string) ([]byte, string, error) {
	if ic.FS == nil {
		return nil, "", fmt.Errorf("no asset filesystem for %s", ref)
	}
	data, err := fs.ReadFile(ic.FS, strings.TrimPrefix(path.Clean(ref), "/"))
	if err != nil {
		return nil, "", err
	}
	return data, mediaType(ref, data), nil
}

func (ic *Icons) fetch(ctx context.Context, ref string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, "", err
	}
	client := ic.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: %s", ref, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIconBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxIconBytes {
		return nil, "", fmt.Errorf("fetch %s: icon larger than %d bytes", ref, maxIconBytes)
	}
	u, _ := url.Parse(ref)
	return data, imageType(resp.Header.Get("Content-Type"), u.Path, data), nil
}

// imageType returns the declared media type when it parses and names an
// image, otherwise the type sniffed from name and data. Parameters are
// dropped.
func imageType(declared, name string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && strings.HasPrefix(mt, "image/") {
		return mt
	}
	return mediaType(name, data)
}

var errBadDataURI = errors.New("malformed data uri")

func decodeDataURI(ref string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, "", errBadDataURI
	}
	mt, isBase64 := strings.CutSuffix(meta, ";base64")
	var data []byte
	if isBase64 {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", errBadDataURI, err)
		}
		data = b
	} else {
		text, err := url.PathUnescape(payload)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", errBadDataURI, err)
		}
		data = []byte(text)
	}
	return data, imageType(mt, "", data), nil
}

func mediaType(name string, data []byte) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}

// DataURI embeds data as a base64 data URI. A media type that does not
// parse is replaced by one sniffed from data, so the result is always safe
// inside an attribute value.
func DataURI(data []byte, declared string) string {
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil {
		mt = mediaType("", data)
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(data)
}
