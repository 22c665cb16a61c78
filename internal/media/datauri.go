package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	KindImage = "image"
	KindVideo = "video"
)

var ErrInvalidDataURI = errors.New("invalid data URI")

// DataURI is a decoded "data:<mime>;base64,<payload>" value, the format
// clients send media in and the one stored on posts and profiles.
type DataURI struct {
	MIME string
	Data []byte
}

func ParseDataURI(s string) (DataURI, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return DataURI{}, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURI)
	}

	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return DataURI{}, fmt.Errorf("%w: missing payload", ErrInvalidDataURI)
	}

	mime, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return DataURI{}, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURI)
	}
	mime = strings.ToLower(strings.TrimSpace(mime))
	if !strings.Contains(mime, "/") {
		return DataURI{}, fmt.Errorf("%w: bad media type %q", ErrInvalidDataURI, mime)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return DataURI{}, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if len(data) == 0 {
		return DataURI{}, fmt.Errorf("%w: empty payload", ErrInvalidDataURI)
	}

	return DataURI{MIME: mime, Data: data}, nil
}

// FromBase64 wraps a bare base64 payload using the MIME types the mobile
// client encoded with.
func FromBase64(kind, payload string) (DataURI, error) {
	var mime string
	switch kind {
	case KindImage:
		mime = "image/jpeg"
	case KindVideo:
		mime = "video/mp4"
	default:
		return DataURI{}, fmt.Errorf("%w: unknown media type %q", ErrInvalidDataURI, kind)
	}
	return ParseDataURI("data:" + mime + ";base64," + payload)
}

func (d DataURI) Kind() string {
	switch {
	case strings.HasPrefix(d.MIME, "image/"):
		return KindImage
	case strings.HasPrefix(d.MIME, "video/"):
		return KindVideo
	default:
		return ""
	}
}

func (d DataURI) String() string {
	return "data:" + d.MIME + ";base64," + base64.StdEncoding.EncodeToString(d.Data)
}
