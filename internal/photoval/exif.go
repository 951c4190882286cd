package photoval

import (
	"bytes"
	"fmt"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/marsisca/travelog/internal/models"
)

// extractMetadata parses EXIF tags out of raw photo bytes. A photo without
// an EXIF block (or with a corrupt one) returns an error; the caller treats
// that as metadata absence, not as a validation failure.
func extractMetadata(data []byte) (*models.PhotoMetadata, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode exif: %w", err)
	}

	meta := &models.PhotoMetadata{}

	if lat, lon, err := x.LatLong(); err == nil {
		meta.Latitude = &lat
		meta.Longitude = &lon
	}

	meta.DateTimeOriginal = tagString(x, exif.DateTimeOriginal)
	meta.DateTimeDigitized = tagString(x, exif.DateTimeDigitized)
	meta.Make = tagString(x, exif.Make)
	meta.Model = tagString(x, exif.Model)

	// Pass through everything else for callers that want the full tag set.
	meta.Extra = map[string]string{}
	x.Walk(tagCollector{tags: meta.Extra})

	return meta, nil
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return s
}

type tagCollector struct {
	tags map[string]string
}

func (c tagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	c.tags[string(name)] = tag.String()
	return nil
}
