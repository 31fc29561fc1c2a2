// Package kml writes the public directory as a KML 2.2 document so the
// listings can be opened in map tools.
package kml

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
)

const namespace = "http://www.opengis.net/kml/2.2"

// Exporter renders listings as placemarks. Listings without both coordinates are skipped.
type Exporter struct {
	name string
}

// NewExporter name is the document title.
func NewExporter(name string) *Exporter {
	if name == "" {
		name = "Farm Directory"
	}
	return &Exporter{name: name}
}

// ExportKML returns the serialized document.
func (e *Exporter) ExportKML(_ context.Context, farms []entity.Farm) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("kml")
	root.CreateAttr("xmlns", namespace)
	document := root.CreateElement("Document")
	document.CreateElement("name").SetText(e.name)

	for i := range farms {
		f := &farms[i]
		lat, lon, ok := f.Coordinates()
		if !ok {
			continue
		}
		pm := document.CreateElement("Placemark")
		pm.CreateAttr("id", "farm-"+f.ID)
		pm.CreateElement("name").SetText(f.Name)
		if desc := placemarkDescription(f); desc != "" {
			pm.CreateElement("description").SetText(desc)
		}

		ext := pm.CreateElement("ExtendedData")
		addData(ext, "location", f.Location)
		addData(ext, "products", f.Products)

		point := pm.CreateElement("Point")
		point.CreateElement("coordinates").SetText(formatCoord(lon) + "," + formatCoord(lat) + ",0")
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("kml: serialize: %w", err)
	}
	return out, nil
}

func addData(parent *etree.Element, name, value string) {
	if value == "" {
		return
	}
	d := parent.CreateElement("Data")
	d.CreateAttr("name", name)
	d.CreateElement("value").SetText(value)
}

func placemarkDescription(f *entity.Farm) string {
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(f.Description); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(f.Products); s != "" {
		parts = append(parts, "Products: "+s)
	}
	return strings.Join(parts, "\n")
}

// KML orders coordinates lon,lat.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
