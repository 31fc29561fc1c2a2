package kml_test

import (
	"context"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
	"github.com/jhoicas/farm-directory-api/internal/infrastructure/kml"
)

func TestExportKML_PlacemarksOnlyForMappedFarms(t *testing.T) {
	lat, lon := 60.3932, 25.665
	zero := 0.0
	farms := []entity.Farm{
		{ID: "a", Name: "Sunny Mead Farm", Location: "Porvoo", Products: "Eggs, Honey", Latitude: &lat, Longitude: &lon},
		{ID: "b", Name: "No Map", Location: "Turku"},
		{ID: "c", Name: "Null Island <&>", Latitude: &zero, Longitude: &zero},
	}

	out, err := kml.NewExporter("").ExportKML(context.Background(), farms)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "kml", root.Tag)
	assert.Equal(t, "http://www.opengis.net/kml/2.2", root.SelectAttrValue("xmlns", ""))

	placemarks := doc.FindElements("//Placemark")
	require.Len(t, placemarks, 2)

	assert.Equal(t, "farm-a", placemarks[0].SelectAttrValue("id", ""))
	assert.Equal(t, "Sunny Mead Farm", placemarks[0].SelectElement("name").Text())
	assert.Equal(t, "25.665,60.3932,0", placemarks[0].FindElement("Point/coordinates").Text())
	assert.Equal(t, "Eggs, Honey", placemarks[0].FindElement("ExtendedData/Data[@name='products']/value").Text())

	assert.Equal(t, "Null Island <&>", placemarks[1].SelectElement("name").Text())
	assert.Equal(t, "0,0,0", placemarks[1].FindElement("Point/coordinates").Text())
}

func TestExportKML_Empty(t *testing.T) {
	out, err := kml.NewExporter("Farms").ExportKML(context.Background(), nil)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Equal(t, "Farms", doc.FindElement("//Document/name").Text())
	assert.Empty(t, doc.FindElements("//Placemark"))
}
