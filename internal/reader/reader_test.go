package reader

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"dataimport/internal/model"
)

func TestParseCSV(t *testing.T) {
	in := "\ufeffSKU, Image ,Gallery\n" +
		"S1,http://x/a.png,\"a.png,b.png\"\n" +
		",,\n" +
		"S2,b.png\n"

	recs, err := Parse("products.CSV", strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, 2, recs[0].Line)
	assert.Equal(t, model.Row{"sku": "S1", "image": "http://x/a.png", "gallery": "a.png,b.png"}, recs[0].Row)

	assert.Equal(t, 4, recs[1].Line)
	assert.Equal(t, model.Row{"sku": "S2", "image": "b.png", "gallery": ""}, recs[1].Row)
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Code", "Logo"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"C1", "logo.png"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"C2", " https://x/l.png "}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	recs, err := Parse("categories.xlsx", &buf)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, model.Row{"code": "C1", "logo": "logo.png"}, recs[0].Row)
	assert.Equal(t, 3, recs[1].Line)
	assert.Equal(t, "https://x/l.png", recs[1].Row["logo"])
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := Parse("products.json", strings.NewReader("{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "main_image", NormalizeHeader("\ufeff Main_Image "))
	assert.Equal(t, "sku", NormalizeHeader("SKU"))
}
