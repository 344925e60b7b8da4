package weather

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSample(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/DigitalForecast-Sample.xml")
	require.NoError(t, err)
	return data
}

// feedWith builds a one-area feed around the given weather timerange elements.
func feedWith(timeranges ...string) []byte {
	return []byte(`<data><forecast><area id="1" description="Bandung">
<name xml:lang="en_US">Bandung City</name>
<name xml:lang="id_ID">Kota Bandung</name>
<parameter id="weather" description="Weather" type="hourly">` + strings.Join(timeranges, "\n") + `</parameter>
</area></forecast></data>`)
}

func timerange(h, stamp, icon string) string {
	return fmt.Sprintf(`<timerange type="hourly" h="%s" datetime="%s"><value unit="icon">%s</value></timerange>`, h, stamp, icon)
}

func TestParseFeed_Sample(t *testing.T) {
	records, err := ParseFeed(loadSample(t))
	require.NoError(t, err)

	// 3 + 2 weather timeranges; humidity and temperature parameters are ignored.
	require.Len(t, records, 5)

	assert.Equal(t, WeatherRecord{
		AreaName: "Jakarta Pusat",
		Date:     "2024-01-15",
		Time:     "06:00",
		Hour:     "6",
		Icon:     "61",
		Weather:  "Hujan Sedang",
		At:       records[1].At,
	}, records[1])

	areas := make([]string, 0, len(records))
	for _, r := range records {
		areas = append(areas, r.AreaName)
	}
	assert.Equal(t, []string{"Jakarta Pusat", "Jakarta Pusat", "Jakarta Pusat", "Jakarta Selatan", "Jakarta Selatan"}, areas)

	assert.Equal(t, "999", records[4].Icon)
	assert.Equal(t, UnknownWeather, records[4].Weather)
}

func TestParseFeed_PreservesTimerangeOrder(t *testing.T) {
	stamps := []string{"202401151800", "202401150000", "202401151200", "202401150600"}
	var trs []string
	for i, s := range stamps {
		trs = append(trs, timerange(fmt.Sprint(i*6), s, "3"))
	}

	records, err := ParseFeed(feedWith(trs...))
	require.NoError(t, err)
	require.Len(t, records, len(stamps))

	for i, r := range records {
		assert.Equal(t, "Kota Bandung", r.AreaName)
		assert.Equal(t, stamps[i], r.At.Format(feedTimestampLayout))
	}
}

func TestParseFeed_TimestampDerivation(t *testing.T) {
	records, err := ParseFeed(feedWith(timerange("0", "202401151430", "0")))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "2024-01-15", records[0].Date)
	assert.Equal(t, "14:30", records[0].Time)
	// h is passed through even though it disagrees with the timestamp.
	assert.Equal(t, "0", records[0].Hour)
	assert.Equal(t, "Cerah", records[0].Weather)
}

func TestParseFeed_UnknownIcon(t *testing.T) {
	records, err := ParseFeed(feedWith(timerange("0", "202401150000", "42")))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "42", records[0].Icon)
	assert.Equal(t, "Unknown", records[0].Weather)
}

func TestParseFeed_MissingHourIsEmpty(t *testing.T) {
	records, err := ParseFeed(feedWith(`<timerange datetime="202401150000"><value>3</value></timerange>`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Hour)
}

func TestParseFeed_MalformedTimestamp(t *testing.T) {
	cases := []string{
		"2024-01-15",
		"20240115143",
		"2024011514300",
		"20240115143a",
		"202413151430",
		"202402301200",
		"",
	}
	for _, stamp := range cases {
		t.Run(stamp, func(t *testing.T) {
			records, err := ParseFeed(feedWith(
				timerange("0", "202401150000", "3"),
				timerange("6", stamp, "3"),
			))
			require.Error(t, err)
			assert.Nil(t, records)

			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "datetime", fe.Field)
			assert.Equal(t, "Kota Bandung", fe.Area)
			assert.True(t, IsFeedError(err))
		})
	}
}

func TestParseFeed_MissingValue(t *testing.T) {
	for name, tr := range map[string]string{
		"absent": `<timerange h="0" datetime="202401150000"></timerange>`,
		"empty":  `<timerange h="0" datetime="202401150000"><value unit="icon">  </value></timerange>`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFeed(feedWith(tr))
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "value", fe.Field)
		})
	}
}

func TestParseFeed_MissingLocalizedName(t *testing.T) {
	feed := []byte(`<data><area description="Somewhere"><name xml:lang="en_US">Somewhere</name>
<parameter id="weather">` + timerange("0", "202401150000", "3") + `</parameter></area></data>`)

	_, err := ParseFeed(feed)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "name", fe.Field)
}

func TestParseFeed_NotXML(t *testing.T) {
	for name, input := range map[string]string{
		"mismatched tags": `<data><area></data>`,
		"empty":           ``,
		"text only":       `service unavailable`,
		"two roots":       `<data/><data/>`,
	} {
		t.Run(name, func(t *testing.T) {
			records, err := ParseFeed([]byte(input))
			assert.Nil(t, records)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.True(t, IsFeedError(err))
		})
	}
}

func TestParseFeed_RootAreaIsNotAnArea(t *testing.T) {
	feed := []byte(`<area><name xml:lang="id_ID">Akar</name>
<parameter id="weather"><timerange h="0" datetime="202401150000"><value>1</value></timerange></parameter>
<area><name xml:lang="id_ID">Anak</name>
<parameter id="weather"><timerange h="6" datetime="202401150600"><value>3</value></timerange></parameter>
</area></area>`)

	records, err := ParseFeed(feed)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Anak", records[0].AreaName)
	assert.Equal(t, "6", records[0].Hour)
}

func TestParseFeed_AreasAtAnyDepth(t *testing.T) {
	feed := []byte(`<data><forecast><region><group>
<area><name xml:lang="id_ID">Dalam</name>
<parameter id="weather"><timerange h="0" datetime="202401150000"><value>4</value></timerange></parameter>
</area></group></region>
<area><name xml:lang="id_ID">Luar</name></area>
</forecast></data>`)

	records, err := ParseFeed(feed)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Dalam", records[0].AreaName)
	assert.Equal(t, "Berawan Tebal", records[0].Weather)
}

func TestParseFeed_NoAreas(t *testing.T) {
	records, err := ParseFeed([]byte(`<data><forecast/></data>`))
	require.NoError(t, err)
	assert.Empty(t, records)
}
