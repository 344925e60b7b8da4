package weather

import (
	"sort"

	"github.com/i474232898/bmkg-weather/internal/common"
)

// provinceFeeds maps province names to their DigitalForecast file under the BMKG base URL.
var provinceFeeds = map[string]string{
	"Aceh":                "DigitalForecast-Aceh.xml",
	"Bali":                "DigitalForecast-Bali.xml",
	"Bangka Belitung":     "DigitalForecast-BangkaBelitung.xml",
	"Banten":              "DigitalForecast-Banten.xml",
	"Bengkulu":            "DigitalForecast-Bengkulu.xml",
	"DI Yogyakarta":       "DigitalForecast-DIYogyakarta.xml",
	"DKI Jakarta":         "DigitalForecast-DKIJakarta.xml",
	"Gorontalo":           "DigitalForecast-Gorontalo.xml",
	"Jambi":               "DigitalForecast-Jambi.xml",
	"Jawa Barat":          "DigitalForecast-JawaBarat.xml",
	"Jawa Tengah":         "DigitalForecast-JawaTengah.xml",
	"Jawa Timur":          "DigitalForecast-JawaTimur.xml",
	"Kalimantan Barat":    "DigitalForecast-KalimantanBarat.xml",
	"Kalimantan Selatan":  "DigitalForecast-KalimantanSelatan.xml",
	"Kalimantan Tengah":   "DigitalForecast-KalimantanTengah.xml",
	"Kalimantan Timur":    "DigitalForecast-KalimantanTimur.xml",
	"Kalimantan Utara":    "DigitalForecast-KalimantanUtara.xml",
	"Kepulauan Riau":      "DigitalForecast-KepulauanRiau.xml",
	"Lampung":             "DigitalForecast-Lampung.xml",
	"Maluku":              "DigitalForecast-Maluku.xml",
	"Maluku Utara":        "DigitalForecast-MalukuUtara.xml",
	"Nusa Tenggara Barat": "DigitalForecast-NusaTenggaraBarat.xml",
	"Nusa Tenggara Timur": "DigitalForecast-NusaTenggaraTimur.xml",
	"Papua":               "DigitalForecast-Papua.xml",
	"Papua Barat":         "DigitalForecast-PapuaBarat.xml",
	"Riau":                "DigitalForecast-Riau.xml",
	"Sulawesi Barat":      "DigitalForecast-SulawesiBarat.xml",
	"Sulawesi Selatan":    "DigitalForecast-SulawesiSelatan.xml",
	"Sulawesi Tengah":     "DigitalForecast-SulawesiTengah.xml",
	"Sulawesi Tenggara":   "DigitalForecast-SulawesiTenggara.xml",
	"Sulawesi Utara":      "DigitalForecast-SulawesiUtara.xml",
	"Sumatera Barat":      "DigitalForecast-SumateraBarat.xml",
	"Sumatera Selatan":    "DigitalForecast-SumateraSelatan.xml",
	"Sumatera Utara":      "DigitalForecast-SumateraUtara.xml",
	"Indonesia":           "DigitalForecast-Indonesia.xml",
}

// foldedFeeds indexes provinceFeeds by common.Fold of the name. Built once, never written.
var foldedFeeds = func() map[string]string {
	m := make(map[string]string, len(provinceFeeds))
	for name, suffix := range provinceFeeds {
		m[common.Fold(name)] = suffix
	}
	return m
}()

// FeedSuffix returns the feed path for a province, or "" when the province is not supported.
func FeedSuffix(province string) string {
	return foldedFeeds[common.Fold(province)]
}

// Provinces lists the supported province names in alphabetical order.
func Provinces() []string {
	names := make([]string, 0, len(provinceFeeds))
	for name := range provinceFeeds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
