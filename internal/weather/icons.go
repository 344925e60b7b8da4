package weather

// UnknownWeather is reported for icon codes missing from the icon table.
const UnknownWeather = "Unknown"

// iconDescriptions maps BMKG weather icon codes to their Indonesian descriptions.
var iconDescriptions = map[string]string{
	"0":   "Cerah",
	"100": "Cerah",
	"1":   "Cerah Berawan",
	"101": "Cerah Berawan",
	"2":   "Cerah Berawan",
	"102": "Cerah Berawan",
	"3":   "Berawan",
	"103": "Berawan",
	"4":   "Berawan Tebal",
	"104": "Berawan Tebal",
	"5":   "Udara Kabur",
	"10":  "Asap",
	"45":  "Kabut",
	"60":  "Hujan Ringan",
	"61":  "Hujan Sedang",
	"63":  "Hujan Lebat",
	"80":  "Hujan Lokal",
	"95":  "Hujan Petir",
	"97":  "Hujan Petir",
}

// DescribeIcon resolves an icon code, falling back to UnknownWeather.
func DescribeIcon(code string) string {
	if d, ok := iconDescriptions[code]; ok {
		return d
	}
	return UnknownWeather
}
