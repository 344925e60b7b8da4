package weather

// GroupByArea buckets records by area name. Areas appear in first-seen order and each
// bucket keeps the records' original order.
func GroupByArea(records []WeatherRecord) []AreaForecast {
	if len(records) == 0 {
		return []AreaForecast{}
	}

	index := make(map[string]int)
	groups := make([]AreaForecast, 0)

	for _, r := range records {
		i, ok := index[r.AreaName]
		if !ok {
			i = len(groups)
			index[r.AreaName] = i
			groups = append(groups, AreaForecast{AreaName: r.AreaName})
		}
		groups[i].Forecasts = append(groups[i].Forecasts, r)
	}

	return groups
}
