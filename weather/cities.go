package main

// city pairs a caller-facing display name with the location string
// the weather provider expects.
type city struct {
	Name     string
	Location string
}

// supportedCities is kept in declaration order; list_supported_cities
// returns it as is.
var supportedCities = []city{
	{"北京", "Beijing"},
	{"上海", "Shanghai"},
	{"广州", "Guangzhou"},
	{"深圳", "Shenzhen"},
	{"杭州", "Hangzhou"},
	{"成都", "Chengdu"},
	{"重庆", "Chongqing"},
	{"武汉", "Wuhan"},
	{"西安", "Xi'an"},
	{"南京", "Nanjing"},
	{"天津", "Tianjin"},
	{"苏州", "Suzhou"},
}

var cityLocations = func() map[string]string {
	m := make(map[string]string, len(supportedCities))
	for _, c := range supportedCities {
		if _, dup := m[c.Name]; dup {
			panic("duplicate city in directory: " + c.Name)
		}
		m[c.Name] = c.Location
	}
	return m
}()

// resolveCity returns the provider location for a known display name.
// Unknown names are passed through unchanged.
func resolveCity(name string) string {
	if location, ok := cityLocations[name]; ok {
		return location
	}
	return name
}

// cityNames returns the display names in declaration order
func cityNames() []string {
	names := make([]string, 0, len(supportedCities))
	for _, c := range supportedCities {
		names = append(names, c.Name)
	}
	return names
}
