package pollutant

// Names is the canonical, ordered set of pollutant readings the predictor consumes.
var Names = []string{
	"PM2.5", "PM10", "NO", "NO2",
	"NOx", "NH3", "CO", "SO2",
	"O3", "Benzene", "Toluene",
}

// Info describes a pollutant for tooltips and listings.
type Info struct {
	Name        string
	Description string
	Unit        string
	Note        string
}

var info = map[string]Info{
	"PM2.5":   {Name: "PM2.5", Description: "Fine inhalable particles ≤2.5μm", Unit: "μg/m³", Note: "Can penetrate lungs and cause respiratory issues."},
	"PM10":    {Name: "PM10", Description: "Inhalable particles ≤10μm", Unit: "μg/m³"},
	"NO":      {Name: "NO", Description: "Nitric oxide", Unit: "μg/m³"},
	"NO2":     {Name: "NO2", Description: "Nitrogen dioxide", Unit: "μg/m³", Note: "Can irritate airways and worsen asthma."},
	"NOx":     {Name: "NOx", Description: "Nitrogen oxides", Unit: "μg/m³"},
	"NH3":     {Name: "NH3", Description: "Ammonia", Unit: "μg/m³"},
	"CO":      {Name: "CO", Description: "Carbon monoxide", Unit: "mg/m³", Note: "High levels can reduce oxygen delivery in the body."},
	"SO2":     {Name: "SO2", Description: "Sulfur dioxide", Unit: "μg/m³"},
	"O3":      {Name: "O3", Description: "Ozone", Unit: "μg/m³"},
	"Benzene": {Name: "Benzene", Description: "Benzene", Unit: "μg/m³"},
	"Toluene": {Name: "Toluene", Description: "Toluene", Unit: "μg/m³"},
}

// IsCanonical reports whether name is one of Names.
func IsCanonical(name string) bool {
	_, ok := info[name]
	return ok
}

// Describe returns descriptive info for a pollutant. Unknown names get a bare Info.
func Describe(name string) Info {
	if i, ok := info[name]; ok {
		return i
	}
	return Info{Name: name}
}
