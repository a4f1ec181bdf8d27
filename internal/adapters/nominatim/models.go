package nominatim

type reverseResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Address     struct {
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		Hamlet      string `json:"hamlet"`
		County      string `json:"county"`
		Country     string `json:"country"`
		CountryCode string `json:"country_code"`
	} `json:"address"`
	Error string `json:"error"`
}

func (r reverseResponse) placeName() string {
	for _, s := range []string{r.Address.City, r.Address.Town, r.Address.Village, r.Address.Hamlet, r.Name} {
		if s != "" {
			return s
		}
	}
	return ""
}
