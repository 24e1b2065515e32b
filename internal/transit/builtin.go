package transit

// Builtin returns the Vijayawada demo network.
func Builtin() *Registry {
	return NewRegistry(builtinStations, builtinLines)
}

var builtinStations = []Station{
	{ID: "s1", Name: "PNBS (Bus Station)", Lat: 16.5086, Lng: 80.6183, Kind: Hub},
	{ID: "s2", Name: "Benz Circle", Lat: 16.5003, Lng: 80.6539, Kind: Hub},
	{ID: "s3", Name: "Besant Road", Lat: 16.5153, Lng: 80.6318, Kind: Stop},
	{ID: "s4", Name: "Kanaka Durga Temple", Lat: 16.5137, Lng: 80.6054, Kind: Stop},
	{ID: "s5", Name: "Railway Station", Lat: 16.5186, Lng: 80.6202, Kind: Hub},
	{ID: "s6", Name: "Gannavaram Airport", Lat: 16.5300, Lng: 80.7400, Kind: Hub},
	{ID: "s7", Name: "PVP Square", Lat: 16.5024, Lng: 80.6454, Kind: Stop},
	{ID: "s8", Name: "Auto Nagar", Lat: 16.4957, Lng: 80.6800, Kind: Stop},
	{ID: "s9", Name: "NTR Circle", Lat: 16.5050, Lng: 80.6480, Kind: Stop},
	{ID: "s10", Name: "Ramavarappadu", Lat: 16.5350, Lng: 80.6650, Kind: Hub},
	{ID: "s11", Name: "Gollapudi", Lat: 16.5400, Lng: 80.5800, Kind: Stop},
	{ID: "s12", Name: "Siddhartha College", Lat: 16.5000, Lng: 80.6600, Kind: Stop},
	{ID: "s13", Name: "Gunadala", Lat: 16.5300, Lng: 80.6500, Kind: Stop},
	{ID: "s14", Name: "Milk Project", Lat: 16.5280, Lng: 80.6000, Kind: Stop},
	{ID: "s15", Name: "KR Market", Lat: 16.5120, Lng: 80.6120, Kind: Hub},
	{ID: "s16", Name: "Kanuru", Lat: 16.4880, Lng: 80.6950, Kind: Stop},
	{ID: "s17", Name: "Penamaluru", Lat: 16.4750, Lng: 80.7250, Kind: Hub},
	{ID: "s18", Name: "Vuyyuru", Lat: 16.3700, Lng: 80.8400, Kind: Hub},
}

var builtinLines = []Line{
	{ID: "L_31J_11J", Name: "31J / 11J", Description: "Autonagar ↔ Milk Project", Color: "#ea580c", Mode: Bus, Stations: []string{"s8", "s12", "s2", "s7", "s1", "s15", "s14"}},
	{ID: "L_222", Name: "222 Exp", Description: "Market ↔ Vuyyuru", Color: "#7c3aed", Mode: Bus, Stations: []string{"s15", "s1", "s2", "s12", "s8", "s16", "s17", "s18"}},
	{ID: "L_10_23H", Name: "10 / 23H", Description: "Rly Station ↔ Penamaluru", Color: "#0891b2", Mode: Bus, Stations: []string{"s5", "s1", "s2", "s12", "s8", "s16", "s17"}},
	{ID: "L_55", Name: "55 Route", Description: "Market ↔ Kanuru", Color: "#db2777", Mode: Bus, Stations: []string{"s15", "s5", "s1", "s2", "s12", "s16"}},
	{ID: "L_3", Name: "No. 3", Description: "PNBS ↔ Airport", Color: "#16a34a", Mode: Bus, Stations: []string{"s1", "s3", "s9", "s2", "s12", "s10", "s6"}},
	{ID: "L_218", Name: "218", Description: "PNBS ↔ Vuyyuru", Color: "#dc2626", Mode: Bus, Stations: []string{"s1", "s2", "s8", "s16", "s17", "s18"}},
	{ID: "L_M1", Name: "Metro M1", Description: "Gollapudi ↔ Ramavarappadu", Color: "#2563eb", Mode: Metro, Stations: []string{"s11", "s4", "s1", "s5", "s3", "s2", "s10"}},
}
