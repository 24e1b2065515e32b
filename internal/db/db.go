package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"metrogo/internal/transit"
)

func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

// hubMinLines marks a stop as a hub when this many lines serve it.
const hubMinLines = 3

type stopRow struct {
	ID           string
	Name         string
	Lat, Lon     float64
	LocationType string
}

type routeRow struct {
	ID        string
	ShortName string
	LongName  string
	Color     string
	Type      string
}

// LoadRegistry builds a network from a GTFS import. Each route becomes one
// line following the stop sequence of its longest trip.
func LoadRegistry(ctx context.Context, db *sql.DB) (*transit.Registry, error) {
	stops, err := fetchStops(ctx, db)
	if err != nil {
		return nil, err
	}
	routes, err := fetchRoutes(ctx, db)
	if err != nil {
		return nil, err
	}
	seqs, err := fetchRouteSequences(ctx, db)
	if err != nil {
		return nil, err
	}
	return buildRegistry(stops, routes, seqs), nil
}

func fetchStops(ctx context.Context, db *sql.DB) ([]stopRow, error) {
	// Prefer stop_lat/stop_lon, but support PostGIS stop_loc geography as fallback
	latlonExists, err := hasColumns(ctx, db, "public", "stops", "stop_lat", "stop_lon")
	if err != nil {
		return nil, fmt.Errorf("introspect stops columns: %w", err)
	}
	var q string
	if latlonExists["stop_lat"] && latlonExists["stop_lon"] {
		q = `SELECT stop_id, COALESCE(stop_name, ''), COALESCE(stop_lat, 0), COALESCE(stop_lon, 0),
                    COALESCE(location_type::text, '0')
             FROM stops ORDER BY stop_id`
	} else {
		locExists, err := hasColumns(ctx, db, "public", "stops", "stop_loc")
		if err != nil {
			return nil, fmt.Errorf("introspect stops stop_loc: %w", err)
		}
		if !locExists["stop_loc"] {
			return nil, fmt.Errorf("stops table missing expected columns (stop_lat/lon or stop_loc)")
		}
		q = `SELECT stop_id, COALESCE(stop_name, ''),
                    COALESCE(ST_Y(stop_loc::geometry), 0), COALESCE(ST_X(stop_loc::geometry), 0),
                    COALESCE(location_type::text, '0')
             FROM stops ORDER BY stop_id`
	}
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query stops: %w", err)
	}
	defer rows.Close()
	var out []stopRow
	for rows.Next() {
		var s stopRow
		if err := rows.Scan(&s.ID, &s.Name, &s.Lat, &s.Lon, &s.LocationType); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func fetchRoutes(ctx context.Context, db *sql.DB) ([]routeRow, error) {
	// route_type may be an enum in postgis-gtfs-importer schemas; compare as text
	q := `SELECT route_id, COALESCE(route_short_name, ''), COALESCE(route_long_name, ''),
                 COALESCE(route_color, ''), route_type::text
          FROM routes ORDER BY route_id`
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query routes: %w", err)
	}
	defer rows.Close()
	var out []routeRow
	for rows.Next() {
		var r routeRow
		if err := rows.Scan(&r.ID, &r.ShortName, &r.LongName, &r.Color, &r.Type); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// fetchRouteSequences returns route_id -> ordered stop ids of its longest trip.
func fetchRouteSequences(ctx context.Context, db *sql.DB) (map[string][]string, error) {
	q := `
WITH longest AS (
  SELECT DISTINCT ON (t.route_id) t.route_id, t.trip_id
  FROM trips t
  JOIN stop_times st ON st.trip_id = t.trip_id
  GROUP BY t.route_id, t.trip_id
  ORDER BY t.route_id, COUNT(*) DESC, t.trip_id
)
SELECT l.route_id, st.stop_id
FROM longest l
JOIN stop_times st ON st.trip_id = l.trip_id
ORDER BY l.route_id, st.stop_sequence`
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query route sequences: %w", err)
	}
	defer rows.Close()
	seqs := make(map[string][]string)
	for rows.Next() {
		var routeID, stopID string
		if err := rows.Scan(&routeID, &stopID); err != nil {
			return nil, err
		}
		seqs[routeID] = append(seqs[routeID], stopID)
	}
	return seqs, rows.Err()
}

func buildRegistry(stops []stopRow, routes []routeRow, seqs map[string][]string) *transit.Registry {
	var lines []transit.Line
	served := make(map[string]int)
	for _, r := range routes {
		seq := dedupe(seqs[r.ID])
		if len(seq) < 2 {
			continue
		}
		for _, sid := range seq {
			served[sid]++
		}
		lines = append(lines, transit.Line{
			ID:          r.ID,
			Name:        firstNonEmpty(r.ShortName, r.LongName, r.ID),
			Description: r.LongName,
			Color:       normalizeColor(r.Color),
			Mode:        routeMode(r.Type),
			Stations:    seq,
		})
	}
	title := cases.Title(language.Und)
	stations := make([]transit.Station, 0, len(stops))
	for _, s := range stops {
		kind := transit.Stop
		if strings.TrimSpace(s.LocationType) == "1" || served[s.ID] >= hubMinLines {
			kind = transit.Hub
		}
		stations = append(stations, transit.Station{
			ID:   s.ID,
			Name: stopName(title, s.Name),
			Lat:  s.Lat,
			Lng:  s.Lon,
			Kind: kind,
		})
	}
	return transit.NewRegistry(stations, lines)
}

// stopName title-cases names that a feed publishes in all capitals.
func stopName(title cases.Caser, name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.ToUpper(name) != name || strings.ToLower(name) == name {
		return name
	}
	return title.String(strings.ToLower(name))
}

// routeMode maps GTFS route_type to a line mode. Subway/metro (1) and
// its extended range (400-499) are metro; everything else runs as a bus.
func routeMode(routeType string) transit.Mode {
	t := strings.ToLower(strings.TrimSpace(routeType))
	switch {
	case t == "1", strings.Contains(t, "subway"), strings.Contains(t, "metro"):
		return transit.Metro
	case len(t) == 3 && t[0] == '4':
		return transit.Metro
	}
	return transit.Bus
}

func normalizeColor(c string) string {
	c = strings.TrimPrefix(strings.TrimSpace(c), "#")
	if len(c) != 6 {
		return "#4b5563"
	}
	return "#" + strings.ToLower(c)
}

// dedupe keeps the first visit of each stop so loop trips still form a path.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// hasColumns returns a map of requested column names to existence for the given table.
func hasColumns(ctx context.Context, db *sql.DB, schema, table string, cols ...string) (map[string]bool, error) {
	res := make(map[string]bool, len(cols))
	if len(cols) == 0 {
		return res, nil
	}
	for _, c := range cols {
		res[c] = false
	}
	q := `SELECT column_name FROM information_schema.columns
          WHERE table_schema = $1 AND table_name = $2 AND column_name = ANY($3)`
	rows, err := db.QueryContext(ctx, q, schema, table, cols)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		res[name] = true
	}
	return res, rows.Err()
}
