// Command devstore is a local stand-in for the hosted record store. It
// speaks just enough of the same HTTP surface for the site to run against
// during development: list with filter, sort, and offset pagination, plus
// single-record fetch.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	dbfs "github.com/workdeck/workdeck/db"
	"github.com/workdeck/workdeck/internal/db"
)

type record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

type store struct {
	db *db.DB
}

func main() {
	var (
		addr = flag.String("addr", ":8090", "Listen address")
		dsn  = flag.String("db", "file:devstore.db", "SQLite DSN")
		seed = flag.Bool("seed", false, "Load sample jobs on startup")
	)
	flag.Parse()

	ctx := context.Background()

	d, err := db.New(ctx, *dsn)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer d.Close()

	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}
	if *seed {
		if err := db.Seed(ctx, d, dbfs.SeedFiles); err != nil {
			log.Fatalf("Failed to seed: %v", err)
		}
		log.Println("Sample jobs loaded")
	}

	s := &store{db: d}

	r := mux.NewRouter()
	r.HandleFunc("/v0/{base}/{table}", s.handleList).Methods("GET")
	r.HandleFunc("/v0/{base}/{table}/{id}", s.handleGet).Methods("GET")

	log.Printf("Dev record store listening on %s", *addr)
	server := &http.Server{
		Addr:         *addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

func (s *store) loadAll(ctx context.Context) ([]record, error) {
	rows, err := s.db.Query(ctx, `SELECT id, created_time, fields FROM records ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []record
	for rows.Next() {
		var rec record
		var fields string
		if err := rows.Scan(&rec.ID, &rec.CreatedTime, &fields); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fields), &rec.Fields); err != nil {
			return nil, fmt.Errorf("record %s has bad fields: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// formulaRe matches the only formula shape the site sends: {field} = 'value'.
var formulaRe = regexp.MustCompile(`^\{(\w+)\}\s*=\s*'([^']*)'$`)

func (s *store) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := s.loadAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	q := r.URL.Query()

	if formula := q.Get("filterByFormula"); formula != "" {
		m := formulaRe.FindStringSubmatch(formula)
		if m == nil {
			writeError(w, http.StatusUnprocessableEntity, "INVALID_FILTER_BY_FORMULA", "unsupported formula")
			return
		}
		field, want := m[1], m[2]
		var kept []record
		for _, rec := range all {
			if got, ok := rec.Fields[field].(string); ok && got == want {
				kept = append(kept, rec)
			}
		}
		all = kept
	}

	if field := q.Get("sort[0][field]"); field != "" {
		desc := q.Get("sort[0][direction]") == "desc"
		sort.SliceStable(all, func(i, k int) bool {
			a := fmt.Sprint(all[i].Fields[field])
			b := fmt.Sprint(all[k].Fields[field])
			if desc {
				return a > b
			}
			return a < b
		})
	}

	if raw := q.Get("maxRecords"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 && n < len(all) {
			all = all[:n]
		}
	}

	pageSize := 100
	if raw := q.Get("pageSize"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}

	start := 0
	if raw := q.Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			start = n
		}
	}
	if start > len(all) {
		start = len(all)
	}

	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}

	resp := map[string]any{"records": all[start:end]}
	if end < len(all) {
		resp["offset"] = strconv.Itoa(end)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *store) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	row := s.db.QueryRow(r.Context(), `SELECT id, created_time, fields FROM records WHERE id = ?`, id)

	var rec record
	var fields string
	if err := row.Scan(&rec.ID, &rec.CreatedTime, &fields); err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "record not found")
		return
	}
	if err := json.Unmarshal([]byte(fields), &rec.Fields); err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"type": kind, "message": msg},
	})
}
