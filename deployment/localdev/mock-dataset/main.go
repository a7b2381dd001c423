// mock-dataset serves a launch records CSV over HTTP so the dashboard can be run
// against an http:// dataset source locally:
//
//	go run ./deployment/localdev/mock-dataset -file internal/dataset/testdata/launches.csv
//	SPACEX_DASH_DATASET=http://localhost:8081/spacex_launch_dash.csv go run ./cmd/spacex-dash
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"
)

func main() {
	addr := flag.String("addr", ":8081", "Listen address")
	file := flag.String("file", "internal/dataset/testdata/launches.csv", "CSV file to serve")
	latency := flag.Duration("latency", 0, "Delay added before every dataset response")
	flag.Parse()

	logger := log.New(log.Writer(), "dataset-mock ", log.LstdFlags|log.Lmicroseconds)
	if _, err := os.Stat(*file); err != nil {
		logger.Fatalf("dataset file: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/spacex_launch_dash.csv", func(w http.ResponseWriter, r *http.Request) {
		if !enforceGet(w, r) {
			return
		}
		if *latency > 0 {
			select {
			case <-time.After(*latency):
			case <-r.Context().Done():
				return
			}
		}
		data, err := os.ReadFile(*file)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = w.Write(data)
	})

	srv := &http.Server{
		Addr:              *addr,
		Handler:           logRequests(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Printf("serving %s on %s", *file, *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server error: %v", err)
	}
}

func enforceGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rw.status, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
