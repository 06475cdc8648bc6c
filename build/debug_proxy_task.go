package main

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/goyek/goyek/v2"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"

	maxBodyPrint = 2000
)

// DebugProxy prints provider traffic. Point a model's base_url at the proxy
// to see the exact requests the gateway sends, patches included.
var DebugProxy = goyek.Define(goyek.Task{
	Name:  "debug-proxy",
	Usage: "HTTP debug proxy for provider requests. Use -target=URL [-port=8080]",
	Action: func(a *goyek.A) {
		if *targetURL == "" {
			a.Fatal("Usage: go run ./build -target=<url> [-port=8080] debug-proxy")
		}
		target, err := url.Parse(*targetURL)
		if err != nil {
			a.Fatalf("Invalid target URL: %v", err)
		}

		proxy := httputil.NewSingleHostReverseProxy(target)
		director := proxy.Director
		proxy.Director = func(req *http.Request) {
			director(req)
			req.Host = target.Host
		}
		proxy.ModifyResponse = func(resp *http.Response) error {
			fmt.Printf("\n%s<-- %s%s\n", colorGreen, resp.Status, colorReset)
			printHeaders(resp.Header)
			body, err := readBody(resp.Body, resp.Header.Get("Content-Encoding") == "gzip")
			if err != nil {
				return err
			}
			printBody(body)
			resp.Body = io.NopCloser(bytes.NewReader(body))
			resp.ContentLength = int64(len(body))
			resp.Header.Del("Content-Encoding")
			return nil
		}

		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			fmt.Printf("\n%s[%s] --> %s %s%s\n", colorCyan, time.Now().Format("15:04:05"), r.Method, r.URL.Path, colorReset)
			printHeaders(r.Header)
			if r.Body != nil {
				body, err := readBody(r.Body, false)
				if err == nil {
					printBody(body)
					r.Body = io.NopCloser(bytes.NewReader(body))
					r.ContentLength = int64(len(body))
				}
			}
			proxy.ServeHTTP(w, r)
		})

		fmt.Printf("\nDebug proxy listening on http://localhost:%s\n", *port)
		fmt.Printf("   Proxying to: %s\n", target)
		fmt.Printf("   Set the model's base_url to: http://localhost:%s\n\n", *port)
		if err := http.ListenAndServe(":"+*port, mux); err != nil {
			a.Fatalf("Server error: %v", err)
		}
	},
})

func readBody(body io.ReadCloser, gzipped bool) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if gzipped {
		if zr, err := gzip.NewReader(bytes.NewReader(data)); err == nil {
			if plain, err := io.ReadAll(zr); err == nil {
				data = plain
			}
			zr.Close()
		}
	}
	return data, nil
}

func printHeaders(h http.Header) {
	fmt.Printf("%sHeaders:%s\n", colorYellow, colorReset)
	for k, v := range h {
		val := strings.Join(v, ", ")
		switch strings.ToLower(k) {
		case "authorization", "x-api-key", "x-goog-api-key":
			if len(val) > 20 {
				val = val[:10] + "..." + val[len(val)-5:]
			}
		}
		fmt.Printf("  %s: %s\n", k, val)
	}
}

func printBody(data []byte) {
	if len(data) == 0 {
		return
	}
	s := string(data)
	var obj any
	if err := json.Unmarshal(data, &obj); err == nil {
		pretty, _ := json.MarshalIndent(obj, "  ", "  ")
		s = string(pretty)
	}
	if len(s) > maxBodyPrint {
		s = s[:maxBodyPrint] + "\n  ... (truncated)"
	}
	fmt.Printf("%sBody:%s\n  %s\n", colorYellow, colorReset, s)
}
