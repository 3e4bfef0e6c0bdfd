package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// shadowTarget is one request replayed against both deployments.
type shadowTarget struct {
	Method   string            `json:"method"`
	Path     string            `json:"path"`
	Body     json.RawMessage   `json:"body,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
	Critical bool              `json:"critical"`
}

type shadowFile struct {
	Targets []shadowTarget `json:"targets"`
}

type shadowResult struct {
	Target       shadowTarget
	LegacyStatus int
	GoStatus     int
	StatusMatch  bool
	BodyMatch    bool
	Err          error
	GoTook       time.Duration
	LegacyTook   time.Duration
}

func (r shadowResult) diff() bool {
	return r.Err != nil || !r.StatusMatch || !r.BodyMatch
}

func shadowCmd() *cobra.Command {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		timeout     time.Duration
		unwrap      bool
	)

	cmd := &cobra.Command{
		Use:   "shadow",
		Short: "Replay requests against the legacy and Go deployments and diff them",
		Long: `Shadow sends each target to both base URLs and compares status codes and
JSON bodies. Numbers are compared by value. With --unwrap the Go response's
"data" envelope field is compared against the bare legacy body. Any
difference on a critical target makes the command fail.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := loadShadowTargets(targetsPath)
			if err != nil {
				return err
			}

			client := &http.Client{Timeout: timeout}
			results := make([]shadowResult, 0, len(targets))
			breaking, optional := 0, 0
			for _, t := range targets {
				res := compareTarget(client, goBase, legacyBase, t, unwrap)
				if res.diff() {
					if t.Critical {
						breaking++
					} else {
						optional++
					}
				}
				results = append(results, res)
			}

			out := cmd.OutOrStdout()
			printShadowReport(out, results)
			fmt.Fprintf(out, "Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
			if breaking > 0 {
				return fmt.Errorf("%d critical targets differ", breaking)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&goBase, "go-base", "http://localhost:5000", "Go API base URL")
	cmd.Flags().StringVar(&legacyBase, "legacy-base", "http://localhost:8000", "Legacy API base URL")
	cmd.Flags().StringVar(&targetsPath, "targets", "shadow_targets.json", "JSON targets file")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	cmd.Flags().BoolVar(&unwrap, "unwrap", true, "Compare the Go envelope data field only")
	return cmd
}

func loadShadowTargets(path string) ([]shadowTarget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets: %w", err)
	}
	var file shadowFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse targets: %w", err)
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return file.Targets, nil
}

func compareTarget(client *http.Client, goBase, legacyBase string, t shadowTarget, unwrap bool) shadowResult {
	res := shadowResult{Target: t}

	goStatus, goBody, goTook, err := fetch(client, goBase, t)
	res.GoTook = goTook
	if err != nil {
		res.Err = fmt.Errorf("go request failed: %w", err)
		return res
	}
	legacyStatus, legacyBody, legacyTook, err := fetch(client, legacyBase, t)
	res.LegacyTook = legacyTook
	if err != nil {
		res.Err = fmt.Errorf("legacy request failed: %w", err)
		return res
	}

	res.GoStatus = goStatus
	res.LegacyStatus = legacyStatus
	res.StatusMatch = goStatus == legacyStatus
	if unwrap {
		goBody = envelopeData(goBody)
	}
	res.BodyMatch = bodiesEqual(goBody, legacyBody)
	return res
}

func fetch(client *http.Client, base string, t shadowTarget) (int, []byte, time.Duration, error) {
	if client == nil {
		return 0, nil, 0, errors.New("nil client")
	}
	method := strings.ToUpper(strings.TrimSpace(t.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := t.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if len(t.Body) > 0 {
		body = bytes.NewReader(t.Body)
	}
	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, body)
	if err != nil {
		return 0, nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range t.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	took := time.Since(start)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, took, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, data, took, nil
}

// envelopeData returns the "data" member of a response envelope, or body
// unchanged when it is not one.
func envelopeData(body []byte) []byte {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return body
	}
	if data, ok := env["data"]; ok {
		return data
	}
	return body
}

func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var av, bv interface{}
	if err := json.Unmarshal(a, &av); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bv); err != nil {
		return false
	}
	return reflect.DeepEqual(normalize(av), normalize(bv))
}

func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
		return val
	default:
		return v
	}
}

func printShadowReport(w io.Writer, results []shadowResult) {
	fmt.Fprintln(w, "Shadow Compare Report")
	fmt.Fprintln(w, "=====================")
	for _, res := range results {
		status := "OK"
		if res.Err != nil {
			status = "ERROR"
		} else if res.diff() {
			status = "DIFF"
		}
		fmt.Fprintf(w, "[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		fmt.Fprintf(w, "  Go Status: %d (%s)\n", res.GoStatus, res.GoTook)
		fmt.Fprintf(w, "  Legacy Status: %d (%s)\n", res.LegacyStatus, res.LegacyTook)
		if res.Err != nil {
			fmt.Fprintf(w, "  Error: %v\n", res.Err)
			continue
		}
		fmt.Fprintf(w, "  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
	}
}
