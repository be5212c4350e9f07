package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"time"
)

type target struct {
	Method   string          `json:"method"`
	Path     string          `json:"path"`
	Body     json.RawMessage `json:"body,omitempty"`
	Critical bool            `json:"critical"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	Diffs          []string
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

// OK reports whether both sides answered with the same status and envelope.
func (c comparison) OK() bool {
	return c.Error == nil && c.StatusMatch && len(c.Diffs) == 0
}

func compareTarget(client *http.Client, goBase, legacyBase string, tgt target, strict bool) comparison {
	comp := comparison{Target: tgt}
	goStatus, goBody, goDur, goErr := performRequest(client, goBase, tgt)
	legacyStatus, legacyBody, legacyDur, legacyErr := performRequest(client, legacyBase, tgt)
	comp.DurationGo = goDur
	comp.DurationLegacy = legacyDur

	if goErr != nil {
		comp.Error = fmt.Errorf("go request failed: %w", goErr)
		return comp
	}
	if legacyErr != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", legacyErr)
		return comp
	}

	comp.GoStatus = goStatus
	comp.LegacyStatus = legacyStatus
	comp.StatusMatch = goStatus == legacyStatus
	comp.Diffs = envelopeDiffs(legacyBody, goBody, strict)
	return comp
}

func performRequest(client *http.Client, base string, tgt target) (int, []byte, time.Duration, error) {
	if client == nil {
		return 0, nil, 0, errors.New("nil client")
	}
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if len(tgt.Body) > 0 {
		body = bytes.NewReader(tgt.Body)
	}
	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, body)
	if err != nil {
		return 0, nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, raw, time.Since(start), nil
}

// envelopeDiffs compares two {success, data?, message?, error?} bodies. By
// default only the shape is compared: the same keys, the same success flag,
// and the same JSON kinds, so generated ids and timestamps do not count.
func envelopeDiffs(legacy, current []byte, strict bool) []string {
	var l, c map[string]interface{}
	if err := json.Unmarshal(legacy, &l); err != nil {
		return []string{"legacy body is not a JSON object"}
	}
	if err := json.Unmarshal(current, &c); err != nil {
		return []string{"go body is not a JSON object"}
	}

	var diffs []string
	for _, key := range unionKeys(l, c) {
		lv, lok := l[key]
		cv, cok := c[key]
		switch {
		case !lok:
			diffs = append(diffs, fmt.Sprintf("%s: only in go", key))
		case !cok:
			diffs = append(diffs, fmt.Sprintf("%s: missing in go", key))
		case key == "success" || key == "error":
			if !reflect.DeepEqual(lv, cv) {
				diffs = append(diffs, fmt.Sprintf("%s: legacy=%v go=%v", key, lv, cv))
			}
		case strict && !reflect.DeepEqual(lv, cv):
			diffs = append(diffs, fmt.Sprintf("%s: values differ", key))
		default:
			if d := shapeDiff(key, lv, cv); d != "" {
				diffs = append(diffs, d)
			}
		}
	}
	return diffs
}

func shapeDiff(path string, a, b interface{}) string {
	if kind(a) != kind(b) {
		return fmt.Sprintf("%s: legacy %s, go %s", path, kind(a), kind(b))
	}
	switch av := a.(type) {
	case map[string]interface{}:
		bv := b.(map[string]interface{})
		for _, key := range unionKeys(av, bv) {
			x, xok := av[key]
			y, yok := bv[key]
			if !xok || !yok {
				return fmt.Sprintf("%s.%s: key present on one side only", path, key)
			}
			if d := shapeDiff(path+"."+key, x, y); d != "" {
				return d
			}
		}
	case []interface{}:
		bv := b.([]interface{})
		if len(av) > 0 && len(bv) > 0 {
			return shapeDiff(path+"[0]", av[0], bv[0])
		}
	}
	return ""
}

func kind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case float64:
		return "number"
	case string:
		return "string"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func unionKeys(a, b map[string]interface{}) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
