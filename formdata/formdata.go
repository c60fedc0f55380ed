// Package formdata rebuilds the nested structure of form-encoded payloads
// that use bracketed keys, such as the ones sent by Bitrix24:
//
//	auth[domain]=example.bitrix24.ru&auth[access_token]=abc&event=ONAPPINSTALL
//
// becomes
//
//	{"auth": {"domain": "example.bitrix24.ru", "access_token": "abc"}, "event": "ONAPPINSTALL"}
package formdata

import (
	"errors"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// ParseNested converts values into nested maps. Only the first value of each
// key is used. When a key is both a leaf and a parent ("a=1&a[b]=2") the
// nested map wins.
func ParseNested(values url.Values) map[string]any {
	result := make(map[string]any)

	// Sorted so that the outcome does not depend on map iteration order.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if len(values[k]) == 0 {
			continue
		}
		parts := splitKey(k)

		m := result
		for _, p := range parts[:len(parts)-1] {
			next, ok := m[p].(map[string]any)
			if !ok {
				next = make(map[string]any)
				m[p] = next
			}
			m = next
		}

		last := parts[len(parts)-1]
		if _, isMap := m[last].(map[string]any); isMap {
			continue
		}
		m[last] = values[k][0]
	}
	return result
}

// splitKey turns "user[address][city]" into ["user", "address", "city"].
func splitKey(k string) []string {
	return strings.Split(strings.ReplaceAll(k, "]", ""), "[")
}

// Lookup walks m along path and returns the string found at its end.
func Lookup(m map[string]any, path ...string) (string, bool) {
	var cur any = m
	for _, p := range path {
		node, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		cur, ok = node[p]
		if !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}

// Map returns the nested map stored under key, or nil.
func Map(m map[string]any, key string) map[string]any {
	sub, _ := m[key].(map[string]any)
	return sub
}

const maxMemory = 32 << 20

// FromRequest parses the url-encoded or multipart body of r and returns it
// nested with ParseNested. A body that does not parse is an error; nothing
// of it is returned.
func FromRequest(r *http.Request) (map[string]any, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
	}
	return ParseNested(r.PostForm), nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
