package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const mockListPageSize = 2

// NewMockForTests returns a Store wired to an in-memory fake S3 endpoint.
// The fake understands HEAD, GET, PUT, DELETE and paginated ListObjectsV2
// (two keys per page) in path-style addressing.
func NewMockForTests() *Store {
	rt := &mockTransport{objects: make(map[string]mockObject)}
	store, err := New(context.Background(), Config{
		Region:          "us-east-1",
		Bucket:          "mock-bucket",
		Endpoint:        "https://mock.s3.local",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
		HTTPClient:      &http.Client{Transport: rt},
	})
	if err != nil {
		panic(err)
	}
	return store
}

type mockObject struct {
	body        []byte
	contentType string
	metadata    http.Header
	modified    time.Time
}

type mockTransport struct {
	mu      sync.Mutex
	objects map[string]mockObject
}

func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	if req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2" {
		return m.list(req), nil
	}
	switch req.Method {
	case http.MethodHead, http.MethodGet:
		obj, ok := m.objects[key]
		if !ok {
			return response(http.StatusNotFound, nil, http.Header{}), nil
		}
		h := http.Header{
			"Content-Length": {strconv.Itoa(len(obj.body))},
			"Content-Type":   {obj.contentType},
			"Etag":           {fmt.Sprintf("%q", fmt.Sprintf("etag-%d", len(obj.body)))},
			"Last-Modified":  {obj.modified.Format(http.TimeFormat)},
		}
		for k, v := range obj.metadata {
			h[k] = v
		}
		if req.Method == http.MethodHead {
			return response(http.StatusOK, nil, h), nil
		}
		return response(http.StatusOK, obj.body, h), nil
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if decoded, ok := decodeChunked(body); ok {
			body = decoded
		}
		md := http.Header{}
		for k, v := range req.Header {
			if strings.HasPrefix(strings.ToLower(k), "x-amz-meta-") {
				md[k] = v
			}
		}
		m.objects[key] = mockObject{
			body:        body,
			contentType: req.Header.Get("Content-Type"),
			metadata:    md,
			modified:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		return response(http.StatusOK, nil, http.Header{"Etag": {`"etag"`}}), nil
	case http.MethodDelete:
		delete(m.objects, key)
		return response(http.StatusNoContent, nil, http.Header{}), nil
	}
	return response(http.StatusNotImplemented, nil, http.Header{}), nil
}

func (m *mockTransport) list(req *http.Request) *http.Response {
	q := req.URL.Query()
	prefix := q.Get("prefix")
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	start := 0
	if tok := q.Get("continuation-token"); tok != "" {
		start, _ = strconv.Atoi(tok)
	}
	if start > len(keys) {
		start = len(keys)
	}
	end := start + mockListPageSize
	truncated := end < len(keys)
	if !truncated {
		end = len(keys)
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult>`)
	fmt.Fprintf(&b, "<IsTruncated>%t</IsTruncated>", truncated)
	if truncated {
		fmt.Fprintf(&b, "<NextContinuationToken>%d</NextContinuationToken>", end)
	}
	for _, k := range keys[start:end] {
		fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>2024-01-01T00:00:00Z</LastModified></Contents>",
			k, len(m.objects[k].body))
	}
	b.WriteString("</ListBucketResult>")
	return response(http.StatusOK, []byte(b.String()), http.Header{"Content-Type": {"application/xml"}})
}

func response(status int, body []byte, h http.Header) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewReader(body)), Header: h, ContentLength: int64(len(body))}
}

// decodeChunked unwraps a single-chunk aws-chunked payload:
// <hex size>\r\n<body>\r\n0\r\n[trailers].
func decodeChunked(b []byte) ([]byte, bool) {
	head, rest, ok := bytes.Cut(b, []byte("\r\n"))
	if !ok {
		return nil, false
	}
	size, err := strconv.ParseInt(string(bytes.TrimSpace(bytes.SplitN(head, []byte(";"), 2)[0])), 16, 64)
	if err != nil || size < 0 || int64(len(rest)) < size+2 {
		return nil, false
	}
	body, tail := rest[:size], rest[size:]
	if !bytes.HasPrefix(tail, []byte("\r\n0")) {
		return nil, false
	}
	return body, true
}
