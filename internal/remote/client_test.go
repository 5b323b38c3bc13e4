// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"legallens/internal/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Analyze(t *testing.T) {
	want := analysis.Fallback()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)

		file, header, err := r.FormFile(FormField)
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "lease.txt", header.Filename)
		assert.Equal(t, "rent is due", string(content))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/")
	got, err := client.Analyze(context.Background(), analysis.Upload{FileName: "lease.txt", Content: []byte("rent is due")})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClient_Failures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			want: analysis.ErrMalformedResponse,
		},
		{
			name: "unprocessable",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(`{"error":"Could not extract text"}`))
			},
			want: analysis.ErrMalformedResponse,
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>hello</html>"))
			},
			want: analysis.ErrMalformedResponse,
		},
		{
			name: "wrong shape",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"fileName":"a.pdf","summary":"not a list"}`))
			},
			want: analysis.ErrMalformedResponse,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			got, err := NewClient(srv.URL).Analyze(context.Background(), analysis.Upload{FileName: "a.pdf"})
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Analyze(context.Background(), analysis.Upload{FileName: "a.pdf"})
	assert.True(t, errors.Is(err, analysis.ErrRemoteSubmission))
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(srv.URL).Analyze(ctx, analysis.Upload{FileName: "a.pdf"})
	assert.True(t, errors.Is(err, analysis.ErrRemoteSubmission))
}

func TestClient_Endpoint(t *testing.T) {
	assert.Equal(t, "http://localhost:5000/analyze", NewClient("http://localhost:5000///").Endpoint())
}
